// internal/models/user.go
package models

import "strings"

// Measurements are optional body measurements in centimetres.
type Measurements struct {
	Chest float64 `json:"chest,omitempty" validate:"omitempty,gt=0,lt=300"`
	Waist float64 `json:"waist,omitempty" validate:"omitempty,gt=0,lt=300"`
	Hips  float64 `json:"hips,omitempty" validate:"omitempty,gt=0,lt=300"`
}

// Any reports whether at least one measurement is set.
func (m *Measurements) Any() bool {
	return m != nil && (m.Chest > 0 || m.Waist > 0 || m.Hips > 0)
}

const (
	LocationHome = "Home"
	LocationGym  = "Gym"
)

type UserProfile struct {
	Gender          string        `json:"gender" validate:"required"`
	Age             int           `json:"age" validate:"required,gte=12,lte=100"`
	Weight          float64       `json:"weight" validate:"required,gte=30,lte=300"`
	Height          float64       `json:"height" validate:"required,gte=100,lte=250"`
	ActivityLevel   string        `json:"activityLevel" validate:"required"`
	Goal            string        `json:"goal" validate:"required"`
	WorkoutLocation string        `json:"workoutLocation" validate:"required,oneof=Home Gym"`
	WorkoutDays     []string      `json:"workoutDays" validate:"required,min=1,max=7,dive,required"`
	Equipment       []string      `json:"equipment,omitempty"`
	Measurements    *Measurements `json:"measurements,omitempty" validate:"omitempty"`
}

// EquipmentList is the equipment as a single human-readable string.
func (p *UserProfile) EquipmentList(none string) string {
	if p == nil || len(p.Equipment) == 0 {
		return none
	}
	return strings.Join(p.Equipment, ", ")
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.WorkoutDays = cloneStrings(p.WorkoutDays)
	out.Equipment = cloneStrings(p.Equipment)
	if p.Measurements != nil {
		m := *p.Measurements
		out.Measurements = &m
	}
	return &out
}
