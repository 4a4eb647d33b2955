// internal/models/plan.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Meal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Time        string   `json:"time"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Recipe      []string `json:"recipe"`
	Ingredients []string `json:"ingredients"`
}

type DailyNutrition struct {
	Day           string  `json:"day"`
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	Meals         []Meal  `json:"meals"`
}

type NutritionPlan struct {
	Summary    string           `json:"summary"`
	DailyPlans []DailyNutrition `json:"dailyPlans"`
}

type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sets        string `json:"sets"`
	Reps        string `json:"reps"`
	Rest        string `json:"rest"`
	Description string `json:"description"`
}

type DailyWorkout struct {
	ID        string     `json:"id"`
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	Duration  string     `json:"duration"`
	Exercises []Exercise `json:"exercises"`
}

type WorkoutPlan struct {
	Summary  string         `json:"summary"`
	Schedule []DailyWorkout `json:"schedule"`
}

// Plan is the root artifact: one nutrition plan and one workout plan per user.
type Plan struct {
	NutritionPlan NutritionPlan `json:"nutritionPlan"`
	WorkoutPlan   WorkoutPlan   `json:"workoutPlan"`
}

// UnmarshalJSON accepts a day whose meals value is missing or not an array
// and leaves Meals nil instead of failing the whole plan. Elements are decoded
// one by one, so a mistyped field never costs the rest of the list.
func (d *DailyNutrition) UnmarshalJSON(data []byte) error {
	type alias DailyNutrition
	aux := struct {
		*alias
		Meals json.RawMessage `json:"meals"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Meals = nil
	if items, ok := rawArray(aux.Meals); ok {
		d.Meals = make([]Meal, len(items))
		for i, item := range items {
			d.Meals[i].decodeLenient(item)
		}
	}
	return nil
}

// UnmarshalJSON accepts a day whose exercises value is missing or not an array.
func (d *DailyWorkout) UnmarshalJSON(data []byte) error {
	type alias DailyWorkout
	aux := struct {
		*alias
		Exercises json.RawMessage `json:"exercises"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Exercises = nil
	if items, ok := rawArray(aux.Exercises); ok {
		d.Exercises = make([]Exercise, len(items))
		for i, item := range items {
			d.Exercises[i].decodeLenient(item)
		}
	}
	return nil
}

func rawArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil, false
	}
	return items, true
}

// fields is a JSON object read key by key. A value of the wrong type is
// coerced when it can be and left zero otherwise.
type fields map[string]json.RawMessage

func (f fields) str(key string) string {
	return rawString(f[key])
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func (f fields) number(key string) float64 {
	raw, ok := f[key]
	if !ok {
		return 0
	}
	var v float64
	if json.Unmarshal(raw, &v) == nil {
		return v
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}

func (f fields) strs(key string) []string {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		if s := f.str(key); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := rawString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// decodeLenient fills m from raw. An element that is not an object stays a
// zero Meal and keeps its place in the list.
func (m *Meal) decodeLenient(raw json.RawMessage) {
	var f fields
	if json.Unmarshal(raw, &f) != nil {
		return
	}
	*m = Meal{
		ID:          f.str("id"),
		Name:        f.str("name"),
		Time:        f.str("time"),
		Calories:    f.number("calories"),
		Protein:     f.number("protein"),
		Recipe:      f.strs("recipe"),
		Ingredients: f.strs("ingredients"),
	}
}

func (e *Exercise) decodeLenient(raw json.RawMessage) {
	var f fields
	if json.Unmarshal(raw, &f) != nil {
		return
	}
	*e = Exercise{
		ID:          f.str("id"),
		Name:        f.str("name"),
		Sets:        f.str("sets"),
		Reps:        f.str("reps"),
		Rest:        f.str("rest"),
		Description: f.str("description"),
	}
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := &Plan{
		NutritionPlan: NutritionPlan{Summary: p.NutritionPlan.Summary},
		WorkoutPlan:   WorkoutPlan{Summary: p.WorkoutPlan.Summary},
	}

	if p.NutritionPlan.DailyPlans != nil {
		out.NutritionPlan.DailyPlans = make([]DailyNutrition, len(p.NutritionPlan.DailyPlans))
		for i, day := range p.NutritionPlan.DailyPlans {
			out.NutritionPlan.DailyPlans[i] = day
			if day.Meals != nil {
				meals := make([]Meal, len(day.Meals))
				for j, m := range day.Meals {
					m.Recipe = cloneStrings(m.Recipe)
					m.Ingredients = cloneStrings(m.Ingredients)
					meals[j] = m
				}
				out.NutritionPlan.DailyPlans[i].Meals = meals
			}
		}
	}

	if p.WorkoutPlan.Schedule != nil {
		out.WorkoutPlan.Schedule = make([]DailyWorkout, len(p.WorkoutPlan.Schedule))
		for i, day := range p.WorkoutPlan.Schedule {
			out.WorkoutPlan.Schedule[i] = day
			if day.Exercises != nil {
				out.WorkoutPlan.Schedule[i].Exercises = append([]Exercise(nil), day.Exercises...)
			}
		}
	}

	return out
}

// FindWorkout returns the schedule entry with the given id.
func (p *Plan) FindWorkout(id string) (*DailyWorkout, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.WorkoutPlan.Schedule {
		if p.WorkoutPlan.Schedule[i].ID == id {
			return &p.WorkoutPlan.Schedule[i], true
		}
	}
	return nil, false
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
