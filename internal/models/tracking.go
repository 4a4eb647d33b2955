// internal/models/tracking.go
package models

// ProgressEntry is immutable once stored.
type ProgressEntry struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"` // RFC3339
	Weight       *float64      `json:"weight,omitempty"`
	Measurements *Measurements `json:"measurements,omitempty"`
	Photo        string        `json:"photo,omitempty"` // object storage key
}

func (e ProgressEntry) Clone() ProgressEntry {
	if e.Weight != nil {
		w := *e.Weight
		e.Weight = &w
	}
	if e.Measurements != nil {
		m := *e.Measurements
		e.Measurements = &m
	}
	return e
}

type SetLog struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

type Feedback string

const (
	FeedbackEasy  Feedback = "easy"
	FeedbackIdeal Feedback = "ideal"
	FeedbackHard  Feedback = "hard"
)

func (f Feedback) Valid() bool {
	switch f {
	case FeedbackEasy, FeedbackIdeal, FeedbackHard:
		return true
	}
	return false
}

// ActiveWorkoutSession is a workout in progress, or a finished one once it is in history.
// StartTime and EndTime are unix milliseconds.
type ActiveWorkoutSession struct {
	ID           string              `json:"id"`
	WorkoutID    string              `json:"workoutId"`
	WorkoutName  string              `json:"workoutName"`
	StartTime    int64               `json:"startTime"`
	EndTime      *int64              `json:"endTime,omitempty"`
	ExerciseLogs map[string][]SetLog `json:"exerciseLogs"`
	Feedback     Feedback            `json:"feedback,omitempty"`
}

// Clone returns a deep copy of the session.
func (s *ActiveWorkoutSession) Clone() *ActiveWorkoutSession {
	if s == nil {
		return nil
	}
	out := *s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	out.ExerciseLogs = make(map[string][]SetLog, len(s.ExerciseLogs))
	for id, logs := range s.ExerciseLogs {
		out.ExerciseLogs[id] = append([]SetLog(nil), logs...)
	}
	return &out
}

// CompletedMealsLog maps a "2006-01-02" date to the meal ids eaten that day.
type CompletedMealsLog map[string]map[string]bool

func (l CompletedMealsLog) Clone() CompletedMealsLog {
	out := make(CompletedMealsLog, len(l))
	for date, meals := range l {
		m := make(map[string]bool, len(meals))
		for id, done := range meals {
			m[id] = done
		}
		out[date] = m
	}
	return out
}
