// Package workout tracks a workout in progress against the plan.
//
// A user is either idle or has exactly one active session. Start moves to
// active; Finish (into history) and Cancel (discarded) move back to idle.
package workout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/pkg/logger"
)

var (
	ErrSessionActive    = errors.New("a workout session is already active")
	ErrNoActiveSession  = errors.New("no active workout session")
	ErrInvalidSetIndex  = errors.New("invalid set index")
	ErrExerciseNotFound = errors.New("exercise not found in plan")
	ErrInvalidFeedback  = errors.New("feedback must be easy, ideal or hard")
	ErrNoPlan           = errors.New("no plan")
)

// MaxSetIndex bounds LogSet so a typo cannot grow a log without limit.
const MaxSetIndex = 50

// SessionStore persists the plan and the session state. *db.Store implements it.
type SessionStore interface {
	Plan() *models.Plan
	SavePlan(ctx context.Context, plan *models.Plan) error
	ActiveWorkout() *models.ActiveWorkoutSession
	SaveActiveWorkout(ctx context.Context, session *models.ActiveWorkoutSession) error
	PrependHistory(ctx context.Context, session models.ActiveWorkoutSession) error
}

// ExerciseSource suggests a replacement exercise. *gpt.Substituter implements it.
type ExerciseSource interface {
	SuggestAlternative(ctx context.Context, ex models.Exercise, focus, equipment string, lang i18n.Language) (models.Exercise, error)
}

type Manager struct {
	store  SessionStore
	source ExerciseSource
	logger *logger.Logger
	now    func() time.Time
}

func NewManager(store SessionStore, source ExerciseSource, logger *logger.Logger) *Manager {
	return &Manager{store: store, source: source, logger: logger, now: time.Now}
}

// Active returns the session in progress, or nil.
func (m *Manager) Active() *models.ActiveWorkoutSession {
	return m.store.ActiveWorkout()
}

// Start opens a session for workout. It fails with ErrSessionActive while
// another session is in progress.
func (m *Manager) Start(ctx context.Context, workout models.DailyWorkout) (*models.ActiveWorkoutSession, error) {
	if active := m.store.ActiveWorkout(); active != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionActive, active.WorkoutName)
	}

	session := &models.ActiveWorkoutSession{
		ID:           uuid.NewString(),
		WorkoutID:    workout.ID,
		WorkoutName:  workout.Focus,
		StartTime:    m.now().UnixMilli(),
		ExerciseLogs: map[string][]models.SetLog{},
	}
	if err := m.store.SaveActiveWorkout(ctx, session); err != nil {
		return nil, fmt.Errorf("save active workout: %w", err)
	}

	m.logger.Infow("Workout started", "session_id", session.ID, "workout_id", workout.ID)
	return session.Clone(), nil
}

// LogSet records a completed set at setIndex, replacing whatever was there.
// Skipped sets before setIndex are filled with not-completed entries. The
// index is not checked against the prescribed number of sets.
func (m *Manager) LogSet(ctx context.Context, exerciseID string, setIndex int, weight float64, reps int) (*models.ActiveWorkoutSession, error) {
	if setIndex < 0 || setIndex >= MaxSetIndex {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSetIndex, setIndex)
	}

	session := m.store.ActiveWorkout()
	if session == nil {
		return nil, ErrNoActiveSession
	}

	logs := session.ExerciseLogs[exerciseID]
	for len(logs) <= setIndex {
		logs = append(logs, models.SetLog{})
	}
	logs[setIndex] = models.SetLog{Weight: weight, Reps: reps, Completed: true}
	if session.ExerciseLogs == nil {
		session.ExerciseLogs = map[string][]models.SetLog{}
	}
	session.ExerciseLogs[exerciseID] = logs

	if err := m.store.SaveActiveWorkout(ctx, session); err != nil {
		return nil, fmt.Errorf("save active workout: %w", err)
	}
	return session, nil
}

// SubstituteExercise replaces an exercise with a generated alternative that
// keeps its sets, reps and rest. Every occurrence of the id across the whole
// schedule is replaced.
func (m *Manager) SubstituteExercise(ctx context.Context, exerciseID, equipment string, lang i18n.Language) (models.Exercise, error) {
	plan := m.store.Plan()
	if plan == nil {
		return models.Exercise{}, ErrNoPlan
	}

	original, focus, ok := findExercise(plan, exerciseID)
	if !ok {
		return models.Exercise{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}

	alt, err := m.source.SuggestAlternative(ctx, original, focus, equipment, lang)
	if err != nil {
		return models.Exercise{}, err
	}
	alt.ID = uuid.NewString()
	alt.Sets = original.Sets
	alt.Reps = original.Reps
	alt.Rest = original.Rest

	replaced := 0
	for i := range plan.WorkoutPlan.Schedule {
		exercises := plan.WorkoutPlan.Schedule[i].Exercises
		for j := range exercises {
			if exercises[j].ID == exerciseID {
				exercises[j] = alt
				replaced++
			}
		}
	}

	if err := m.store.SavePlan(ctx, plan); err != nil {
		return models.Exercise{}, fmt.Errorf("save plan: %w", err)
	}

	m.logger.Infow("Exercise substituted", "old_id", exerciseID, "new_id", alt.ID, "name", alt.Name, "occurrences", replaced)
	return alt, nil
}

// Finish stamps the session, puts it at the head of the history and clears
// the active slot.
func (m *Manager) Finish(ctx context.Context, feedback models.Feedback) (*models.ActiveWorkoutSession, error) {
	if !feedback.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFeedback, feedback)
	}

	session := m.store.ActiveWorkout()
	if session == nil {
		return nil, ErrNoActiveSession
	}

	end := m.now().UnixMilli()
	session.EndTime = &end
	session.Feedback = feedback

	if err := m.store.PrependHistory(ctx, *session); err != nil {
		return nil, fmt.Errorf("save workout history: %w", err)
	}
	if err := m.store.SaveActiveWorkout(ctx, nil); err != nil {
		return nil, fmt.Errorf("clear active workout: %w", err)
	}

	m.logger.Infow("Workout finished", "session_id", session.ID, "feedback", feedback)
	return session, nil
}

// Cancel discards the active session without touching history.
func (m *Manager) Cancel(ctx context.Context) error {
	session := m.store.ActiveWorkout()
	if session == nil {
		return ErrNoActiveSession
	}
	if err := m.store.SaveActiveWorkout(ctx, nil); err != nil {
		return fmt.Errorf("clear active workout: %w", err)
	}
	m.logger.Infow("Workout cancelled", "session_id", session.ID)
	return nil
}

func findExercise(plan *models.Plan, id string) (models.Exercise, string, bool) {
	for _, day := range plan.WorkoutPlan.Schedule {
		for _, ex := range day.Exercises {
			if ex.ID == id {
				return ex, day.Focus, true
			}
		}
	}
	return models.Exercise{}, "", false
}

// IsWarmup reports whether the exercise name carries the warm-up marker.
func IsWarmup(ex models.Exercise, marker string) bool {
	return marker != "" && strings.Contains(strings.ToLower(ex.Name), strings.ToLower(marker))
}

// PrescribedSets reads the number of sets from the sets text: the integer
// before '-' ("3-4" is 3), or before 'x' for warm-ups ("2x10" is 2).
// Anything unreadable counts as one set.
func PrescribedSets(ex models.Exercise, warmupMarker string) int {
	spec := strings.ToLower(strings.TrimSpace(ex.Sets))
	sep := "-"
	if IsWarmup(ex, warmupMarker) {
		sep = "x"
	}
	if i := strings.Index(spec, sep); i >= 0 {
		spec = spec[:i]
	}
	n, err := strconv.Atoi(leadingDigits(strings.TrimSpace(spec)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func leadingDigits(s string) string {
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return s[:i]
		}
	}
	return s
}

// CompletedSets counts the completed entries logged for an exercise.
func CompletedSets(session *models.ActiveWorkoutSession, exerciseID string) int {
	if session == nil {
		return 0
	}
	n := 0
	for _, l := range session.ExerciseLogs[exerciseID] {
		if l.Completed {
			n++
		}
	}
	return n
}

// IsComplete reports whether every exercise of the workout has at least its
// prescribed number of completed sets. It is derived on demand, never stored.
func IsComplete(workout models.DailyWorkout, session *models.ActiveWorkoutSession, lang i18n.Language) bool {
	if session == nil {
		return false
	}
	marker := lang.WarmupMarker()
	for _, ex := range workout.Exercises {
		if CompletedSets(session, ex.ID) < PrescribedSets(ex, marker) {
			return false
		}
	}
	return true
}

// TodaysWorkout finds the schedule entry for now's weekday in lang.
func TodaysWorkout(plan *models.Plan, lang i18n.Language, now time.Time) (*models.DailyWorkout, bool) {
	if plan == nil {
		return nil, false
	}
	today := lang.Weekday(now)
	for i := range plan.WorkoutPlan.Schedule {
		if strings.EqualFold(strings.TrimSpace(plan.WorkoutPlan.Schedule[i].Day), today) {
			day := plan.WorkoutPlan.Schedule[i]
			return &day, true
		}
	}
	return nil, false
}

// ActiveWorkout returns the schedule entry the session refers to.
func ActiveWorkout(plan *models.Plan, session *models.ActiveWorkoutSession) (*models.DailyWorkout, bool) {
	if session == nil {
		return nil, false
	}
	day, ok := plan.FindWorkout(session.WorkoutID)
	if !ok {
		return nil, false
	}
	cp := *day
	return &cp, true
}
