package workout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/pkg/logger"
)

type memStore struct {
	plan    *models.Plan
	active  *models.ActiveWorkoutSession
	history []models.ActiveWorkoutSession
}

func (s *memStore) Plan() *models.Plan { return s.plan.Clone() }

func (s *memStore) SavePlan(_ context.Context, p *models.Plan) error {
	s.plan = p.Clone()
	return nil
}

func (s *memStore) ActiveWorkout() *models.ActiveWorkoutSession { return s.active.Clone() }

func (s *memStore) SaveActiveWorkout(_ context.Context, session *models.ActiveWorkoutSession) error {
	s.active = session.Clone()
	return nil
}

func (s *memStore) PrependHistory(_ context.Context, session models.ActiveWorkoutSession) error {
	s.history = append([]models.ActiveWorkoutSession{*session.Clone()}, s.history...)
	return nil
}

type fakeSource struct {
	calls int
	err   error
}

func (f *fakeSource) SuggestAlternative(_ context.Context, ex models.Exercise, focus, _ string, _ i18n.Language) (models.Exercise, error) {
	f.calls++
	if f.err != nil {
		return models.Exercise{}, f.err
	}
	return models.Exercise{ID: "from-model", Name: "Goblet squat", Sets: "9", Reps: "9", Rest: "9s", Description: focus}, nil
}

func pushDay() models.DailyWorkout {
	return models.DailyWorkout{
		ID:    "w1",
		Day:   "Monday",
		Focus: "Push",
		Exercises: []models.Exercise{
			{ID: "wu", Name: "Arm circles (Warm-up)", Sets: "2x10", Reps: "10", Rest: "0s"},
			{ID: "bp", Name: "Bench press", Sets: "3-4", Reps: "8-10", Rest: "90s"},
			{ID: "ohp", Name: "Overhead press", Sets: "3-4", Reps: "8", Rest: "90s"},
		},
	}
}

func newManager() (*Manager, *memStore, *fakeSource) {
	store := &memStore{plan: &models.Plan{WorkoutPlan: models.WorkoutPlan{Schedule: []models.DailyWorkout{
		pushDay(),
		{ID: "w2", Day: "Friday", Focus: "Legs", Exercises: []models.Exercise{
			{ID: "sq", Name: "Squat", Sets: "4", Reps: "6", Rest: "120s"},
		}},
		{ID: "w3", Day: "Wednesday", Focus: "Full body", Exercises: []models.Exercise{
			{ID: "sq", Name: "Squat", Sets: "4", Reps: "6", Rest: "120s"},
		}},
	}}}}
	source := &fakeSource{}
	m := NewManager(store, source, logger.NewNop())
	m.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return m, store, source
}

func TestPrescribedSets(t *testing.T) {
	tests := []struct {
		name string
		ex   models.Exercise
		want int
	}{
		{"range", models.Exercise{Name: "Bench press", Sets: "3-4"}, 3},
		{"single", models.Exercise{Name: "Squat", Sets: "4"}, 4},
		{"with text", models.Exercise{Name: "Row", Sets: "3 sets"}, 3},
		{"warm-up", models.Exercise{Name: "Arm circles (Warm-up)", Sets: "2x10"}, 2},
		{"warm-up case", models.Exercise{Name: "LEG SWINGS (WARM-UP)", Sets: "3X15"}, 3},
		{"warm-up without x", models.Exercise{Name: "Jog (Warm-up)", Sets: "5 min"}, 5},
		{"warm-up empty", models.Exercise{Name: "Jog (Warm-up)", Sets: ""}, 1},
		{"unparsable", models.Exercise{Name: "Plank", Sets: "AMRAP"}, 1},
		{"zero", models.Exercise{Name: "Plank", Sets: "0"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrescribedSets(tt.ex, i18n.English.WarmupMarker()))
		})
	}

	// the Spanish marker does not flag an English warm-up
	assert.Equal(t, 1, PrescribedSets(models.Exercise{Name: "Arm circles (Warm-up)", Sets: "x10"}, i18n.Spanish.WarmupMarker()))
}

func TestIsComplete(t *testing.T) {
	day := pushDay()
	session := &models.ActiveWorkoutSession{ExerciseLogs: map[string][]models.SetLog{}}
	done := models.SetLog{Completed: true}

	session.ExerciseLogs["wu"] = []models.SetLog{done, done}
	session.ExerciseLogs["bp"] = []models.SetLog{done, done, done}
	session.ExerciseLogs["ohp"] = []models.SetLog{done, done, {}}
	assert.False(t, IsComplete(day, session, i18n.English), "padding does not count")

	session.ExerciseLogs["ohp"] = []models.SetLog{done, done, {}, done}
	assert.True(t, IsComplete(day, session, i18n.English))

	session.ExerciseLogs["wu"] = []models.SetLog{done}
	assert.False(t, IsComplete(day, session, i18n.English), "warm-up needs 2")

	assert.False(t, IsComplete(day, nil, i18n.English))
}

func TestStart(t *testing.T) {
	m, store, _ := newManager()
	ctx := context.Background()

	session, err := m.Start(ctx, pushDay())
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "w1", session.WorkoutID)
	assert.Equal(t, "Push", session.WorkoutName)
	assert.Equal(t, int64(1_700_000_000_000), session.StartTime)
	assert.Nil(t, session.EndTime)
	assert.Empty(t, session.ExerciseLogs)
	assert.Equal(t, session.ID, store.active.ID)

	_, err = m.Start(ctx, pushDay())
	assert.ErrorIs(t, err, ErrSessionActive)
	assert.Equal(t, session.ID, store.active.ID, "active session is not replaced")
}

func TestLogSet(t *testing.T) {
	m, store, _ := newManager()
	ctx := context.Background()

	_, err := m.LogSet(ctx, "bp", 0, 60, 10)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = m.Start(ctx, pushDay())
	require.NoError(t, err)

	_, err = m.LogSet(ctx, "bp", 2, 60, 8)
	require.NoError(t, err)
	assert.Equal(t, []models.SetLog{{}, {}, {Weight: 60, Reps: 8, Completed: true}}, store.active.ExerciseLogs["bp"])

	_, err = m.LogSet(ctx, "bp", 0, 50, 10)
	require.NoError(t, err)
	_, err = m.LogSet(ctx, "bp", 2, 65, 6)
	require.NoError(t, err)
	assert.Equal(t, []models.SetLog{
		{Weight: 50, Reps: 10, Completed: true},
		{},
		{Weight: 65, Reps: 6, Completed: true},
	}, store.active.ExerciseLogs["bp"])

	// beyond the prescribed count is accepted
	_, err = m.LogSet(ctx, "bp", 5, 40, 12)
	require.NoError(t, err)
	assert.Len(t, store.active.ExerciseLogs["bp"], 6)

	_, err = m.LogSet(ctx, "bp", -1, 40, 12)
	assert.ErrorIs(t, err, ErrInvalidSetIndex)
	_, err = m.LogSet(ctx, "bp", MaxSetIndex, 40, 12)
	assert.ErrorIs(t, err, ErrInvalidSetIndex)
}

func TestFinish(t *testing.T) {
	m, store, _ := newManager()
	ctx := context.Background()

	store.history = []models.ActiveWorkoutSession{{ID: "older"}}
	session, err := m.Start(ctx, pushDay())
	require.NoError(t, err)

	_, err = m.Finish(ctx, "great")
	assert.ErrorIs(t, err, ErrInvalidFeedback)
	assert.NotNil(t, store.active)

	finished, err := m.Finish(ctx, models.FeedbackIdeal)
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackIdeal, finished.Feedback)

	require.Len(t, store.history, 2)
	assert.Equal(t, session.ID, store.history[0].ID)
	assert.Equal(t, models.FeedbackIdeal, store.history[0].Feedback)
	require.NotNil(t, store.history[0].EndTime)
	assert.Equal(t, "older", store.history[1].ID)
	assert.Nil(t, store.active)

	_, err = m.Finish(ctx, models.FeedbackEasy)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestCancel(t *testing.T) {
	m, store, _ := newManager()
	ctx := context.Background()

	assert.ErrorIs(t, m.Cancel(ctx), ErrNoActiveSession)

	_, err := m.Start(ctx, pushDay())
	require.NoError(t, err)
	require.NoError(t, m.Cancel(ctx))

	assert.Nil(t, store.active)
	assert.Empty(t, store.history)

	// idle again, so a new session can start
	_, err = m.Start(ctx, pushDay())
	assert.NoError(t, err)
}

func TestSubstituteExercise_AcrossSchedule(t *testing.T) {
	m, store, source := newManager()

	alt, err := m.SubstituteExercise(context.Background(), "sq", "Dumbbells", i18n.English)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	assert.Equal(t, "Goblet squat", alt.Name)
	assert.Equal(t, "4", alt.Sets)
	assert.Equal(t, "6", alt.Reps)
	assert.Equal(t, "120s", alt.Rest)
	assert.NotEqual(t, "from-model", alt.ID)
	assert.NotEqual(t, "sq", alt.ID)

	schedule := store.plan.WorkoutPlan.Schedule
	assert.Equal(t, alt, schedule[1].Exercises[0])
	assert.Equal(t, alt, schedule[2].Exercises[0])
	assert.Equal(t, "Bench press", schedule[0].Exercises[1].Name)
}

func TestSubstituteExercise_Errors(t *testing.T) {
	m, store, source := newManager()
	ctx := context.Background()

	_, err := m.SubstituteExercise(ctx, "missing", "", i18n.English)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.Equal(t, 0, source.calls)

	source.err = errors.New("model unavailable")
	_, err = m.SubstituteExercise(ctx, "bp", "", i18n.English)
	assert.Error(t, err)
	assert.Equal(t, "Bench press", store.plan.WorkoutPlan.Schedule[0].Exercises[1].Name)

	store.plan = nil
	_, err = m.SubstituteExercise(ctx, "bp", "", i18n.English)
	assert.ErrorIs(t, err, ErrNoPlan)
}

func TestTodaysWorkout(t *testing.T) {
	_, store, _ := newManager()
	friday := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	day, ok := TodaysWorkout(store.plan, i18n.English, friday)
	require.True(t, ok)
	assert.Equal(t, "w2", day.ID)

	_, ok = TodaysWorkout(store.plan, i18n.English, friday.AddDate(0, 0, 1))
	assert.False(t, ok)

	_, ok = TodaysWorkout(store.plan, i18n.Spanish, friday)
	assert.False(t, ok, "plan day labels are English")
}

func TestActiveWorkout(t *testing.T) {
	_, store, _ := newManager()

	day, ok := ActiveWorkout(store.plan, &models.ActiveWorkoutSession{WorkoutID: "w3"})
	require.True(t, ok)
	assert.Equal(t, "Full body", day.Focus)

	_, ok = ActiveWorkout(store.plan, nil)
	assert.False(t, ok)
	_, ok = ActiveWorkout(store.plan, &models.ActiveWorkoutSession{WorkoutID: "gone"})
	assert.False(t, ok)
}
