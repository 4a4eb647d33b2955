package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitlife-bot/internal/migrate"
	"fitlife-bot/internal/models"
	"fitlife-bot/pkg/logger"
)

// Store is one user's state, loaded once and written through on every change.
type Store struct {
	backend Backend
	userID  int64
	logger  *logger.Logger
	now     func() time.Time

	mu       sync.RWMutex
	profile  *models.UserProfile
	plan     *models.Plan
	progress []models.ProgressEntry
	meals    models.CompletedMealsLog
	active   *models.ActiveWorkoutSession
	history  []models.ActiveWorkoutSession
}

// Open reads every namespace of userID. Missing or corrupt namespaces fall
// back to their defaults; only backend failures are returned.
func Open(ctx context.Context, backend Backend, userID int64, logger *logger.Logger) (*Store, error) {
	s := &Store{
		backend: backend,
		userID:  userID,
		logger:  logger,
		now:     time.Now,
		meals:   models.CompletedMealsLog{},
	}

	var err error
	if s.profile, err = load[*models.UserProfile](ctx, s, NSProfile); err != nil {
		return nil, err
	}
	if s.plan, err = load[*models.Plan](ctx, s, NSPlan); err != nil {
		return nil, err
	}
	if s.progress, err = load[[]models.ProgressEntry](ctx, s, NSProgressEntries); err != nil {
		return nil, err
	}
	meals, err := load[models.CompletedMealsLog](ctx, s, NSCompletedMeals)
	if err != nil {
		return nil, err
	}
	if meals != nil {
		s.meals = meals
	}
	if s.active, err = load[*models.ActiveWorkoutSession](ctx, s, NSActiveWorkout); err != nil {
		return nil, err
	}
	if s.history, err = load[[]models.ActiveWorkoutSession](ctx, s, NSWorkoutHistory); err != nil {
		return nil, err
	}

	if s.plan != nil {
		plan, report := migrate.Normalize(s.plan)
		s.plan = plan
		if report.Changed() {
			s.logger.Infow("Assigned missing plan ids",
				"user_id", userID,
				"workouts", report.WorkoutIDs,
				"exercises", report.ExerciseIDs,
				"meals", report.MealIDs,
			)
			if err := s.put(ctx, NSPlan, plan); err != nil {
				return nil, err
			}
		}
	}

	// Finish writes history before clearing the active slot; a crash in between
	// leaves the same session in both places.
	if s.active != nil && len(s.history) > 0 && s.history[0].ID == s.active.ID {
		s.logger.Warnw("Clearing active workout already in history", "user_id", userID, "session_id", s.active.ID)
		if err := s.put(ctx, NSActiveWorkout, nil); err != nil {
			return nil, err
		}
		s.active = nil
	}

	return s, nil
}

func load[T any](ctx context.Context, s *Store, ns Namespace) (T, error) {
	var zero T
	data, err := s.backend.Get(ctx, s.userID, ns)
	if errors.Is(err, ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("failed to load %s: %w", ns, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warnw("Corrupt stored state, using default", "user_id", s.userID, "namespace", ns, "error", err)
		return zero, nil
	}
	return v, nil
}

func (s *Store) put(ctx context.Context, ns Namespace, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ns, err)
	}
	return s.backend.Put(ctx, s.userID, ns, data)
}

func (s *Store) UserID() int64 {
	return s.userID
}

func (s *Store) Profile() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Clone()
}

func (s *Store) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile = profile.Clone()
	if err := s.put(ctx, NSProfile, profile); err != nil {
		return err
	}
	s.profile = profile
	return nil
}

func (s *Store) Plan() *models.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan.Clone()
}

func (s *Store) SavePlan(ctx context.Context, plan *models.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan = plan.Clone()
	if err := s.put(ctx, NSPlan, plan); err != nil {
		return err
	}
	s.plan = plan
	return nil
}

func (s *Store) ProgressEntries() []models.ProgressEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProgressEntry, len(s.progress))
	for i, e := range s.progress {
		out[i] = e.Clone()
	}
	return out
}

// AddProgressEntry stores entry with a new id. An empty Date means now.
// Entries stay sorted by date, oldest first.
func (s *Store) AddProgressEntry(ctx context.Context, entry models.ProgressEntry) (models.ProgressEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry = entry.Clone()
	entry.ID = uuid.NewString()
	if entry.Date == "" {
		entry.Date = s.now().UTC().Format(time.RFC3339)
	}

	next := make([]models.ProgressEntry, 0, len(s.progress)+1)
	next = append(next, s.progress...)
	next = append(next, entry)
	sort.SliceStable(next, func(i, j int) bool {
		return entryTime(next[i]).Before(entryTime(next[j]))
	})

	if err := s.put(ctx, NSProgressEntries, next); err != nil {
		return models.ProgressEntry{}, err
	}
	s.progress = next
	return entry.Clone(), nil
}

func entryTime(e models.ProgressEntry) time.Time {
	if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, e.Date); err == nil {
		return t
	}
	return time.Time{}
}

func (s *Store) CompletedMeals() models.CompletedMealsLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meals.Clone()
}

// ToggleMealCompletion flips mealID for date ("2006-01-02") and returns the new state.
func (s *Store) ToggleMealCompletion(ctx context.Context, date, mealID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.meals.Clone()
	day := next[date]
	done := !day[mealID]
	if done {
		if day == nil {
			day = map[string]bool{}
			next[date] = day
		}
		day[mealID] = true
	} else {
		delete(day, mealID)
		if len(day) == 0 {
			delete(next, date)
		}
	}

	if err := s.put(ctx, NSCompletedMeals, next); err != nil {
		return !done, err
	}
	s.meals = next
	return done, nil
}

func (s *Store) ActiveWorkout() *models.ActiveWorkoutSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// SaveActiveWorkout replaces the active session; nil clears it.
func (s *Store) SaveActiveWorkout(ctx context.Context, session *models.ActiveWorkoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session = session.Clone()
	if err := s.put(ctx, NSActiveWorkout, session); err != nil {
		return err
	}
	s.active = session
	return nil
}

// History is newest first.
func (s *Store) History() []models.ActiveWorkoutSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSessions(s.history)
}

func (s *Store) PrependHistory(ctx context.Context, session models.ActiveWorkoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.ActiveWorkoutSession, 0, len(s.history)+1)
	next = append(next, *session.Clone())
	next = append(next, cloneSessions(s.history)...)

	if err := s.put(ctx, NSWorkoutHistory, next); err != nil {
		return err
	}
	s.history = next
	return nil
}

func cloneSessions(in []models.ActiveWorkoutSession) []models.ActiveWorkoutSession {
	out := make([]models.ActiveWorkoutSession, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
