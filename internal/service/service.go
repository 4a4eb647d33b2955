// internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"fitlife-bot/internal/agent"
	"fitlife-bot/internal/db"
	"fitlife-bot/internal/gpt"
	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/internal/workout"
	"fitlife-bot/pkg/logger"
)

var (
	ErrNoProfile      = errors.New("no profile")
	ErrNoPlan         = errors.New("no plan")
	ErrInvalidProfile = errors.New("invalid profile")
	ErrRestDay        = errors.New("no workout scheduled today")
)

// Generator produces a plan for a profile. *gpt.Pipeline implements it.
type Generator interface {
	Generate(ctx context.Context, profile *models.UserProfile, lang i18n.Language) (*models.Plan, error)
}

// ChatFactory opens a fresh chat transport for one language.
type ChatFactory func(lang i18n.Language) agent.Transport

type Deps struct {
	Backend       db.Backend
	Generator     Generator
	Exercises     workout.ExerciseSource
	NewChat       ChatFactory
	MaxToolRounds int
	Logger        *logger.Logger
}

type Service struct {
	backend       db.Backend
	generator     Generator
	exercises     workout.ExerciseSource
	newChat       ChatFactory
	maxToolRounds int
	logger        *logger.Logger
	validate      *validator.Validate
	now           func() time.Time

	generations singleflight.Group

	mu    sync.Mutex
	users map[int64]*userState
}

// userState is everything cached for one user. mu serializes every operation
// that reads and then writes the plan or the workout session.
type userState struct {
	mu       sync.Mutex
	store    *db.Store
	workouts *workout.Manager
	agents   map[i18n.Language]*agent.Agent
}

func New(deps Deps) *Service {
	return &Service{
		backend:       deps.Backend,
		generator:     deps.Generator,
		exercises:     deps.Exercises,
		newChat:       deps.NewChat,
		maxToolRounds: deps.MaxToolRounds,
		logger:        deps.Logger,
		validate:      validator.New(),
		now:           time.Now,
		users:         make(map[int64]*userState),
	}
}

func (s *Service) user(ctx context.Context, userID int64) (*userState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		return u, nil
	}

	store, err := db.Open(ctx, s.backend, userID, s.logger)
	if err != nil {
		return nil, fmt.Errorf("open state for user %d: %w", userID, err)
	}
	u := &userState{
		store:    store,
		workouts: workout.NewManager(store, s.exercises, s.logger),
		agents:   make(map[i18n.Language]*agent.Agent),
	}
	s.users[userID] = u
	return u, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.store.Profile(), nil
}

func (s *Service) Plan(ctx context.Context, userID int64) (*models.Plan, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.store.Plan(), nil
}

// SaveProfile validates and stores a profile without generating a plan.
func (s *Service) SaveProfile(ctx context.Context, userID int64, profile *models.UserProfile) error {
	if profile == nil {
		return ErrInvalidProfile
	}
	if err := s.validate.Struct(profile); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	return u.store.SaveProfile(ctx, profile)
}

// CompleteOnboarding stores the profile and generates the first plan.
func (s *Service) CompleteOnboarding(ctx context.Context, userID int64, profile *models.UserProfile, lang i18n.Language) (*models.Plan, error) {
	if err := s.SaveProfile(ctx, userID, profile); err != nil {
		return nil, err
	}
	return s.RegeneratePlan(ctx, userID, lang)
}

// RegeneratePlan replaces the plan with a fresh one built from the stored
// profile. Concurrent calls for the same user and language share one generation.
func (s *Service) RegeneratePlan(ctx context.Context, userID int64, lang i18n.Language) (*models.Plan, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.store.Profile()
	if profile == nil {
		return nil, ErrNoProfile
	}

	key := strconv.FormatInt(userID, 10) + ":" + string(lang)
	v, err, shared := s.generations.Do(key, func() (any, error) {
		plan, err := s.generator.Generate(ctx, profile, lang)
		if err != nil {
			return nil, err
		}

		u.mu.Lock()
		defer u.mu.Unlock()
		if err := u.store.SavePlan(ctx, plan); err != nil {
			return nil, fmt.Errorf("save plan: %w", err)
		}
		// Transcripts describe the plan they were held against.
		clear(u.agents)
		return plan, nil
	})
	if err != nil {
		s.logger.Errorw("Plan generation failed", "user_id", userID, "shared", shared, "error", err)
		return nil, err
	}

	s.logger.Infow("Plan saved", "user_id", userID, "shared", shared)
	return v.(*models.Plan).Clone(), nil
}

// GenerationErrorMessage picks the user-facing message for a failed generation.
func GenerationErrorMessage(err error, lang i18n.Language) string {
	if errors.Is(err, gpt.ErrTimeout) {
		return lang.T("gen.timeout")
	}
	return lang.T("gen.error")
}

// Chat runs one round of the nutrition assistant. Each language keeps its own conversation.
func (s *Service) Chat(ctx context.Context, userID int64, lang i18n.Language, text string) (string, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.store.Plan() == nil {
		return "", ErrNoPlan
	}

	a, ok := u.agents[lang]
	if !ok {
		a = agent.New(s.newChat(lang), u.store, lang, s.maxToolRounds, s.logger)
		u.agents[lang] = a
	}
	return a.SendUserMessage(ctx, text)
}

// WorkoutStatus is the active session together with the workout it follows.
type WorkoutStatus struct {
	Session  *models.ActiveWorkoutSession
	Workout  *models.DailyWorkout
	Complete bool
}

func (s *Service) status(u *userState, lang i18n.Language) (WorkoutStatus, error) {
	session := u.workouts.Active()
	if session == nil {
		return WorkoutStatus{}, workout.ErrNoActiveSession
	}
	st := WorkoutStatus{Session: session}
	if w, ok := workout.ActiveWorkout(u.store.Plan(), session); ok {
		st.Workout = w
		st.Complete = workout.IsComplete(*w, session, lang)
	}
	return st, nil
}

// StartTodaysWorkout begins the workout scheduled for today's weekday.
func (s *Service) StartTodaysWorkout(ctx context.Context, userID int64, lang i18n.Language) (WorkoutStatus, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return WorkoutStatus{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	plan := u.store.Plan()
	if plan == nil {
		return WorkoutStatus{}, ErrNoPlan
	}
	today, ok := workout.TodaysWorkout(plan, lang, s.now())
	if !ok {
		return WorkoutStatus{}, ErrRestDay
	}
	if _, err := u.workouts.Start(ctx, *today); err != nil {
		return WorkoutStatus{}, err
	}
	return s.status(u, lang)
}

func (s *Service) WorkoutStatus(ctx context.Context, userID int64, lang i18n.Language) (WorkoutStatus, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return WorkoutStatus{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return s.status(u, lang)
}

func (s *Service) LogSet(ctx context.Context, userID int64, lang i18n.Language, exerciseID string, setIndex int, weight float64, reps int) (WorkoutStatus, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return WorkoutStatus{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := u.workouts.LogSet(ctx, exerciseID, setIndex, weight, reps); err != nil {
		return WorkoutStatus{}, err
	}
	return s.status(u, lang)
}

// SubstituteExercise swaps an exercise for one that fits the user's equipment.
func (s *Service) SubstituteExercise(ctx context.Context, userID int64, lang i18n.Language, exerciseID string) (models.Exercise, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return models.Exercise{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	return u.workouts.SubstituteExercise(ctx, exerciseID, equipmentFor(u.store.Profile()), lang)
}

func equipmentFor(p *models.UserProfile) string {
	if p == nil {
		return "bodyweight only"
	}
	if p.WorkoutLocation == models.LocationGym {
		return "full gym"
	}
	return p.EquipmentList("bodyweight only")
}

func (s *Service) FinishWorkout(ctx context.Context, userID int64, feedback models.Feedback) (*models.ActiveWorkoutSession, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.workouts.Finish(ctx, feedback)
}

func (s *Service) CancelWorkout(ctx context.Context, userID int64) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.workouts.Cancel(ctx)
}

// WorkoutHistory is newest first.
func (s *Service) WorkoutHistory(ctx context.Context, userID int64) ([]models.ActiveWorkoutSession, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.store.History(), nil
}

func (s *Service) AddProgress(ctx context.Context, userID int64, entry models.ProgressEntry) (models.ProgressEntry, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	return u.store.AddProgressEntry(ctx, entry)
}

func (s *Service) ProgressEntries(ctx context.Context, userID int64) ([]models.ProgressEntry, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.store.ProgressEntries(), nil
}

// TodaysMeals is today's nutrition day with the meals already eaten.
type TodaysMeals struct {
	Date      string
	Day       models.DailyNutrition
	Completed map[string]bool
}

func (s *Service) TodaysMeals(ctx context.Context, userID int64, lang i18n.Language) (TodaysMeals, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return TodaysMeals{}, err
	}
	return s.todaysMeals(u, lang)
}

func (s *Service) todaysMeals(u *userState, lang i18n.Language) (TodaysMeals, error) {
	plan := u.store.Plan()
	if plan == nil {
		return TodaysMeals{}, ErrNoPlan
	}

	now := s.now()
	date := now.Format(time.DateOnly)
	out := TodaysMeals{Date: date, Completed: u.store.CompletedMeals()[date]}
	if out.Completed == nil {
		out.Completed = map[string]bool{}
	}

	weekday := lang.Weekday(now)
	for _, day := range plan.NutritionPlan.DailyPlans {
		if strings.EqualFold(day.Day, weekday) {
			out.Day = day
			return out, nil
		}
	}
	// Plans generated in the other language name days differently; fall back to position.
	if idx := (int(now.Weekday()) + 6) % 7; idx < len(plan.NutritionPlan.DailyPlans) {
		out.Day = plan.NutritionPlan.DailyPlans[idx]
	}
	return out, nil
}

// ToggleMeal flips today's completion mark of mealID and returns the new state.
func (s *Service) ToggleMeal(ctx context.Context, userID int64, mealID string) (bool, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return false, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.store.ToggleMealCompletion(ctx, s.now().Format(time.DateOnly), mealID)
}
