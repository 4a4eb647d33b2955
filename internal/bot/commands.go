package bot

import (
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/internal/service"
	"fitlife-bot/internal/storage"
	"fitlife-bot/internal/workout"
)

// handleCommand processes bot commands
func (t *TelegramBot) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := strings.Fields(message.CommandArguments())
	chatID := message.Chat.ID
	userID := message.From.ID
	lang := t.languageFor(message.From)

	t.logger.Infow("Handling command", "command", command, "user_id", userID)

	switch command {
	case "start":
		switch message.CommandArguments() {
		case "payment_success":
			// Generation is triggered by the Stripe webhook.
			t.send(chatID, lang.T("bot.paymentThanks"))
			return
		case "payment_cancel":
			t.setState(userID, &onboarding{State: StateConfirm})
			t.send(chatID, lang.T("bot.paymentCancelled"))
			return
		}
		t.beginOnboarding(chatID, userID, lang, lang.T("bot.welcome"))

	case "help":
		t.send(chatID, lang.T("bot.help"))

	case "lang":
		if len(args) != 1 {
			t.send(chatID, lang.T("lang.usage"))
			return
		}
		next := i18n.Language(strings.ToLower(args[0]))
		if !next.Valid() {
			t.send(chatID, lang.T("lang.usage"))
			return
		}
		t.setLanguage(userID, next)
		t.send(chatID, next.T("lang.changed"))

	case "plan":
		plan, err := t.svc.Plan(t.ctx, userID)
		if err != nil || plan == nil {
			t.replyError(chatID, lang, orNoPlan(err))
			return
		}
		t.send(chatID, formatPlan(plan, lang))

	case "regenerate":
		if !t.allow(userID) {
			t.send(chatID, lang.T("bot.rateLimited"))
			return
		}
		profile, err := t.svc.Profile(t.ctx, userID)
		if err != nil {
			t.replyError(chatID, lang, err)
			return
		}
		if profile == nil {
			t.send(chatID, lang.T("bot.useStart"))
			return
		}
		t.generatePlan(chatID, userID, lang)

	case "today":
		t.showToday(chatID, userID, lang)

	case "workout":
		st, err := t.svc.StartTodaysWorkout(t.ctx, userID, lang)
		if err != nil {
			t.replyError(chatID, lang, err)
			return
		}
		t.send(chatID, lang.T("workout.started", st.Session.WorkoutName)+"\n\n"+formatWorkout(st.Workout, st.Session, lang))

	case "log":
		t.logSet(chatID, userID, args, lang)

	case "swap":
		t.swapExercise(chatID, userID, args, lang)

	case "explain":
		t.explainExercise(chatID, userID, args, lang)

	case "finish":
		if len(args) != 1 {
			t.send(chatID, lang.T("workout.finishUsage"))
			return
		}
		if _, err := t.svc.FinishWorkout(t.ctx, userID, models.Feedback(strings.ToLower(args[0]))); err != nil {
			t.replyError(chatID, lang, err)
			return
		}
		t.send(chatID, lang.T("workout.finished"))

	case "cancel":
		if err := t.svc.CancelWorkout(t.ctx, userID); err != nil {
			t.replyError(chatID, lang, err)
			return
		}
		t.send(chatID, lang.T("workout.cancelled"))

	case "history":
		history, err := t.svc.WorkoutHistory(t.ctx, userID)
		if err != nil {
			t.replyError(chatID, lang, err)
			return
		}
		t.send(chatID, formatHistory(history, lang))

	case "meals":
		meals, err := t.svc.TodaysMeals(t.ctx, userID, lang)
		if err != nil {
			t.replyError(chatID, lang, err)
			return
		}
		t.send(chatID, formatMeals(meals, lang))

	case "done":
		t.toggleMeal(chatID, userID, args, lang)

	case "progress":
		t.progress(chatID, userID, args, lang)

	default:
		t.send(chatID, lang.T("bot.unknownCommand"))
	}
}

func orNoPlan(err error) error {
	if err != nil {
		return err
	}
	return service.ErrNoPlan
}

// replyError maps a service error to a localized reply.
func (t *TelegramBot) replyError(chatID int64, lang i18n.Language, err error) {
	var key string
	switch {
	case errors.Is(err, service.ErrNoPlan), errors.Is(err, workout.ErrNoPlan):
		key = "bot.noPlan"
	case errors.Is(err, service.ErrNoProfile):
		key = "bot.useStart"
	case errors.Is(err, service.ErrRestDay):
		key = "workout.restDay"
	case errors.Is(err, workout.ErrSessionActive):
		key = "workout.alreadyActive"
	case errors.Is(err, workout.ErrNoActiveSession):
		key = "workout.noActive"
	case errors.Is(err, workout.ErrInvalidSetIndex):
		key = "workout.badSetIndex"
	case errors.Is(err, workout.ErrExerciseNotFound):
		key = "workout.exerciseNotFound"
	case errors.Is(err, workout.ErrInvalidFeedback):
		key = "workout.finishUsage"
	default:
		t.logger.Errorw("Request failed", "chat_id", chatID, "error", err)
		key = "bot.saveError"
	}
	t.send(chatID, lang.T(key))
}

func (t *TelegramBot) showToday(chatID, userID int64, lang i18n.Language) {
	if st, err := t.svc.WorkoutStatus(t.ctx, userID, lang); err == nil && st.Workout != nil {
		t.send(chatID, formatWorkout(st.Workout, st.Session, lang))
		return
	}

	plan, err := t.svc.Plan(t.ctx, userID)
	if err != nil || plan == nil {
		t.replyError(chatID, lang, orNoPlan(err))
		return
	}
	today, ok := workout.TodaysWorkout(plan, lang, t.now())
	if !ok {
		t.send(chatID, lang.T("workout.restDay"))
		return
	}
	t.send(chatID, formatWorkout(today, nil, lang))
}

// activeExercise resolves a 1-based exercise number in the active workout.
func (t *TelegramBot) activeExercise(userID int64, lang i18n.Language, arg string) (service.WorkoutStatus, models.Exercise, error) {
	st, err := t.svc.WorkoutStatus(t.ctx, userID, lang)
	if err != nil {
		return st, models.Exercise{}, err
	}
	if st.Workout == nil {
		return st, models.Exercise{}, workout.ErrExerciseNotFound
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(st.Workout.Exercises) {
		return st, models.Exercise{}, workout.ErrExerciseNotFound
	}
	return st, st.Workout.Exercises[n-1], nil
}

func (t *TelegramBot) logSet(chatID, userID int64, args []string, lang i18n.Language) {
	if len(args) != 4 {
		t.send(chatID, lang.T("workout.logUsage"))
		return
	}
	setNumber, err1 := strconv.Atoi(args[1])
	weight, err2 := parseNumber(args[2])
	reps, err3 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil || err3 != nil || weight < 0 || reps < 0 {
		t.send(chatID, lang.T("workout.logUsage"))
		return
	}

	_, ex, err := t.activeExercise(userID, lang, args[0])
	if err != nil {
		t.replyError(chatID, lang, err)
		return
	}

	st, err := t.svc.LogSet(t.ctx, userID, lang, ex.ID, setNumber-1, weight, reps)
	if err != nil {
		t.replyError(chatID, lang, err)
		return
	}

	reply := lang.T("workout.logged", setNumber, ex.Name, weight, reps)
	if st.Complete {
		reply += "\n\n" + lang.T("workout.complete")
	}
	t.send(chatID, reply)
}

func (t *TelegramBot) swapExercise(chatID, userID int64, args []string, lang i18n.Language) {
	if len(args) != 1 {
		t.send(chatID, lang.T("workout.swapUsage"))
		return
	}
	if !t.allow(userID) {
		t.send(chatID, lang.T("bot.rateLimited"))
		return
	}

	exerciseID, ok := t.exerciseByNumber(userID, lang, args[0])
	if !ok {
		t.send(chatID, lang.T("workout.exerciseNotFound"))
		return
	}

	t.send(chatID, lang.T("workout.swapping"))
	alt, err := t.svc.SubstituteExercise(t.ctx, userID, lang, exerciseID)
	if err != nil {
		if errors.Is(err, workout.ErrExerciseNotFound) || errors.Is(err, workout.ErrNoPlan) {
			t.replyError(chatID, lang, err)
			return
		}
		t.logger.Errorw("Failed to substitute exercise", "user_id", userID, "error", err)
		t.send(chatID, lang.T("workout.swapError"))
		return
	}
	t.send(chatID, lang.T("workout.swapped", alt.Name, alt.Sets, alt.Reps))
}

// exerciseByNumber resolves a 1-based exercise number in the active workout,
// or in today's workout when none is active.
func (t *TelegramBot) exerciseByNumber(userID int64, lang i18n.Language, arg string) (string, bool) {
	if _, ex, err := t.activeExercise(userID, lang, arg); err == nil {
		return ex.ID, true
	}

	plan, err := t.svc.Plan(t.ctx, userID)
	if err != nil || plan == nil {
		return "", false
	}
	today, ok := workout.TodaysWorkout(plan, lang, t.now())
	if !ok {
		return "", false
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(today.Exercises) {
		return "", false
	}
	return today.Exercises[n-1].ID, true
}

func (t *TelegramBot) explainExercise(chatID, userID int64, args []string, lang i18n.Language) {
	if len(args) != 1 {
		t.send(chatID, lang.T("workout.explainUsage"))
		return
	}
	if !t.allow(userID) {
		t.send(chatID, lang.T("bot.rateLimited"))
		return
	}

	exerciseID, ok := t.exerciseByNumber(userID, lang, args[0])
	if !ok {
		t.send(chatID, lang.T("workout.exerciseNotFound"))
		return
	}
	plan, err := t.svc.Plan(t.ctx, userID)
	if err != nil || plan == nil {
		t.replyError(chatID, lang, orNoPlan(err))
		return
	}
	ex, found := findExercise(plan, exerciseID)
	if !found {
		t.send(chatID, lang.T("workout.exerciseNotFound"))
		return
	}

	wav, err := t.media.Speak(t.ctx, ex.Name+". "+ex.Description)
	if err != nil {
		t.logger.Errorw("Failed to synthesize speech", "user_id", userID, "error", err)
		t.send(chatID, lang.T("workout.speechError"))
		return
	}

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: "exercise.wav", Bytes: wav})
	audio.Title = ex.Name
	if _, err := t.bot.Send(audio); err != nil {
		t.logger.Errorw("Failed to send audio", "chat_id", chatID, "error", err)
	}
}

func findExercise(plan *models.Plan, id string) (models.Exercise, bool) {
	for _, day := range plan.WorkoutPlan.Schedule {
		for _, e := range day.Exercises {
			if e.ID == id {
				return e, true
			}
		}
	}
	return models.Exercise{}, false
}

func (t *TelegramBot) toggleMeal(chatID, userID int64, args []string, lang i18n.Language) {
	if len(args) != 1 {
		t.send(chatID, lang.T("meals.doneUsage"))
		return
	}
	meals, err := t.svc.TodaysMeals(t.ctx, userID, lang)
	if err != nil {
		t.replyError(chatID, lang, err)
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(meals.Day.Meals) {
		t.send(chatID, lang.T("meals.doneUsage"))
		return
	}

	meal := meals.Day.Meals[n-1]
	if _, err := t.svc.ToggleMeal(t.ctx, userID, meal.ID); err != nil {
		t.replyError(chatID, lang, err)
		return
	}
	t.send(chatID, lang.T("meals.toggled", meal.Name))
}

// progress logs a weigh-in, or lists the entries when called without arguments.
func (t *TelegramBot) progress(chatID, userID int64, args []string, lang i18n.Language) {
	if len(args) == 0 {
		entries, err := t.svc.ProgressEntries(t.ctx, userID)
		if err != nil {
			t.replyError(chatID, lang, err)
			return
		}
		t.send(chatID, formatProgress(entries, lang, t.photoURL))
		return
	}

	if len(args) != 1 && len(args) != 4 {
		t.send(chatID, lang.T("progress.usage"))
		return
	}
	weight, err := parseNumber(args[0])
	if err != nil || weight < 30 || weight > 300 {
		t.send(chatID, lang.T("progress.usage"))
		return
	}
	entry := models.ProgressEntry{Weight: &weight}
	if len(args) == 4 {
		m, err := parseMeasurements(args[1:])
		if err != nil {
			t.send(chatID, lang.T("progress.usage"))
			return
		}
		entry.Measurements = m
	}

	if _, err := t.svc.AddProgress(t.ctx, userID, entry); err != nil {
		t.replyError(chatID, lang, err)
		return
	}
	t.send(chatID, lang.T("progress.saved"))
}

func (t *TelegramBot) photoURL(key string) string {
	if t.photos == nil || key == "" {
		return ""
	}
	url, err := t.photos.PresignedDownloadURL(t.ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return ""
	}
	return url
}

// handlePhoto stores a progress photo, or analyzes a meal when the caption is /analyze.
func (t *TelegramBot) handlePhoto(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	lang := t.languageFor(message.From)
	photo := message.Photo[len(message.Photo)-1]
	analyze := strings.HasPrefix(strings.TrimSpace(message.Caption), "/analyze")

	if !analyze && t.photos == nil {
		t.send(chatID, lang.T("progress.photosDisabled"))
		return
	}
	if analyze && !t.allow(userID) {
		t.send(chatID, lang.T("bot.rateLimited"))
		return
	}

	data, err := t.downloadFile(t.ctx, photo.FileID)
	if err != nil {
		t.logger.Errorw("Failed to download photo", "user_id", userID, "error", err)
		t.send(chatID, lang.T("bot.saveError"))
		return
	}

	if analyze {
		answer, err := t.media.AnalyzeImage(t.ctx, data, "image/jpeg", lang.T("analyze.prompt"))
		if err != nil {
			t.logger.Errorw("Failed to analyze photo", "user_id", userID, "error", err)
			t.send(chatID, lang.T("analyze.error"))
			return
		}
		t.send(chatID, answer)
		return
	}

	key := storage.ProgressPhotoKey(userID, "jpg")
	if err := t.photos.Upload(t.ctx, key, data, "image/jpeg"); err != nil {
		t.send(chatID, lang.T("bot.saveError"))
		return
	}
	if _, err := t.svc.AddProgress(t.ctx, userID, models.ProgressEntry{Photo: key}); err != nil {
		t.replyError(chatID, lang, err)
		return
	}
	t.send(chatID, lang.T("progress.photoSaved"))
}

// handleChat forwards free text to the nutrition assistant.
func (t *TelegramBot) handleChat(message *tgbotapi.Message, lang i18n.Language) {
	chatID := message.Chat.ID
	userID := message.From.ID
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}
	if !t.allow(userID) {
		t.send(chatID, lang.T("bot.rateLimited"))
		return
	}

	answer, err := t.svc.Chat(t.ctx, userID, lang, text)
	if err != nil {
		if errors.Is(err, service.ErrNoPlan) {
			t.send(chatID, lang.T("bot.useStart"))
			return
		}
		t.logger.Errorw("Chat round failed", "user_id", userID, "error", err)
		t.send(chatID, lang.T("chat.error"))
		return
	}
	t.send(chatID, answer)
}
