package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"fitlife-bot/config"
	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/internal/payment"
	"fitlife-bot/internal/service"
	"fitlife-bot/internal/storage"
	"fitlife-bot/pkg/logger"
)

const (
	StateGender       = "gender"
	StateAge          = "age"
	StateWeight       = "weight"
	StateHeight       = "height"
	StateMeasurements = "measurements"
	StateActivity     = "activity"
	StateGoal         = "goal"
	StateLocation     = "location"
	StateEquipment    = "equipment"
	StateDays         = "days"
	StateConfirm      = "confirm"
	StatePayment      = "payment"
	StateProcessing   = "processing"
	StateComplete     = "complete"
)

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Media covers the generation features beyond plans. *gpt.Client implements it.
type Media interface {
	Speak(ctx context.Context, text string) ([]byte, error)
	AnalyzeImage(ctx context.Context, image []byte, mimeType, instruction string) (string, error)
}

// onboarding is a user's progress through the profile form.
type onboarding struct {
	State      string
	Profile    models.UserProfile
	CheckoutID string
}

type Deps struct {
	Service  *service.Service
	Payments *payment.StripeClient // nil when payments are disabled
	Photos   storage.FileStorage   // nil when photo storage is disabled
	Media    Media
	Logger   *logger.Logger
	Language i18n.Language
}

type TelegramBot struct {
	api      *tgbotapi.BotAPI
	bot      sender
	username string

	svc      *service.Service
	payments *payment.StripeClient
	photos   storage.FileStorage
	media    Media
	logger   *logger.Logger

	defaultLang i18n.Language
	rateLimit   rate.Limit
	rateBurst   int

	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	lifecycleMu  sync.Mutex
	stopping     bool
	now          func() time.Time
	downloadFile func(ctx context.Context, fileID string) ([]byte, error)

	stateMutex sync.RWMutex
	userStates map[int64]*onboarding
	languages  map[int64]i18n.Language

	limiterMu sync.Mutex
	limiters  map[int64]*rate.Limiter
}

func NewTelegramBot(cfg config.TelegramConfig, deps Deps) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	api.Debug = cfg.Debug

	deps.Logger.Infow("Authorized on Telegram", "username", api.Self.UserName)

	t := newBot(api, api.Self.UserName, cfg, deps)
	t.api = api
	t.downloadFile = t.downloadFromTelegram
	return t, nil
}

func newBot(s sender, username string, cfg config.TelegramConfig, deps Deps) *TelegramBot {
	lang := deps.Language
	if !lang.Valid() {
		lang = i18n.Spanish
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TelegramBot{
		bot:         s,
		username:    username,
		svc:         deps.Service,
		payments:    deps.Payments,
		photos:      deps.Photos,
		media:       deps.Media,
		logger:      deps.Logger,
		defaultLang: lang,
		rateLimit:   limit,
		rateBurst:   max(cfg.RateBurst, 1),
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
		userStates:  make(map[int64]*onboarding),
		languages:   make(map[int64]i18n.Language),
		limiters:    make(map[int64]*rate.Limiter),
	}
}

// Start begins receiving updates from Telegram via polling. ctx only bounds
// startup; handlers run until Stop.
func (t *TelegramBot) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.logger.Info("Removing any existing webhook")
	_, err := t.api.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := t.api.GetUpdatesChan(updateConfig)

	t.logger.Info("Started receiving Telegram updates")

	go t.handleUpdates(updates)
	return nil
}

// handleUpdates processes every update in its own goroutine.
func (t *TelegramBot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if !t.track() {
			t.logger.Warnw("Dropping update received during shutdown", "update_id", update.UpdateID)
			continue
		}
		go func(update tgbotapi.Update) {
			defer t.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					t.logger.Errorw("Recovered from panic while processing update", "update_id", update.UpdateID, "error", r)
				}
			}()
			t.handleUpdate(update)
		}(update)
	}
}

func (t *TelegramBot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		message := update.Message
		if message.From == nil {
			return
		}
		t.logger.Debugw("Received message", "chat_id", message.Chat.ID, "user_id", message.From.ID)

		switch {
		case len(message.Photo) > 0:
			t.handlePhoto(message)
		case message.IsCommand():
			t.handleCommand(message)
		default:
			t.handleMessage(message)
		}
	case update.CallbackQuery != nil:
		t.handleCallbackQuery(update.CallbackQuery)
	}
}

// track registers in-flight work. It fails once Stop has begun.
func (t *TelegramBot) track() bool {
	t.lifecycleMu.Lock()
	defer t.lifecycleMu.Unlock()
	if t.stopping {
		return false
	}
	t.wg.Add(1)
	return true
}

// Stop stops polling and waits for in-flight handlers until ctx is done.
// Handlers still running at that point are cancelled.
func (t *TelegramBot) Stop(ctx context.Context) error {
	if t.api != nil {
		t.api.StopReceivingUpdates()
	}
	t.lifecycleMu.Lock()
	t.stopping = true
	t.lifecycleMu.Unlock()
	defer t.cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (t *TelegramBot) send(chatID int64, text string) {
	t.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (t *TelegramBot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Errorw("Failed to send message", "chat_id", msg.ChatID, "error", err)
	}
}

// languageFor returns the language chosen with /lang, else the one the
// Telegram client reports, else the default.
func (t *TelegramBot) languageFor(user *tgbotapi.User) i18n.Language {
	t.stateMutex.RLock()
	lang, ok := t.languages[user.ID]
	t.stateMutex.RUnlock()
	if ok {
		return lang
	}
	return i18n.Parse(user.LanguageCode, t.defaultLang)
}

func (t *TelegramBot) languageByID(userID int64) i18n.Language {
	return t.languageFor(&tgbotapi.User{ID: userID})
}

func (t *TelegramBot) setLanguage(userID int64, lang i18n.Language) {
	t.stateMutex.Lock()
	t.languages[userID] = lang
	t.stateMutex.Unlock()
}

// allow reports whether an expensive request from userID may run now.
func (t *TelegramBot) allow(userID int64) bool {
	t.limiterMu.Lock()
	limiter, ok := t.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(t.rateLimit, t.rateBurst)
		t.limiters[userID] = limiter
	}
	t.limiterMu.Unlock()
	return limiter.Allow()
}

// state returns a copy of the user's form. Changes take effect through setState.
func (t *TelegramBot) state(userID int64) (onboarding, bool) {
	t.stateMutex.RLock()
	defer t.stateMutex.RUnlock()
	s, ok := t.userStates[userID]
	if !ok {
		return onboarding{}, false
	}
	out := *s
	out.Profile = *s.Profile.Clone()
	return out, true
}

func (t *TelegramBot) setState(userID int64, s *onboarding) {
	t.stateMutex.Lock()
	t.userStates[userID] = s
	t.stateMutex.Unlock()
}

// updateState changes the stored form in place under the lock.
func (t *TelegramBot) updateState(userID int64, fn func(s *onboarding)) {
	t.stateMutex.Lock()
	defer t.stateMutex.Unlock()
	if s, ok := t.userStates[userID]; ok {
		fn(s)
	}
}

func keyboard(options ...string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, (len(options)+1)/2)
	for i := 0; i < len(options); i += 2 {
		row := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(options[i])}
		if i+1 < len(options) {
			row = append(row, tgbotapi.NewKeyboardButton(options[i+1]))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewOneTimeReplyKeyboard(rows...)
}

func (t *TelegramBot) ask(chatID int64, text string, options ...string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(options) > 0 {
		msg.ReplyMarkup = keyboard(options...)
	} else {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}
	t.sendMessage(msg)
}

func genderLabels(lang i18n.Language) []string {
	return []string{lang.T("bot.genderMale"), lang.T("bot.genderFemale")}
}

var (
	activityKeys = []string{"activity.sedentary", "activity.light", "activity.moderate", "activity.active"}
	goalKeys     = []string{"goal.lose", "goal.maintain", "goal.gain"}
)

func labels(lang i18n.Language, keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = lang.T(k)
	}
	return out
}

func contains(options []string, text string) bool {
	for _, o := range options {
		if o == text {
			return true
		}
	}
	return false
}

// beginOnboarding resets the form and asks the first question.
func (t *TelegramBot) beginOnboarding(chatID, userID int64, lang i18n.Language, greeting string) {
	t.setState(userID, &onboarding{State: StateGender})
	t.ask(chatID, greeting, genderLabels(lang)...)
}

// handleMessage processes regular messages based on user state
func (t *TelegramBot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	text := strings.TrimSpace(message.Text)
	lang := t.languageFor(message.From)

	state, exists := t.state(userID)
	if !exists || state.State == StateComplete {
		t.handleChat(message, lang)
		return
	}

	t.logger.Debugw("Processing onboarding message", "user_id", userID, "state", state.State)

	switch state.State {
	case StateGender:
		if !contains(genderLabels(lang), text) {
			t.ask(chatID, lang.T("bot.chooseButtons"), genderLabels(lang)...)
			return
		}
		state.Profile.Gender = text
		state.State = StateAge
		t.setState(userID, &state)
		t.ask(chatID, lang.T("bot.askAge"))

	case StateAge:
		age, err := strconv.Atoi(text)
		if err != nil || age < 12 || age > 100 {
			t.send(chatID, lang.T("bot.badAge"))
			return
		}
		state.Profile.Age = age
		state.State = StateWeight
		t.setState(userID, &state)
		t.send(chatID, lang.T("bot.askWeight"))

	case StateWeight:
		weight, err := parseNumber(text)
		if err != nil || weight < 30 || weight > 300 {
			t.send(chatID, lang.T("bot.badWeight"))
			return
		}
		state.Profile.Weight = weight
		state.State = StateHeight
		t.setState(userID, &state)
		t.send(chatID, lang.T("bot.askHeight"))

	case StateHeight:
		height, err := parseNumber(text)
		if err != nil || height < 100 || height > 250 {
			t.send(chatID, lang.T("bot.badHeight"))
			return
		}
		state.Profile.Height = height
		state.State = StateMeasurements
		t.setState(userID, &state)
		t.ask(chatID, lang.T("bot.askMeasurements"), lang.T("bot.skip"))

	case StateMeasurements:
		if text != lang.T("bot.skip") {
			m, err := parseMeasurements(strings.Fields(text))
			if err != nil {
				t.ask(chatID, lang.T("bot.badMeasurements"), lang.T("bot.skip"))
				return
			}
			state.Profile.Measurements = m
		}
		state.State = StateActivity
		t.setState(userID, &state)
		t.ask(chatID, lang.T("bot.askActivity"), labels(lang, activityKeys)...)

	case StateActivity:
		if !contains(labels(lang, activityKeys), text) {
			t.ask(chatID, lang.T("bot.chooseButtons"), labels(lang, activityKeys)...)
			return
		}
		state.Profile.ActivityLevel = text
		state.State = StateGoal
		t.setState(userID, &state)
		t.ask(chatID, lang.T("bot.askGoal"), labels(lang, goalKeys)...)

	case StateGoal:
		if !contains(labels(lang, goalKeys), text) {
			t.ask(chatID, lang.T("bot.chooseButtons"), labels(lang, goalKeys)...)
			return
		}
		state.Profile.Goal = text
		state.State = StateLocation
		t.setState(userID, &state)
		t.ask(chatID, lang.T("bot.askLocation"), lang.T("location.home"), lang.T("location.gym"))

	case StateLocation:
		switch text {
		case lang.T("location.home"):
			state.Profile.WorkoutLocation = models.LocationHome
			state.State = StateEquipment
			t.setState(userID, &state)
			t.ask(chatID, lang.T("bot.askEquipment"), lang.T("bot.skip"))
		case lang.T("location.gym"):
			state.Profile.WorkoutLocation = models.LocationGym
			state.State = StateDays
			t.setState(userID, &state)
			t.ask(chatID, lang.T("bot.askDays"))
		default:
			t.ask(chatID, lang.T("bot.chooseButtons"), lang.T("location.home"), lang.T("location.gym"))
		}

	case StateEquipment:
		state.Profile.Equipment = nil
		if text != lang.T("bot.skip") {
			state.Profile.Equipment = splitList(text)
		}
		state.State = StateDays
		t.setState(userID, &state)
		t.ask(chatID, lang.T("bot.askDays"))

	case StateDays:
		days, ok := parseDays(text, lang)
		if !ok {
			t.send(chatID, lang.T("bot.badDays"))
			return
		}
		state.Profile.WorkoutDays = days
		state.State = StateConfirm
		t.setState(userID, &state)
		t.ask(chatID, formatSummary(&state.Profile, lang), lang.T("bot.yes"), lang.T("bot.no"))

	case StateConfirm:
		switch text {
		case lang.T("bot.no"):
			t.beginOnboarding(chatID, userID, lang, lang.T("bot.restart"))
		case lang.T("bot.yes"):
			t.confirmProfile(chatID, userID, state, lang)
		default:
			t.ask(chatID, lang.T("bot.chooseButtons"), lang.T("bot.yes"), lang.T("bot.no"))
		}

	case StatePayment, StateProcessing:
		t.send(chatID, lang.T("bot.generating"))

	default:
		t.logger.Warnw("Unknown onboarding state, resetting", "user_id", userID, "state", state.State)
		t.beginOnboarding(chatID, userID, lang, lang.T("bot.restart"))
	}
}

// confirmProfile stores the profile, then either asks for payment or generates the plan.
func (t *TelegramBot) confirmProfile(chatID, userID int64, state onboarding, lang i18n.Language) {
	// The payment webhook has no client language to go by.
	t.setLanguage(userID, lang)

	profile := state.Profile
	if err := t.svc.SaveProfile(t.ctx, userID, &profile); err != nil {
		t.logger.Errorw("Failed to save profile", "user_id", userID, "error", err)
		if errors.Is(err, service.ErrInvalidProfile) {
			t.setState(userID, &onboarding{State: StateGender})
			t.ask(chatID, lang.T("bot.invalidProfile"))
			return
		}
		t.send(chatID, lang.T("bot.saveError"))
		return
	}

	if t.payments == nil {
		state.State = StateProcessing
		t.setState(userID, &state)
		t.generatePlan(chatID, userID, lang)
		return
	}

	state.State = StatePayment
	t.setState(userID, &state)
	t.ask(chatID, lang.T("bot.paymentRequired"))

	successURL := fmt.Sprintf("https://t.me/%s?start=payment_success", t.username)
	cancelURL := fmt.Sprintf("https://t.me/%s?start=payment_cancel", t.username)

	sessionID, checkoutURL, err := t.payments.CreateCheckoutSession(userID, successURL, cancelURL)
	if err != nil {
		t.logger.Errorw("Failed to create Stripe session", "user_id", userID, "error", err)
		t.updateState(userID, func(s *onboarding) { s.State = StateConfirm })
		t.ask(chatID, lang.T("bot.paymentError"), lang.T("bot.yes"), lang.T("bot.no"))
		return
	}
	t.updateState(userID, func(s *onboarding) { s.CheckoutID = sessionID })

	paymentMsg := tgbotapi.NewMessage(chatID, lang.T("bot.payPrompt"))
	paymentMsg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(lang.T("bot.payButton"), checkoutURL),
		),
	)
	t.sendMessage(paymentMsg)
}

// generatePlan builds and stores a plan, then shows its summary.
func (t *TelegramBot) generatePlan(chatID, userID int64, lang i18n.Language) {
	t.send(chatID, lang.T("bot.generating"))

	plan, err := t.svc.RegeneratePlan(t.ctx, userID, lang)
	if err != nil {
		t.logger.Errorw("Failed to generate plan", "user_id", userID, "error", err)
		t.send(chatID, service.GenerationErrorMessage(err, lang))
		t.updateState(userID, func(s *onboarding) {
			if s.State == StateProcessing {
				s.State = StateConfirm
			}
		})
		return
	}

	t.setState(userID, &onboarding{State: StateComplete})
	t.send(chatID, lang.T("bot.planReady")+"\n\n"+formatPlan(plan, lang))
}

// handlePaymentSuccess runs generation for a user whose checkout completed.
// Private chat ids equal user ids.
func (t *TelegramBot) handlePaymentSuccess(userID int64) {
	lang := t.languageByID(userID)
	t.logger.Infow("Processing successful payment", "user_id", userID)

	t.updateState(userID, func(s *onboarding) { s.State = StateProcessing })
	t.generatePlan(userID, userID, lang)
}

// handleCallbackQuery acknowledges inline keyboard presses.
func (t *TelegramBot) handleCallbackQuery(callbackQuery *tgbotapi.CallbackQuery) {
	t.logger.Debugw("Received callback query", "user_id", callbackQuery.From.ID, "data", callbackQuery.Data)

	callback := tgbotapi.NewCallback(callbackQuery.ID, "")
	if _, err := t.bot.Request(callback); err != nil {
		t.logger.Errorw("Failed to answer callback query", "error", err)
	}
}

func (t *TelegramBot) downloadFromTelegram(ctx context.Context, fileID string) ([]byte, error) {
	url, err := t.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
