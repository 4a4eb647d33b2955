package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlife-bot/internal/gpt"
	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/pkg/logger"
)

type fakeTransport struct {
	replies []gpt.Reply
	errAt   int // index of the exchange that fails, -1 for none
	sent    []string
	results []string
	calls   int
}

func (f *fakeTransport) next() (gpt.Reply, error) {
	i := f.calls
	f.calls++
	if i == f.errAt {
		return gpt.Reply{}, errors.New("network down")
	}
	if i >= len(f.replies) {
		return f.replies[len(f.replies)-1], nil
	}
	return f.replies[i], nil
}

func (f *fakeTransport) Send(_ context.Context, text string) (gpt.Reply, error) {
	f.sent = append(f.sent, text)
	return f.next()
}

func (f *fakeTransport) SendToolResult(_ context.Context, _ gpt.FunctionCall, result string) (gpt.Reply, error) {
	f.results = append(f.results, result)
	return f.next()
}

type fakeStore struct {
	plan  *models.Plan
	saves int
	err   error
}

func (s *fakeStore) Plan() *models.Plan { return s.plan.Clone() }

func (s *fakeStore) SavePlan(_ context.Context, p *models.Plan) error {
	if s.err != nil {
		return s.err
	}
	s.saves++
	s.plan = p.Clone()
	return nil
}

func newStore() *fakeStore {
	return &fakeStore{plan: &models.Plan{NutritionPlan: models.NutritionPlan{DailyPlans: []models.DailyNutrition{
		{Day: "Monday", Meals: []models.Meal{{ID: "m1", Name: "Yogurt with almonds", Ingredients: []string{"yogurt", "almonds"}, Recipe: []string{"Top with almonds"}}}},
	}}}}
}

func call(id, name, args string) gpt.FunctionCall {
	return gpt.FunctionCall{ID: id, Name: name, Arguments: args}
}

const swapArgs = `{"day":"monday","mealName":"Yogurt with almonds","oldIngredient":"almonds","newIngredient":"walnuts","newMealName":"Yogurt with walnuts"}`

func decodeResult(t *testing.T, raw string) ToolResult {
	t.Helper()
	var r ToolResult
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestAgent_WelcomeOnFirstUse(t *testing.T) {
	a := New(&fakeTransport{errAt: -1}, newStore(), i18n.Spanish, 0, logger.NewNop())

	transcript := a.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, models.RoleModel, transcript[0].Role)
	assert.Equal(t, i18n.Spanish.T("chat.welcome"), transcript[0].Text)

	// Transcript hands out a copy
	transcript[0].Text = "changed"
	assert.Equal(t, i18n.Spanish.T("chat.welcome"), a.Transcript()[0].Text)
}

func TestAgent_PlainAnswer(t *testing.T) {
	tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{{Text: "Try walnuts instead. Shall I swap them?"}}}
	a := New(tr, newStore(), i18n.English, 0, logger.NewNop())

	answer, err := a.SendUserMessage(context.Background(), "I don't like almonds")
	require.NoError(t, err)
	assert.Equal(t, "Try walnuts instead. Shall I swap them?", answer)

	require.Len(t, tr.sent, 1)
	out := tr.sent[0]
	assert.True(t, strings.HasPrefix(out, i18n.English.T("chat.contextHeader")+"\n```json\n"))
	assert.Contains(t, out, `"name": "Yogurt with almonds"`)
	assert.True(t, strings.HasSuffix(out, "```\n\nUSER QUESTION: I don't like almonds"))

	transcript := a.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Text: "I don't like almonds"}, transcript[1])
	assert.Equal(t, models.RoleModel, transcript[2].Role)
}

func TestAgent_ExecutesUpdateAndSaves(t *testing.T) {
	store := newStore()
	tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{
		{Calls: []gpt.FunctionCall{call("c1", gpt.UpdateMealIngredientTool, swapArgs)}},
		{Text: "Done! Enjoy your walnuts."},
	}}
	a := New(tr, store, i18n.English, 0, logger.NewNop())

	answer, err := a.SendUserMessage(context.Background(), "yes, go ahead")
	require.NoError(t, err)
	assert.Equal(t, "Done! Enjoy your walnuts.", answer)

	require.Len(t, tr.results, 1)
	assert.Equal(t, ToolResult{Status: StatusOK, Message: "Meal updated successfully."}, decodeResult(t, tr.results[0]))
	assert.Equal(t, 1, store.saves)

	meal := store.plan.NutritionPlan.DailyPlans[0].Meals[0]
	assert.Equal(t, "Yogurt with walnuts", meal.Name)
	assert.Equal(t, []string{"yogurt", "walnuts"}, meal.Ingredients)
	assert.Equal(t, "Top with walnuts", meal.Recipe[0])
}

func TestAgent_FailedResolution(t *testing.T) {
	store := newStore()
	tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{
		{Calls: []gpt.FunctionCall{call("c1", gpt.UpdateMealIngredientTool, `{"day":"Sunday","mealName":"x","oldIngredient":"y","newIngredient":"z"}`)}},
		{Text: "I couldn't find that meal."},
	}}
	a := New(tr, store, i18n.English, 0, logger.NewNop())

	_, err := a.SendUserMessage(context.Background(), "swap")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, decodeResult(t, tr.results[0]).Status)
	assert.Equal(t, 0, store.saves)
}

func TestAgent_UnknownTool(t *testing.T) {
	tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{
		{Calls: []gpt.FunctionCall{call("c1", "deleteEverything", `{}`)}},
		{Text: "Sorry, I can't do that."},
	}}
	a := New(tr, newStore(), i18n.English, 0, logger.NewNop())

	answer, err := a.SendUserMessage(context.Background(), "delete my plan")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I can't do that.", answer)
	assert.Equal(t, ToolResult{Status: StatusError, Message: "Unknown function call: deleteEverything"}, decodeResult(t, tr.results[0]))
}

func TestAgent_InvalidArguments(t *testing.T) {
	tests := map[string]string{
		"malformed json":   `{"day": `,
		"missing argument": `{"day":"Monday","mealName":"Yogurt with almonds","oldIngredient":"almonds"}`,
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{
				{Calls: []gpt.FunctionCall{call("c1", gpt.UpdateMealIngredientTool, args)}},
				{Text: "Let me try again."},
			}}
			a := New(tr, store, i18n.English, 0, logger.NewNop())

			_, err := a.SendUserMessage(context.Background(), "swap")
			require.NoError(t, err)

			res := decodeResult(t, tr.results[0])
			assert.Equal(t, StatusError, res.Status)
			assert.Contains(t, res.Message, "Invalid arguments for updateMealIngredient")
			assert.Equal(t, 0, store.saves)
		})
	}
}

func TestAgent_TakesFirstCallEachRound(t *testing.T) {
	tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{
		{Calls: []gpt.FunctionCall{call("c1", "first", `{}`), call("c2", "second", `{}`)}},
		{Calls: []gpt.FunctionCall{call("c2", "second", `{}`)}},
		{Text: "ok"},
	}}
	a := New(tr, newStore(), i18n.English, 0, logger.NewNop())

	_, err := a.SendUserMessage(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, tr.results, 2)
	assert.Contains(t, decodeResult(t, tr.results[0]).Message, "first")
	assert.Contains(t, decodeResult(t, tr.results[1]).Message, "second")
}

func TestAgent_ToolCallCeiling(t *testing.T) {
	loop := gpt.Reply{Calls: []gpt.FunctionCall{call("c", "again", `{}`)}}
	tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{loop}}
	a := New(tr, newStore(), i18n.English, 3, logger.NewNop())

	answer, err := a.SendUserMessage(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrTooManyToolCalls)
	assert.Empty(t, answer)
	assert.Len(t, tr.results, 3)

	transcript := a.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, i18n.English.T("chat.error"), transcript[2].Text)
}

func TestAgent_TransportFailureKeepsTranscript(t *testing.T) {
	tr := &fakeTransport{errAt: 1, replies: []gpt.Reply{{Text: "first answer"}}}
	a := New(tr, newStore(), i18n.English, 0, logger.NewNop())

	_, err := a.SendUserMessage(context.Background(), "first")
	require.NoError(t, err)

	_, err = a.SendUserMessage(context.Background(), "second")
	assert.ErrorIs(t, err, ErrTransport)

	transcript := a.Transcript()
	require.Len(t, transcript, 5)
	assert.Equal(t, "first", transcript[1].Text)
	assert.Equal(t, "first answer", transcript[2].Text)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Text: "second"}, transcript[3])
	assert.Equal(t, models.ChatMessage{Role: models.RoleModel, Text: i18n.English.T("chat.error")}, transcript[4])
}

func TestAgent_TransportFailureMidLoop(t *testing.T) {
	store := newStore()
	tr := &fakeTransport{errAt: 1, replies: []gpt.Reply{
		{Calls: []gpt.FunctionCall{call("c1", gpt.UpdateMealIngredientTool, swapArgs)}},
	}}
	a := New(tr, store, i18n.English, 0, logger.NewNop())

	_, err := a.SendUserMessage(context.Background(), "yes")
	assert.ErrorIs(t, err, ErrTransport)
	// the edit already applied stays saved
	assert.Equal(t, 1, store.saves)
}

func TestAgent_SaveFailureReported(t *testing.T) {
	store := newStore()
	store.err = errors.New("disk full")
	tr := &fakeTransport{errAt: -1, replies: []gpt.Reply{
		{Calls: []gpt.FunctionCall{call("c1", gpt.UpdateMealIngredientTool, swapArgs)}},
		{Text: "Something went wrong saving."},
	}}
	a := New(tr, store, i18n.English, 0, logger.NewNop())

	_, err := a.SendUserMessage(context.Background(), "yes")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, decodeResult(t, tr.results[0]).Status)
	assert.Equal(t, "Yogurt with almonds", store.plan.NutritionPlan.DailyPlans[0].Meals[0].Name)
}
