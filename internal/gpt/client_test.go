package gpt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlife-bot/config"
)

// fakeAPI records request bodies and answers with canned chat completions.
type fakeAPI struct {
	mu       sync.Mutex
	requests []map[string]any
	replies  []string
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		if strings.HasSuffix(r.URL.Path, "/audio/speech") {
			w.Header().Set("Content-Type", "audio/pcm")
			_, _ = w.Write([]byte{1, 2, 3, 4})
			return
		}

		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))

		f.mu.Lock()
		f.requests = append(f.requests, req)
		i := len(f.requests) - 1
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.replies[i]))
	}
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func textCompletion(text string) string {
	msg, _ := json.Marshal(text)
	return fmt.Sprintf(`{"id":"x","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, msg)
}

func toolCompletion(ids ...string) string {
	calls := make([]string, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, fmt.Sprintf(`{"id":%q,"type":"function","function":{"name":"updateMealIngredient","arguments":"{\"day\":\"Monday\"}"}}`, id))
	}
	return fmt.Sprintf(`{"id":"x","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"","tool_calls":[%s]},"finish_reason":"tool_calls"}]}`, strings.Join(calls, ","))
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(config.GPTConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model"})
}

func TestClient_CompleteSendsSchema(t *testing.T) {
	api := &fakeAPI{replies: []string{textCompletion(`{"ok":true}`)}}
	c := newTestClient(t, api)

	text, err := c.Complete(context.Background(), SchemaRequest{Prompt: "hi", SchemaName: "exercise", Schema: &exerciseSchema})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	req := api.requests[0]
	assert.Equal(t, "test-model", req["model"])
	format := req["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "exercise", format["json_schema"].(map[string]any)["name"])
}

func TestChatSession_OneCallAtATime(t *testing.T) {
	api := &fakeAPI{replies: []string{toolCompletion("c1", "c2"), textCompletion("All done")}}
	chat := newTestClient(t, api).NewChat("system")
	ctx := context.Background()

	reply, err := chat.Send(ctx, "swap almonds")
	require.NoError(t, err)
	require.Len(t, reply.Calls, 2)
	assert.Equal(t, UpdateMealIngredientTool, reply.Calls[0].Name)
	assert.JSONEq(t, `{"day":"Monday"}`, reply.Calls[0].Arguments)

	reply, err = chat.SendToolResult(ctx, reply.Calls[0], `{"status":"OK"}`)
	require.NoError(t, err)
	require.Len(t, reply.Calls, 1)
	assert.Equal(t, "c2", reply.Calls[0].ID)
	assert.Equal(t, 1, api.count(), "remaining calls are served locally")

	reply, err = chat.SendToolResult(ctx, reply.Calls[0], `{"status":"OK"}`)
	require.NoError(t, err)
	assert.Empty(t, reply.Calls)
	assert.Equal(t, "All done", reply.Text)
	require.Equal(t, 2, api.count())

	second := api.requests[1]
	assert.Equal(t, false, second["parallel_tool_calls"])
	messages := second["messages"].([]any)
	// system, user, assistant(tool_calls), tool, tool
	require.Len(t, messages, 5)
	assert.Equal(t, "c1", messages[3].(map[string]any)["tool_call_id"])
	assert.Equal(t, "c2", messages[4].(map[string]any)["tool_call_id"])

	tools := second["tools"].([]any)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, UpdateMealIngredientTool, fn["name"])
}

func TestChatSession_AbandonedCallsAnsweredOnNextSend(t *testing.T) {
	api := &fakeAPI{replies: []string{toolCompletion("c1"), textCompletion("ok")}}
	chat := newTestClient(t, api).NewChat("system")
	ctx := context.Background()

	_, err := chat.Send(ctx, "first")
	require.NoError(t, err)

	reply, err := chat.Send(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Text)

	messages := api.requests[1]["messages"].([]any)
	// system, user, assistant(tool_calls), tool, user
	require.Len(t, messages, 5)
	assert.Equal(t, "tool", messages[3].(map[string]any)["role"])
	assert.Equal(t, "user", messages[4].(map[string]any)["role"])
}

func TestClient_AnalyzeImage(t *testing.T) {
	api := &fakeAPI{replies: []string{textCompletion("About 450 kcal")}}
	c := newTestClient(t, api)

	text, err := c.AnalyzeImage(context.Background(), []byte("jpegdata"), "image/jpeg", "Analyze")
	require.NoError(t, err)
	assert.Equal(t, "About 450 kcal", text)

	parts := api.requests[0]["messages"].([]any)[0].(map[string]any)["content"].([]any)
	image := parts[0].(map[string]any)["image_url"].(map[string]any)
	assert.True(t, strings.HasPrefix(image["url"].(string), "data:image/jpeg;base64,"))
}

func TestClient_SpeakWrapsPCM(t *testing.T) {
	c := newTestClient(t, &fakeAPI{})

	wav, err := c.Speak(context.Background(), "Keep your back straight")
	require.NoError(t, err)
	require.Len(t, wav, 44+4)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, []byte{1, 2, 3, 4}, wav[44:])
}

func TestWrapPCM_Header(t *testing.T) {
	pcm := make([]byte, 480)
	wav := WrapPCM(pcm, SpeechSampleRate, SpeechChannels, SpeechBitsPerSample)

	require.Len(t, wav, 44+480)
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "channels")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]), "sample rate")
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]), "bits per sample")
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(480), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, uint32(36+480), binary.LittleEndian.Uint32(wav[4:8]))
}
