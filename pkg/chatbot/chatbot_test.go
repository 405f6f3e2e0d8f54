package chatbot_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/chatbot"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/dom"
)

const hostPage = `<!doctype html><html><head></head><body><div id="chat"></div></body></html>`

func newChatbot(t *testing.T, apiURL string) *chatbot.Chatbot {
	t.Helper()
	doc, err := dom.ParseString(hostPage)
	if err != nil {
		t.Fatalf("parse host page: %v", err)
	}

	bot, err := chatbot.New(doc, config.Config{
		WidgetID:    "wgt_chat",
		TenantID:    "tnt_1",
		APIURL:      apiURL,
		ContainerID: "chat",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(bot.Destroy)

	if err := bot.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return bot
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reply":          "echo: " + req["message"].(string),
			"conversationId": req["conversationId"],
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInitRendersChatShell(t *testing.T) {
	bot := newChatbot(t, "http://api.invalid")

	out, err := bot.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	for _, want := range []string{
		`class="nevent-chat-launcher"`,
		`class="nevent-chat-panel" data-open="false"`,
		`class="nevent-chat-messages"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q:\n%s", want, out)
		}
	}
}

func TestToggleOpenClose(t *testing.T) {
	bot := newChatbot(t, "http://api.invalid")

	if bot.IsOpen() {
		t.Fatal("panel open before Toggle")
	}
	if !bot.Toggle() {
		t.Fatal("Toggle did not open")
	}

	out, _ := bot.HTML()
	if !strings.Contains(out, `data-open="true"`) || !strings.Contains(out, `aria-expanded="true"`) {
		t.Fatalf("open state not reflected:\n%s", out)
	}

	bot.Close()
	if bot.IsOpen() {
		t.Fatal("Close did not close")
	}
}

func TestSendMessageAppendsTranscript(t *testing.T) {
	server := echoServer(t)
	bot := newChatbot(t, server.URL)

	reply, err := bot.SendMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply == nil || reply.Content != "echo: hello" || reply.Role != chatbot.RoleBot {
		t.Fatalf("reply = %+v", reply)
	}

	state := bot.GetState()
	if len(state.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(state.Messages))
	}
	if state.Messages[0].Role != chatbot.RoleUser || state.Messages[1].Role != chatbot.RoleBot {
		t.Fatalf("roles = %+v", state.Messages)
	}

	out, _ := bot.HTML()
	if !strings.Contains(out, "data-message-id") || !strings.Contains(out, "echo: hello") {
		t.Fatalf("transcript not rendered:\n%s", out)
	}
}

func TestSendMessageConversationExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	t.Cleanup(server.Close)

	bot := newChatbot(t, server.URL)
	before := bot.GetState().ConversationID

	_, err := bot.SendMessage(context.Background(), "hello?")
	if err == nil {
		t.Fatal("expected expiry error")
	}
	norm, ok := err.(*boundary.NormalizedError)
	if !ok || norm.Code != boundary.CodeConversationExpired {
		t.Fatalf("err = %v", err)
	}

	after := bot.GetState().ConversationID
	if after == before || after == "" {
		t.Fatalf("conversation id not rotated: %q -> %q", before, after)
	}
}

func TestSendMessageOfflineFastFails(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	t.Cleanup(server.Close)

	bot := newChatbot(t, server.URL)
	bot.SetOnline(false)

	_, err := bot.SendMessage(context.Background(), "anyone?")
	norm, ok := err.(*boundary.NormalizedError)
	if !ok || norm.Code != boundary.CodeOffline {
		t.Fatalf("err = %v", err)
	}
	if requests != 0 {
		t.Fatalf("requests = %d, want 0", requests)
	}
}

func TestClearConversation(t *testing.T) {
	server := echoServer(t)
	bot := newChatbot(t, server.URL)

	if _, err := bot.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	before := bot.GetState().ConversationID

	bot.ClearConversation()

	state := bot.GetState()
	if len(state.Messages) != 0 {
		t.Fatalf("messages survived clear: %+v", state.Messages)
	}
	if state.ConversationID == before {
		t.Fatal("conversation id not rotated")
	}

	// The stylesheet mentions the message classes, so assert on the
	// transcript nodes themselves.
	out, _ := bot.HTML()
	if strings.Contains(out, "data-message-id") {
		t.Fatalf("transcript nodes survived clear:\n%s", out)
	}
}

func TestDestroyRemovesSurface(t *testing.T) {
	bot := newChatbot(t, "http://api.invalid")
	bot.Destroy()
	bot.Destroy()

	out, _ := bot.HTML()
	if strings.Contains(out, "nevent-chat-panel") {
		t.Fatalf("chat surface survived destroy:\n%s", out)
	}
	if _, err := bot.SendMessage(context.Background(), "hello"); err == nil {
		t.Fatal("expected error after destroy")
	}
}
