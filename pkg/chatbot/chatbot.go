// Package chatbot is the conversational widget variant. It shares the
// mount, boundary, and fetch machinery with the subscription widget but
// keeps its own conversation state: a server-side conversation id, the
// message transcript, and the open/closed panel.
package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/nevent-io/go-widget/internal/chrome"
	"github.com/nevent-io/go-widget/internal/styles"
	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/connection"
	"github.com/nevent-io/go-widget/pkg/dom"
	"github.com/nevent-io/go-widget/pkg/fetch"
	"github.com/nevent-io/go-widget/pkg/form"
	"github.com/nevent-io/go-widget/pkg/i18n"
)

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one transcript entry.
type Message struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Snapshot is the externally visible conversation state.
type Snapshot struct {
	Open           bool      `json:"open"`
	ConversationID string    `json:"conversationId"`
	Messages       []Message `json:"messages"`
}

// Option customizes chatbot construction.
type Option func(*Chatbot)

// WithFetcher replaces the retrying HTTP client.
func WithFetcher(fetcher *fetch.Fetcher) Option {
	return func(c *Chatbot) {
		if fetcher != nil {
			c.fetcher = fetcher
		}
	}
}

// WithBoundary shares an error boundary with other widgets on the page.
func WithBoundary(bnd *boundary.Boundary) Option {
	return func(c *Chatbot) {
		if bnd != nil {
			c.bnd = bnd
		}
	}
}

// WithCatalog replaces the embedded translation catalog.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(c *Chatbot) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithShadowRoot toggles the declarative shadow root.
func WithShadowRoot(enabled bool) Option {
	return func(c *Chatbot) {
		c.shadow = enabled
	}
}

// Chatbot renders a chat surface into a host document.
type Chatbot struct {
	mu sync.Mutex

	cfg     config.Config
	doc     *dom.Document
	bnd     *boundary.Boundary
	arena   *boundary.TimerArena
	monitor *connection.Monitor
	fetcher *fetch.Fetcher
	catalog *i18n.Catalog
	shell   *chrome.Engine
	shadow  bool

	mount     *dom.MountManager
	panelNode *html.Node
	listNode  *html.Node
	launcher  *html.Node

	open           bool
	conversationID string
	messages       []Message
	inFlight       bool
	destroyed      bool
}

// New validates the configuration and prepares a chatbot.
func New(doc *dom.Document, userCfg config.Config, options ...Option) (*Chatbot, error) {
	cfg := config.Resolve(userCfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = dom.NewDocument()
	}

	c := &Chatbot{
		cfg:            cfg,
		doc:            doc,
		monitor:        connection.NewMonitor(),
		arena:          boundary.NewTimerArena(),
		catalog:        i18n.Default(),
		shadow:         true,
		conversationID: uuid.NewString(),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.bnd == nil {
		c.bnd = boundary.New(
			boundary.WithDebug(cfg.Debug),
			boundary.WithHandler(func(err *boundary.NormalizedError) {
				if hook := c.cfg.Hooks.OnError; hook != nil {
					hook(err)
				}
			}),
		)
	}
	if c.fetcher == nil {
		c.fetcher = fetch.New(
			fetch.WithStatus(c.monitor),
			fetch.WithArena(c.arena),
		)
	}
	if c.shell == nil {
		shell, err := chrome.New()
		if err != nil {
			return nil, fmt.Errorf("chatbot: chrome engine: %w", err)
		}
		c.shell = shell
	}

	return c, nil
}

// Init mounts the chat shell. Like the subscription widget, a destroyed
// chatbot ignores Init, and panics below the call are intercepted by the
// boundary.
func (c *Chatbot) Init(ctx context.Context) error {
	var err error
	c.bnd.RunCtx(ctx, "chatbot: init", func(context.Context) error {
		err = c.init()
		return nil
	})
	return err
}

func (c *Chatbot) init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed || c.mount != nil {
		return nil
	}

	c.mount = dom.NewMountManager(c.doc, c.cfg.ContainerID, dom.WithShadow(c.shadow))

	// Roll back on any failure below, including a panic unwinding to the
	// boundary, so the host may retry Init.
	completed := false
	defer func() {
		if !completed && c.mount != nil {
			c.mount.Unmount()
			c.mount = nil
		}
	}()

	if _, err := c.mount.Mount(); err != nil {
		norm := boundary.Normalize(err, "chatbot: init")
		c.bnd.Dispatch(norm)
		return norm
	}

	if err := c.renderShell(); err != nil {
		norm := boundary.Normalize(err, "chatbot: init")
		c.bnd.Dispatch(norm)
		return norm
	}
	completed = true
	return nil
}

func (c *Chatbot) renderShell() error {
	m := form.NewMessages(&c.cfg, c.catalog)
	return c.mount.Rerender(func(root *html.Node) error {
		markup, err := c.shell.Render("chat", map[string]any{
			"widgetId":        c.cfg.WidgetID,
			"chatTitle":       m.Get("chatTitle"),
			"chatPlaceholder": m.Get("chatPlaceholder"),
			"chatSend":        m.Get("chatSend"),
			"offlineMessage":  m.Get("offlineMessage"),
			"css":             styles.Build(c.cfg.Styles, c.cfg.CustomCSS, c.cfg.Animations, nil, ""),
		})
		if err != nil {
			return err
		}
		nodes, err := dom.ParseFragment(markup)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			root.AppendChild(n)
		}

		c.panelNode = dom.Query(root, dom.ByClass("nevent-chat-panel"))
		c.listNode = dom.Query(root, dom.ByClass("nevent-chat-messages"))
		c.launcher = dom.Query(root, dom.ByClass("nevent-chat-launcher"))
		if c.listNode == nil {
			return boundary.NewError(boundary.CodeUnknown, "chatbot: shell missing message list")
		}
		c.reflectOpen()
		for _, msg := range c.messages {
			c.appendMessageNode(msg)
		}
		return nil
	})
}

// Open shows the chat panel.
func (c *Chatbot) Open() { c.setOpen(true) }

// Close hides the chat panel.
func (c *Chatbot) Close() { c.setOpen(false) }

// Toggle flips the panel and reports the new state.
func (c *Chatbot) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	c.reflectOpen()
	return c.open
}

// IsOpen reports whether the panel is visible.
func (c *Chatbot) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Chatbot) setOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = open
	c.reflectOpen()
}

func (c *Chatbot) reflectOpen() {
	if c.panelNode != nil {
		if c.open {
			dom.SetAttr(c.panelNode, "data-open", "true")
		} else {
			dom.SetAttr(c.panelNode, "data-open", "false")
		}
	}
	if c.launcher != nil {
		dom.SetAttr(c.launcher, "aria-expanded", fmt.Sprintf("%t", c.open))
	}
}

// SendMessage posts one user message and appends the reply. An expired
// conversation resets the id, dispatches CONVERSATION_EXPIRED, and returns
// the normalized error so the host may resend. Panics below the call are
// intercepted by the boundary.
func (c *Chatbot) SendMessage(ctx context.Context, content string) (*Message, error) {
	var (
		msg *Message
		err error
	)
	c.bnd.RunCtx(ctx, "chatbot: send", func(ctx context.Context) error {
		msg, err = c.sendMessage(ctx, content)
		return nil
	})
	return msg, err
}

func (c *Chatbot) sendMessage(ctx context.Context, content string) (*Message, error) {
	c.mu.Lock()
	if c.destroyed || c.mount == nil {
		c.mu.Unlock()
		return nil, boundary.NewError(boundary.CodeUnknown, "chatbot: send before init")
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, nil
	}
	if !c.monitor.Online() {
		c.mu.Unlock()
		err := boundary.NewError(boundary.CodeOffline, form.NewMessages(&c.cfg, c.catalog).Get("offlineMessage"))
		c.bnd.Dispatch(err)
		return nil, err
	}
	c.inFlight = true
	conversationID := c.conversationID

	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Content: content, At: time.Now().UTC()}
	c.messages = append(c.messages, userMsg)
	c.appendMessageNode(userMsg)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	body, err := json.Marshal(map[string]any{
		"conversationId": conversationID,
		"widgetId":       c.cfg.WidgetID,
		"message":        content,
	})
	if err != nil {
		norm := boundary.Normalize(err, "chatbot: encode message")
		c.bnd.Dispatch(norm)
		return nil, norm
	}

	resp, err := c.fetcher.FetchWithRetry(ctx, c.messageURL(), fetch.Options{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	}, c.cfg.SubmitRetries)
	if err != nil {
		norm := boundary.Normalize(err, "chatbot: send")
		c.bnd.Dispatch(norm)
		return nil, norm
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		c.mu.Lock()
		c.conversationID = uuid.NewString()
		c.mu.Unlock()
		norm := boundary.NewError(boundary.CodeConversationExpired,
			form.NewMessages(&c.cfg, c.catalog).Get("conversationExpired"))
		norm.Status = resp.StatusCode
		c.bnd.Dispatch(norm)
		return nil, norm
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		norm := boundary.Normalize(payload, "chatbot: send")
		if norm.Code == boundary.CodeUnknown {
			norm.Code = boundary.CodeAPIError
		}
		norm.Status = resp.StatusCode
		c.bnd.Dispatch(norm)
		return nil, norm
	}

	var reply struct {
		Reply          string `json:"reply"`
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		norm := boundary.Normalize(err, "chatbot: decode reply")
		c.bnd.Dispatch(norm)
		return nil, norm
	}

	botMsg := Message{ID: uuid.NewString(), Role: RoleBot, Content: reply.Reply, At: time.Now().UTC()}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil, nil
	}
	if reply.ConversationID != "" {
		c.conversationID = reply.ConversationID
	}
	c.messages = append(c.messages, botMsg)
	c.appendMessageNode(botMsg)
	c.mu.Unlock()

	return &botMsg, nil
}

// ClearConversation drops the transcript and starts a fresh conversation id.
func (c *Chatbot) ClearConversation() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = nil
	c.conversationID = uuid.NewString()
	if c.listNode != nil {
		dom.ClearChildren(c.listNode)
	}
}

// GetState returns a copy of the conversation state.
func (c *Chatbot) GetState() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Open:           c.open,
		ConversationID: c.conversationID,
		Messages:       append([]Message(nil), c.messages...),
	}
}

// SetOnline drives the connection monitor.
func (c *Chatbot) SetOnline(online bool) {
	c.monitor.SetOnline(online)
}

// Destroy tears down the chatbot. Idempotent.
func (c *Chatbot) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.destroyed = true
	c.arena.StopAll()
	if c.mount != nil {
		c.mount.Unmount()
	}
}

// HTML renders the whole host document.
func (c *Chatbot) HTML() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.HTML()
}

func (c *Chatbot) messageURL() string {
	return fmt.Sprintf("%s/public/chatbot/message?tenantId=%s", c.cfg.APIURL, c.cfg.TenantID)
}

func (c *Chatbot) appendMessageNode(msg Message) {
	if c.listNode == nil {
		return
	}
	node := dom.Element("div",
		"class", "nevent-chat-message nevent-chat-message--"+string(msg.Role),
		"data-message-id", msg.ID,
	)
	node.AppendChild(dom.Text(msg.Content))
	c.listNode.AppendChild(node)
}
