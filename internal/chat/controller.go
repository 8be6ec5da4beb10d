package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/jonathan/pathgenie/internal/llm"
	"github.com/jonathan/pathgenie/internal/types"
)

var (
	// ErrEmptyMessage is returned for blank input; nothing is sent.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy is returned while a previous message is awaiting its reply.
	ErrBusy = errors.New("a reply is still pending")
)

// Controller owns one conversation about one analysis result.
// At most one message is in flight at a time.
type Controller struct {
	client llm.Client
	result *types.AnalysisResult

	mu    sync.Mutex
	turns []types.Turn
	busy  bool
}

// NewController resumes a conversation from history, which may be empty.
func NewController(client llm.Client, result *types.AnalysisResult, history []types.Turn) *Controller {
	turns := make([]types.Turn, len(history))
	copy(turns, history)
	return &Controller{client: client, result: result, turns: turns}
}

// Send appends the user's message, asks the advisor and appends its reply.
// A failed request appends the fallback reply instead of returning an error;
// only ErrEmptyMessage and ErrBusy are returned, and both leave the
// conversation untouched.
func (c *Controller) Send(ctx context.Context, text string) (types.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Turn{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return types.Turn{}, ErrBusy
	}
	c.busy = true
	c.turns = append(c.turns, types.Turn{Role: types.RoleUser, Content: text})
	messages := toMessages(c.turns)
	c.mu.Unlock()

	reply := c.ask(ctx, messages)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, reply)
	c.busy = false
	return reply, nil
}

func (c *Controller) ask(ctx context.Context, messages []llm.Message) types.Turn {
	content, err := c.client.Chat(ctx, llm.ChatRequest{
		Tier:     llm.TierLite,
		System:   SystemPrompt(c.result),
		Messages: messages,
	})
	if err != nil {
		log.Printf("[chat] request failed: %v", err)
		content = ""
	}
	if strings.TrimSpace(content) == "" {
		if err == nil {
			log.Printf("[chat] empty reply from %s", c.client.GetModel(llm.TierLite))
		}
		content = FallbackReply()
	}
	return types.Turn{Role: types.RoleAssistant, Content: content}
}

// Turns returns a copy of the conversation so far.
func (c *Controller) Turns() []types.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Busy reports whether a reply is pending.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Reset clears the conversation. It fails with ErrBusy while a reply is pending.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.turns = nil
	return nil
}

func toMessages(turns []types.Turn) []llm.Message {
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := llm.RoleUser
		if t.Role == types.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: t.Content})
	}
	return out
}
