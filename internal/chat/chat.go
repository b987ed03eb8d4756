// Package chat is the Q&A conversation controller: an ordered transcript,
// an optimistic send with fixed fallback replies, and a typewriter reveal
// for assistant turns.
package chat

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minpaixinyu/minpai/internal/api"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fixed assistant texts, verbatim from the site.
const (
	Greeting        = "您好！我是闽派新语AI助手，很高兴为您服务。我可以为您解答关于福建文化、历史、旅游、美食等方面的问题。请问有什么可以帮您的吗？"
	FallbackEmpty   = "抱歉，我暂时无法回答这个问题。请尝试其他问题。"
	FallbackFailure = "抱歉，发生了错误。请稍后重试。"
)

// Suggestions are the starter questions offered on an empty conversation.
var Suggestions = []string{
	"福建有哪些著名的传统文化？",
	"泉州为什么被称为海上丝绸之路的起点？",
	"福建有什么特色美食推荐？",
	"武夷山有什么好玩的地方？",
}

// Turn is one transcript entry. Revealed gates the copy/export affordance
// for assistant turns: it flips only once the typewriter finishes.
type Turn struct {
	ID       string
	Role     Role
	Text     string
	At       time.Time
	Revealed bool
}

// Controller owns one conversation. State is confined behind the mutex;
// Busy mirrors the disabled input while the single outstanding request is
// in flight.
type Controller struct {
	client *api.Client

	mu    sync.Mutex
	turns []Turn
	busy  bool
}

// New starts a conversation with the greeting turn.
func New(client *api.Client) *Controller {
	c := &Controller{client: client}
	greeting := c.assistantTurn(Greeting)
	greeting.Revealed = true
	c.turns = []Turn{greeting}
	return c
}

// Turns returns a copy of the transcript in insertion order.
func (c *Controller) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Turn(nil), c.turns...)
}

// Busy reports whether a send is in flight; callers keep input disabled
// while it is.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Send appends the user turn immediately, calls the Q&A endpoint once, and
// appends the reply — the real answer, or the fixed fallback for an empty
// answer or a failure. The busy flag is always cleared on return, whatever
// happened. The returned turn is unrevealed; run it through a Reveal before
// offering copy.
func (c *Controller) Send(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, fmt.Errorf("empty message")
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return Turn{}, fmt.Errorf("a message is already in flight")
	}
	c.busy = true
	c.turns = append(c.turns, Turn{
		ID:       uuid.New().String(),
		Role:     RoleUser,
		Text:     text,
		At:       time.Now(),
		Revealed: true,
	})
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	answer, err := c.client.Chat(ctx, text)
	reply := answer
	switch {
	case err == api.ErrEmptyAnswer:
		reply = FallbackEmpty
	case err != nil:
		log.Printf("chat: sending message: %v", err)
		reply = FallbackFailure
	}

	turn := c.assistantTurn(reply)
	c.mu.Lock()
	c.turns = append(c.turns, turn)
	c.mu.Unlock()
	return turn, nil
}

// MarkRevealed flips the reveal gate of a turn once its typewriter
// completes.
func (c *Controller) MarkRevealed(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.turns {
		if c.turns[i].ID == id {
			c.turns[i].Revealed = true
			return
		}
	}
}

// Clear resets the transcript to the greeting. Callers confirm first.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = []Turn{c.assistantTurn(Greeting)}
	c.turns[0].Revealed = true
}

// Export writes the transcript as plain text, the downloadable-file format
// of the original page.
func (c *Controller) Export(w io.Writer) error {
	c.mu.Lock()
	turns := append([]Turn(nil), c.turns...)
	c.mu.Unlock()

	if _, err := io.WriteString(w, "闽派新语AI聊天记录\n\n"); err != nil {
		return fmt.Errorf("exporting transcript: %w", err)
	}
	for _, t := range turns {
		prefix := "用户: "
		if t.Role == RoleAssistant {
			prefix = "AI: "
		}
		if _, err := fmt.Fprintf(w, "%s%s\n\n", prefix, t.Text); err != nil {
			return fmt.Errorf("exporting transcript: %w", err)
		}
	}
	return nil
}

func (c *Controller) assistantTurn(text string) Turn {
	return Turn{
		ID:   uuid.New().String(),
		Role: RoleAssistant,
		Text: text,
		At:   time.Now(),
	}
}
