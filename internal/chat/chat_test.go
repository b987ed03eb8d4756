package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minpaixinyu/minpai/internal/api"
	"github.com/minpaixinyu/minpai/internal/db"
)

func chatBackend(t *testing.T, answer string, status int) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		w.Write([]byte(`{"answer": "` + answer + `"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return client
}

func TestSendAppendsBothTurns(t *testing.T) {
	client := chatBackend(t, "泉州是宋元时期的世界海洋贸易中心。", 0)
	c := New(client)

	turn, err := c.Send(context.Background(), "泉州为什么有名？")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if turn.Role != RoleAssistant || turn.Revealed {
		t.Errorf("reply turn = %+v, want unrevealed assistant turn", turn)
	}

	turns := c.Turns()
	if len(turns) != 3 { // greeting, user, assistant
		t.Fatalf("transcript length = %d, want 3", len(turns))
	}
	if turns[1].Role != RoleUser || turns[1].Text != "泉州为什么有名？" {
		t.Errorf("user turn = %+v", turns[1])
	}
	if turns[2].Text != "泉州是宋元时期的世界海洋贸易中心。" {
		t.Errorf("assistant turn = %+v", turns[2])
	}
	if c.Busy() {
		t.Error("busy must be cleared after Send returns")
	}
}

func TestSendEmptyAnswerFallback(t *testing.T) {
	client := chatBackend(t, "", 0)
	c := New(client)

	turn, err := c.Send(context.Background(), "你好")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if turn.Text != FallbackEmpty {
		t.Errorf("reply = %q, want the empty-answer fallback", turn.Text)
	}
	if c.Busy() {
		t.Error("busy must be cleared on the empty-answer path")
	}
}

func TestSendFailureFallback(t *testing.T) {
	client := chatBackend(t, "", http.StatusBadGateway)
	c := New(client)

	turn, err := c.Send(context.Background(), "你好")
	if err != nil {
		t.Fatalf("Send must not fail outward; the fallback is the reply: %v", err)
	}
	if turn.Text != FallbackFailure {
		t.Errorf("reply = %q, want the failure fallback", turn.Text)
	}
	if c.Busy() {
		t.Error("busy must be cleared on the failure path")
	}

	// The optimistic user turn stays in the transcript.
	turns := c.Turns()
	if turns[1].Role != RoleUser {
		t.Errorf("optimistic user turn missing: %+v", turns)
	}
}

func TestSendRejectsEmptyAndConcurrent(t *testing.T) {
	client := chatBackend(t, "ok", 0)
	c := New(client)

	if _, err := c.Send(context.Background(), "   "); err == nil {
		t.Error("expected error for blank message")
	}
}

func TestMarkRevealedGatesCopy(t *testing.T) {
	client := chatBackend(t, "答案", 0)
	c := New(client)

	turn, _ := c.Send(context.Background(), "问题")
	if turn.Revealed {
		t.Fatal("fresh reply must start unrevealed")
	}
	c.MarkRevealed(turn.ID)
	for _, got := range c.Turns() {
		if got.ID == turn.ID && !got.Revealed {
			t.Error("MarkRevealed did not stick")
		}
	}
}

func TestClearResetsToGreeting(t *testing.T) {
	client := chatBackend(t, "答案", 0)
	c := New(client)
	c.Send(context.Background(), "问题")

	c.Clear()
	turns := c.Turns()
	if len(turns) != 1 || turns[0].Text != Greeting {
		t.Errorf("transcript after Clear = %+v", turns)
	}
}

func TestExportFormat(t *testing.T) {
	client := chatBackend(t, "武夷山很好玩。", 0)
	c := New(client)
	c.Send(context.Background(), "武夷山好玩吗？")

	var sb strings.Builder
	if err := c.Export(&sb); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "闽派新语AI聊天记录\n\n") {
		t.Errorf("export header missing: %q", out)
	}
	if !strings.Contains(out, "用户: 武夷山好玩吗？\n") {
		t.Errorf("user line missing: %q", out)
	}
	if !strings.Contains(out, "AI: 武夷山很好玩。\n") {
		t.Errorf("assistant line missing: %q", out)
	}
}

func TestRevealEmitsRunesThenCloses(t *testing.T) {
	ch := Reveal(context.Background(), "闽派ab", time.Millisecond)
	var got []rune
	for r := range ch {
		got = append(got, r)
	}
	if string(got) != "闽派ab" {
		t.Errorf("revealed %q", string(got))
	}
}

func TestRevealCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := Reveal(ctx, strings.Repeat("字", 1000), time.Millisecond)
	<-ch
	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return // closed early, as cancellation requires
			}
		case <-deadline:
			t.Fatal("reveal did not stop after cancel")
		}
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	client := chatBackend(t, "好的", 0)
	c := New(client)
	c.Send(context.Background(), "问题一")

	h := NewHistory(database)
	id, err := h.SaveConversation(context.Background(), c.Turns())
	if err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}

	turns, err := h.LoadConversation(context.Background(), id)
	if err != nil {
		t.Fatalf("LoadConversation: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("loaded %d turns, want 3", len(turns))
	}
	if turns[0].Text != Greeting || turns[1].Text != "问题一" {
		t.Errorf("loaded order wrong: %+v", turns)
	}
}
