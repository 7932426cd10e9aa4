package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pulse-node/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

func TestChatModelInitialState(t *testing.T) {
	m := NewChatModel(testServices())
	if m.IsWaiting() {
		t.Fatal("expected not waiting initially")
	}
	if m.MessageCount() != 0 {
		t.Fatalf("expected 0 messages, got %d", m.MessageCount())
	}
	if m.Init() == nil {
		t.Fatal("expected init to load history")
	}
}

func TestChatModelLoadsStoredHistory(t *testing.T) {
	svc := testServices()
	advisor := svc.Advisor.(*stubAdvisor)
	advisor.history = []domain.ConversationMessage{
		{Role: "user", Content: "Is gold moving?", CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
		{Role: "assistant", Content: "Gold is flat today.", CreatedAt: time.Date(2026, 10, 1, 9, 0, 5, 0, time.UTC)},
	}
	m := NewChatModel(svc)
	m.SetSize(120, 40)

	msg := m.loadHistoryCmd()()
	if advisor.conversationID != ConversationID {
		t.Fatalf("expected console conversation id, got %q", advisor.conversationID)
	}
	updated, _ := m.Update(msg)
	if updated.MessageCount() != 2 {
		t.Fatalf("expected 2 stored messages, got %d", updated.MessageCount())
	}
	view := updated.View()
	if !strings.Contains(view, "Gold is flat today.") || !strings.Contains(view, "You") {
		t.Fatalf("expected stored transcript in view:\n%s", view)
	}
}

func TestChatModelHistoryErrorShowsNotice(t *testing.T) {
	m := NewChatModel(testServices())
	m.SetSize(120, 40)

	updated, _ := m.Update(chatHistoryMsg{err: errors.New("redis down")})
	if updated.MessageCount() != 0 {
		t.Fatalf("expected empty transcript, got %d", updated.MessageCount())
	}
	if !strings.Contains(updated.View(), "History unavailable: redis down") {
		t.Fatalf("expected history notice:\n%s", updated.View())
	}
}

func TestChatModelHistoryDoesNotOverwriteNewMessages(t *testing.T) {
	m := NewChatModel(testServices())
	m.SetSize(120, 40)
	m.input.SetValue("first question")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	updated, _ := m.Update(chatHistoryMsg{messages: []domain.ConversationMessage{{Role: "user", Content: "old"}}})
	if updated.MessageCount() != 1 {
		t.Fatalf("expected the typed question to be kept, got %d messages", updated.MessageCount())
	}
}

func TestChatModelSendMessage(t *testing.T) {
	svc := testServices()
	advisor := svc.Advisor.(*stubAdvisor)
	m := NewChatModel(svc)
	m.SetSize(120, 40)

	m.input.SetValue("What about BTC?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !updated.IsWaiting() {
		t.Fatal("expected waiting after sending message")
	}
	if updated.MessageCount() != 1 {
		t.Fatalf("expected 1 message, got %d", updated.MessageCount())
	}
	if cmd == nil {
		t.Fatal("expected non-nil cmd for advisor call")
	}

	reply := updated.askAdvisorCmd("What about BTC?")()
	if got, ok := reply.(chatReplyMsg); !ok || got.reply != "test reply" {
		t.Fatalf("unexpected advisor reply msg: %#v", reply)
	}
	if advisor.conversationID != ConversationID {
		t.Fatalf("expected console conversation id, got %q", advisor.conversationID)
	}
}

func TestChatModelIgnoresKeysWhileWaiting(t *testing.T) {
	m := NewChatModel(testServices())
	m.SetSize(120, 40)
	m.input.SetValue("one")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.input.SetValue("two")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if updated.MessageCount() != 1 {
		t.Fatalf("expected second question to wait for the reply, got %d messages", updated.MessageCount())
	}
}

func TestChatModelReceiveReply(t *testing.T) {
	m := NewChatModel(testServices())
	m.SetSize(120, 40)
	m.waiting = true
	m.transcript = append(m.transcript, domain.ConversationMessage{Role: "user", Content: "test"})

	updated, _ := m.Update(chatReplyMsg{reply: "BTC looks bullish", at: time.Now()})
	if updated.IsWaiting() {
		t.Fatal("expected not waiting after receiving reply")
	}
	if updated.MessageCount() != 2 {
		t.Fatalf("expected 2 messages, got %d", updated.MessageCount())
	}
	if !strings.Contains(updated.View(), "BTC looks bullish") {
		t.Fatalf("expected reply in view:\n%s", updated.View())
	}
}

func TestChatModelClearConversation(t *testing.T) {
	svc := testServices()
	advisor := svc.Advisor.(*stubAdvisor)
	m := NewChatModel(svc)
	m.SetSize(120, 40)
	m.transcript = []domain.ConversationMessage{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd == nil {
		t.Fatal("expected a clear command")
	}
	msg := cmd()
	if advisor.resets != 1 {
		t.Fatalf("expected one reset, got %d", advisor.resets)
	}

	updated, _ := m.Update(msg)
	if updated.MessageCount() != 0 {
		t.Fatalf("expected empty transcript, got %d", updated.MessageCount())
	}
	if !strings.Contains(updated.View(), "Conversation cleared.") {
		t.Fatalf("expected cleared notice:\n%s", updated.View())
	}
}

func TestChatModelClearFailureKeepsTranscript(t *testing.T) {
	m := NewChatModel(testServices())
	m.SetSize(120, 40)
	m.transcript = []domain.ConversationMessage{{Role: "user", Content: "hi"}}

	updated, _ := m.Update(chatClearedMsg{err: errors.New("redis down")})
	if updated.MessageCount() != 1 {
		t.Fatalf("expected transcript kept, got %d", updated.MessageCount())
	}
	if !strings.Contains(updated.View(), "Could not clear conversation") {
		t.Fatalf("expected failure notice:\n%s", updated.View())
	}
}

func TestChatModelAdvisorDisabled(t *testing.T) {
	svc := testServices()
	svc.Advisor = nil
	m := NewChatModel(svc)
	m.SetSize(120, 40)

	if m.Init() != nil {
		t.Fatal("expected no history load without an advisor")
	}
	if view := m.View(); !strings.Contains(view, "Advisor not available.") {
		t.Fatalf("unexpected view without advisor:\n%s", view)
	}
	if msg := m.askAdvisorCmd("hi")(); msg.(chatReplyMsg).reply != "Advisor not available." {
		t.Fatalf("unexpected reply without advisor: %v", msg)
	}
}

func TestChatModelEmptyMessageIgnored(t *testing.T) {
	m := NewChatModel(testServices())
	m.SetSize(120, 40)
	m.input.SetValue("")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if updated.IsWaiting() {
		t.Fatal("expected not waiting for empty message")
	}
	if updated.MessageCount() != 0 {
		t.Fatalf("expected 0 messages, got %d", updated.MessageCount())
	}
}

func TestChatModelZeroSize(t *testing.T) {
	m := NewChatModel(testServices())
	m.SetSize(0, 0)
	if m.View() == "" {
		t.Fatal("expected a view at zero size")
	}
}
