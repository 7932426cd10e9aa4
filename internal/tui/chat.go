package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pulse-node/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// rows taken by the header, two rules, the input line and the help line
	chatChromeRows = 6
	// left margin of wrapped message bodies
	chatIndent = 4
)

type chatReplyMsg struct {
	reply string
	at    time.Time
}

type chatHistoryMsg struct {
	messages []domain.ConversationMessage
	err      error
}

type chatClearedMsg struct{ err error }

// ChatModel is the advisor tab. The transcript is owned by the advisor's
// conversation store, so it is loaded on start and cleared through it.
type ChatModel struct {
	advisor    AdvisorQuerier
	transcript []domain.ConversationMessage
	waiting    bool
	notice     string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

func NewChatModel(svc Services) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask MarketMind about the markets..."
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	m := ChatModel{
		advisor:  svc.Advisor,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(10, 3),
	}
	m.refresh()
	return m
}

func (m ChatModel) Init() tea.Cmd {
	if m.advisor == nil {
		return nil
	}
	return tea.Batch(textinput.Blink, m.loadHistoryCmd())
}

func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatHistoryMsg:
		switch {
		case msg.err != nil:
			m.notice = "History unavailable: " + msg.err.Error()
		case len(m.transcript) == 0:
			m.transcript = msg.messages
		}
		m.refresh()
		return m, nil

	case chatReplyMsg:
		m.transcript = append(m.transcript, domain.ConversationMessage{
			Role: roleAssistant, Content: msg.reply, CreatedAt: msg.at,
		})
		m.waiting = false
		m.refresh()
		return m, nil

	case chatClearedMsg:
		if msg.err != nil {
			m.notice = "Could not clear conversation: " + msg.err.Error()
		} else {
			m.transcript = nil
			m.notice = "Conversation cleared."
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.advisor == nil || m.waiting {
			break
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.send()
		case tea.KeyCtrlL:
			m.notice = ""
			return m, m.clearCmd()
		}
	}

	var cmds []tea.Cmd
	if !m.waiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m ChatModel) send() (ChatModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.transcript = append(m.transcript, domain.ConversationMessage{
		Role: roleUser, Content: text, CreatedAt: time.Now(),
	})
	m.input.SetValue("")
	m.waiting = true
	m.notice = ""
	m.refresh()
	return m, tea.Batch(m.askAdvisorCmd(text), m.spinner.Tick)
}

func (m ChatModel) View() string {
	header := HeaderStyle.Render("  Chat with MarketMind")
	if m.advisor == nil {
		return lipgloss.JoinVertical(lipgloss.Left, "", header, "", SubtextStyle.Render("  Advisor not available."))
	}

	prompt := "  " + m.input.View()
	if m.waiting {
		prompt = fmt.Sprintf("  %s MarketMind is thinking...", m.spinner.View())
	}
	help := SubtextStyle.Render("  enter send · ctrl+l clear conversation · tab switch")
	if m.notice != "" {
		help = SubtextStyle.Render("  "+m.notice) + "\n" + help
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		SubtextStyle.Render(rule(m.width-2)),
		m.viewport.View(),
		SubtextStyle.Render(rule(m.width-2)),
		prompt,
		help,
	)
}

func (m *ChatModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = max(w-6, 10)
	m.viewport.Width = max(w-2, 10)
	m.viewport.Height = max(h-chatChromeRows, 3)
	m.refresh()
}

func (m *ChatModel) Focus() { m.input.Focus() }

func (m *ChatModel) Blur() { m.input.Blur() }

// IsWaiting reports whether a question is awaiting its reply.
func (m ChatModel) IsWaiting() bool { return m.waiting }

// MessageCount is the number of transcript entries, both roles.
func (m ChatModel) MessageCount() int { return len(m.transcript) }

func (m *ChatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m ChatModel) renderTranscript() string {
	if len(m.transcript) == 0 {
		return SubtextStyle.Render("  Start a conversation by typing a question below.")
	}

	body := lipgloss.NewStyle().PaddingLeft(chatIndent).Width(max(m.viewport.Width-1, chatIndent+10))
	var b strings.Builder
	for _, msg := range m.transcript {
		label := AssistantMsgStyle.Render("MarketMind")
		if msg.Role == roleUser {
			label = UserMsgStyle.Render("You")
		}
		b.WriteString("  " + label)
		if !msg.CreatedAt.IsZero() {
			b.WriteString(SubtextStyle.Render("  " + msg.CreatedAt.Local().Format("Jan 2 15:04")))
		}
		b.WriteString("\n")
		b.WriteString(body.Render(msg.Content))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m ChatModel) loadHistoryCmd() tea.Cmd {
	advisor := m.advisor
	return func() tea.Msg {
		msgs, err := advisor.History(context.Background(), ConversationID)
		return chatHistoryMsg{messages: msgs, err: err}
	}
}

// askAdvisorCmd relies on the advisor turning failures into a reply text.
func (m ChatModel) askAdvisorCmd(question string) tea.Cmd {
	advisor := m.advisor
	return func() tea.Msg {
		if advisor == nil {
			return chatReplyMsg{reply: "Advisor not available.", at: time.Now()}
		}
		return chatReplyMsg{reply: advisor.Chat(context.Background(), ConversationID, question), at: time.Now()}
	}
}

func (m ChatModel) clearCmd() tea.Cmd {
	advisor := m.advisor
	return func() tea.Msg {
		return chatClearedMsg{err: advisor.Reset(context.Background(), ConversationID)}
	}
}
