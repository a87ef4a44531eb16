// Package render formats session state for the terminal. It is strictly
// read-only presentation: everything here takes snapshots produced by the
// session and returns styled strings.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studybot-client/internal/domain"
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	questionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	optionStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true).
			MarginTop(1)

	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	wrongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

const pendingPlaceholder = "Thinking..."

// Exchange renders one user/assistant pair.
func Exchange(e domain.Exchange) string {
	var b strings.Builder
	b.WriteString(userStyle.Render("You: ") + e.User + "\n")
	switch e.Reply.State {
	case domain.ReplyPending:
		b.WriteString(pendingStyle.Render(pendingPlaceholder))
	case domain.ReplyFailed:
		b.WriteString(failedStyle.Render(e.Reply.Text))
	default:
		b.WriteString(assistantStyle.Render("Bot: ") + e.Reply.Text)
	}
	return b.String()
}

// TranscriptView renders the whole transcript, oldest first.
func TranscriptView(exchanges []domain.Exchange) string {
	if len(exchanges) == 0 {
		return noticeStyle.Render("No messages yet. Type a question to begin.")
	}
	parts := make([]string, 0, len(exchanges))
	for _, e := range exchanges {
		parts = append(parts, Exchange(e))
	}
	return strings.Join(parts, "\n\n")
}

// Question renders one quiz question with numbered options; answers are
// submitted by number.
func Question(q domain.Question, index, total int) string {
	var b strings.Builder
	b.WriteString(questionHeaderStyle.Render(fmt.Sprintf("Question %d of %d", index+1, total)))
	b.WriteString("\n" + q.Text + "\n")
	for i, opt := range q.Options {
		b.WriteString(optionStyle.Render(fmt.Sprintf("%d) %s", i+1, opt)) + "\n")
	}
	return b.String()
}

// Result renders the scored summary of a completed quiz.
func Result(r *domain.QuizResult) string {
	var b strings.Builder
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score: %d / %d", r.Score, r.Total)))
	b.WriteString("\n")
	for i, item := range r.Summary {
		b.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, item.Question))
		if item.Correct {
			b.WriteString(optionStyle.Render(correctStyle.Render("✓ "+item.UserAnswer)) + "\n")
		} else {
			b.WriteString(optionStyle.Render(wrongStyle.Render("✗ Your answer: "+item.UserAnswer)) + "\n")
			b.WriteString(optionStyle.Render(correctStyle.Render("Correct answer: "+item.Answer)) + "\n")
		}
	}
	return b.String()
}

// Notice renders a transient status line, e.g. an upload outcome.
func Notice(text string) string {
	return noticeStyle.Render(text)
}
