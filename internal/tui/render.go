package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer formats provider answers, which are usually markdown.
type Renderer struct {
	md *glamour.TermRenderer
}

// NewRenderer returns a markdown renderer, or a plain one styled with
// AnswerStyle when markdown is disabled or the renderer cannot be built.
func NewRenderer(markdown bool, width int) *Renderer {
	if !markdown {
		return &Renderer{}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{md: r}
}

func (r *Renderer) Render(answer string) string {
	if r.md == nil {
		return AnswerStyle.Render(answer)
	}
	out, err := r.md.Render(answer)
	if err != nil {
		return AnswerStyle.Render(answer)
	}
	return strings.TrimRight(out, "\n")
}
