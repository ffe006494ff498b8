package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/redraftapp/redraft/internal/correction"
	"github.com/redraftapp/redraft/internal/highlight"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	plainStyle = lipgloss.NewStyle()

	appliedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	revertedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Strikethrough(true)

	selectedStyle = lipgloss.NewStyle().
			Underline(true).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	indicatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)
)

// indicatorLabel formats the suggestion-count indicator, capping the
// displayed number ("9+") the way badge UIs do.
func indicatorLabel(visible bool, count, limit int) string {
	if !visible || count <= 0 {
		return ""
	}
	if limit > 0 && count > limit {
		return fmt.Sprintf("● %d+ issues", limit)
	}
	if count == 1 {
		return "● 1 issue"
	}
	return fmt.Sprintf("● %d issues", count)
}

// renderSegments styles the highlight segments: applied spans green,
// reverted spans red strikethrough, the selected span underlined.
func renderSegments(set *correction.Set, selected int) string {
	var b strings.Builder
	for _, seg := range highlight.Render(set) {
		style := plainStyle
		if seg.IsCorrection() {
			r, ok := set.Record(seg.RecordID)
			if ok && r.State == correction.StateReverted {
				style = revertedStyle
			} else {
				style = appliedStyle
			}
			if seg.RecordID == selected {
				style = style.Inherit(selectedStyle)
			}
		}
		b.WriteString(style.Render(seg.Text))
	}
	return b.String()
}

// renderDiff shows character-level differences between the user's input
// and the composed output.
func renderDiff(original, composed string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, composed, false)

	var styled strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			styled.WriteString(revertedStyle.Render(diff.Text))
		case diffmatchpatch.DiffInsert:
			styled.WriteString(appliedStyle.Render(diff.Text))
		case diffmatchpatch.DiffEqual:
			styled.WriteString(statusStyle.Render(diff.Text))
		}
	}
	return styled.String()
}

func (m Model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("redraft"))
	b.WriteString("\n\n")

	b.WriteString(statusStyle.Render("Input"))
	b.WriteString("\n")
	b.WriteString(m.inputEditor.View())
	b.WriteString("\n\n")

	switch {
	case m.isLoading:
		b.WriteString(statusStyle.Render("[●] Checking..."))
		b.WriteString("\n")
	case m.check != nil:
		b.WriteString(statusStyle.Render("Corrections"))
		b.WriteString("\n")
		b.WriteString(renderSegments(m.check.Set, m.selected))
		b.WriteString("\n")
		if m.showDiff && m.inputText != "" {
			b.WriteString("\n")
			b.WriteString(statusStyle.Render("Diff"))
			b.WriteString("\n")
			b.WriteString(renderDiff(m.inputText, m.composed))
			b.WriteString("\n")
		}
		if m.check.Language != "" {
			b.WriteString(statusStyle.Render("Language: " + m.check.Language))
			b.WriteString("\n")
		}
		for _, note := range m.check.Notes {
			b.WriteString(statusStyle.Render("· " + note))
			b.WriteString("\n")
		}
	}

	if m.isTranslating {
		b.WriteString(statusStyle.Render("[●] Translating..."))
		b.WriteString("\n")
	} else if m.translated != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("Translation"))
		b.WriteString("\n")
		b.WriteString(m.translated)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errText))
		b.WriteString("\n")
	}

	statusLine := m.status
	if label := indicatorLabel(m.indicatorVisible, m.indicatorCount, m.config.IndicatorCap); label != "" {
		statusLine = indicatorStyle.Render(label) + "  " + statusLine
	}
	b.WriteString(statusStyle.Render(statusLine))

	return b.String()
}

func (m Model) helpView() string {
	help := `redraft help

  v        paste clipboard and check grammar
  e        edit input text (esc to finish)
  g        check current input
  t        translate input
  ←/→      select a correction span
  space    toggle selected span between suggestion and original
  c        copy composed text to clipboard
  d        toggle diff view
  ?        toggle this help
  q        quit

While editing, the issue indicator in the status bar updates after a
pause in typing.`
	return titleStyle.Render("redraft") + "\n\n" + help
}
