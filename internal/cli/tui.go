package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pagefit/pkg/layout"
)

// errPickCanceled is returned when the picker is closed without a choice.
var errPickCanceled = errors.New("anchor selection canceled")

var (
	pickSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 2)
	pickNormalStyle   = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 2)
)

var anchorNames = map[layout.Align][2]string{
	layout.AlignStart:  {"left", "top"},
	layout.AlignCenter: {"center", "center"},
	layout.AlignEnd:    {"right", "bottom"},
}

// describeAnchor returns a phrase like "top left" or "center".
func describeAnchor(a layout.Anchor) string {
	v, h := anchorNames[a.V][1], anchorNames[a.H][0]
	if v == h {
		return v
	}
	return v + " " + h
}

// anchorPicker is the bubbletea model behind place --pick: a 3x3 grid
// standing for the page, moved with the arrow keys.
type anchorPicker struct {
	input  string
	row    int
	col    int
	chosen *layout.Anchor
}

func newAnchorPicker(input string, initial layout.Anchor) anchorPicker {
	return anchorPicker{input: input, row: int(initial.V), col: int(initial.H)}
}

func (m anchorPicker) current() layout.Anchor {
	return layout.Anchor{H: layout.Align(m.col), V: layout.Align(m.row)}
}

func (m anchorPicker) Init() tea.Cmd {
	return nil
}

func (m anchorPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.row = max(m.row-1, 0)
	case "down", "j":
		m.row = min(m.row+1, 2)
	case "left", "h":
		m.col = max(m.col-1, 0)
	case "right", "l":
		m.col = min(m.col+1, 2)
	case "enter", " ":
		a := m.current()
		m.chosen = &a
		return m, tea.Quit
	}
	return m, nil
}

func (m anchorPicker) View() string {
	var b strings.Builder

	title := "Place drawing"
	if m.input != "" {
		title = "Place " + m.input
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  ⏎ select  q quit"))
	b.WriteString("\n\n")

	anchors := layout.Anchors()
	rows := make([][]string, 3)
	for r := range rows {
		rows[r] = make([]string, 3)
		for c := range rows[r] {
			rows[r][c] = anchors[r*3+c].String()
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == m.row && col == m.col {
				return pickSelectedStyle
			}
			return pickNormalStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleHighlight.Render(m.current().String()), StyleDim.Render(describeAnchor(m.current()))))
	return b.String()
}

// pickAnchor runs the picker on the terminal and returns the chosen anchor.
func pickAnchor(in io.Reader, w io.Writer, input string, initial layout.Anchor) (layout.Anchor, error) {
	p := tea.NewProgram(newAnchorPicker(input, initial), tea.WithInput(in), tea.WithOutput(w))
	final, err := p.Run()
	if err != nil {
		return layout.Anchor{}, fmt.Errorf("anchor picker: %w", err)
	}
	m := final.(anchorPicker)
	if m.chosen == nil {
		return layout.Anchor{}, errPickCanceled
	}
	return *m.chosen, nil
}
