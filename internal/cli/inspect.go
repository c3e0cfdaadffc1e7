package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the interactive reference browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse resolved references interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, _, err := c.resolve(cmd.Context(), cmd, args[0], &flags)
			if err != nil {
				return err
			}
			if refs.Len() == 0 {
				newPrinter(cmd.OutOrStdout()).warning("No references in %s", args[0])
				return nil
			}
			p := tea.NewProgram(NewReferenceListModel(refs), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// =============================================================================
// ReferenceListModel - Interactive reference browser
// =============================================================================

// ReferenceListModel is the bubbletea model for browsing resolved references.
// Enter toggles a detail pane for the selected reference.
type ReferenceListModel struct {
	Refs        []*layout.Reference
	Depth       map[string]int
	Cursor      int
	Height      int
	Offset      int
	ShowDetails bool
}

// NewReferenceListModel creates a browser over refs in resolution order.
func NewReferenceListModel(refs *layout.Map) ReferenceListModel {
	list := refs.References()
	depth := make(map[string]int, len(list))
	for _, ref := range list {
		if ref.Parent != "" {
			depth[ref.Name] = depth[ref.Parent] + 1
		}
	}
	return ReferenceListModel{Refs: list, Depth: depth, Height: 15}
}

func (m ReferenceListModel) Init() tea.Cmd {
	return nil
}

func (m ReferenceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Refs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Refs) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		case "enter", " ":
			m.ShowDetails = !m.ShowDetails
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.ShowDetails {
			m.Height -= 8
		}
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ReferenceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("References"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Refs))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		ref := m.Refs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name := strings.Repeat("  ", m.Depth[ref.Name]) + ref.Name
		rows = append(rows, []string{
			cursor, name, referenceKind(ref),
			fmt.Sprintf("%s, %s", formatNum(ref.Position.X), formatNum(ref.Position.Y)),
			fmt.Sprintf("%s × %s", formatNum(ref.Dimensions.W), formatNum(ref.Dimensions.H)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Kind", "Position", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Refs))))

	if m.ShowDetails && m.Cursor < len(m.Refs) {
		b.WriteString("\n\n")
		b.WriteString(referenceDetails(m.Refs[m.Cursor]))
	}
	return b.String()
}

// referenceDetails renders every resolved property of ref as key-value
// lines.
func referenceDetails(ref *layout.Reference) string {
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(styleKey.Render(k) + " " + StyleValue.Render(v) + "\n")
	}

	line("name", ref.Name)
	if ref.Parent != "" {
		line("parent", ref.Parent)
	}
	line("display", ref.Display.String())
	if ref.Flex != layout.FlexNone {
		line("flex", ref.Flex.String())
	}
	line("position", ref.Position.String())
	line("dimensions", ref.Dimensions.String())
	if ref.Fill != "" {
		line("fill", ref.Fill)
	}
	if ref.Border != nil {
		line("border", fmt.Sprintf("%s %s", formatNum(ref.Border.Width), ref.Border.Color))
	}
	if ref.Padding != nil {
		p := ref.Padding
		line("padding", fmt.Sprintf("%s %s %s %s",
			formatNum(p.Top), formatNum(p.Right), formatNum(p.Bottom), formatNum(p.Left)))
	}
	if t := ref.Text; t != nil {
		line("text", fmt.Sprintf("%q", t.Content))
		style := t.StyleName
		if style == "" {
			style = "default"
		}
		line("text style", fmt.Sprintf("%s (%s %spx)", style, t.Style.Font, formatNum(t.Style.Size)))
		line("text box", fmt.Sprintf("%s at %s", t.Dimensions, t.Position))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
