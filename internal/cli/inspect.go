package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/flowmap/flowmap/pkg/layout"
	"github.com/flowmap/flowmap/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for browsing computed geometry.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [diagram.json]",
		Short: "Browse the computed geometry interactively",
		Long: `Browse the computed geometry interactively.

The inspect command computes the layout and opens a terminal browser over
the placed nodes: position, size, rank, and ports of every node. Useful for
checking why a node ended up where it did without opening the rendered
output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runInspect computes the layout and opens the node browser.
func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Config.Apply(&opts)
	opts.Path = input
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	model := NewNodeListModel(input, result.Layout)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}

// NodeListModel is the bubbletea model for browsing placed nodes.
type NodeListModel struct {
	Title  string
	Nodes  []layout.Placed
	Edges  []layout.Routed
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel creates a node browser over a layout result.
func NewNodeListModel(title string, res *layout.Result) NodeListModel {
	return NodeListModel{
		Title:  title,
		Nodes:  res.Nodes,
		Edges:  res.Edges,
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout: " + m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rank := "—"
		if n.Rank >= 0 {
			rank = fmt.Sprintf("%d", n.Rank)
		}
		parent := n.ParentID
		if parent == "" {
			parent = "—"
		}

		rows = append(rows, []string{
			cursor,
			n.ID,
			n.Kind.String(),
			rank,
			fmt.Sprintf("(%.0f, %.0f)", n.X, n.Y),
			fmt.Sprintf("%.0f×%.0f", n.Width, n.Height),
			parent,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "Rank", "Position", "Size", "Parent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d edges", m.Cursor+1, len(m.Nodes), len(m.Edges))))

	return b.String()
}

// detailView shows the edges touching the selected node.
func (m NodeListModel) detailView() string {
	if len(m.Nodes) == 0 {
		return listDimStyle.Render("  no nodes")
	}
	id := m.Nodes[m.Cursor].ID

	var lines []string
	for _, e := range m.Edges {
		switch id {
		case e.Source:
			lines = append(lines, fmt.Sprintf("  %s %s %s (%s out %s)", e.ID, iconArrow, e.Target, e.Kind, e.SourcePort))
		case e.Target:
			lines = append(lines, fmt.Sprintf("  %s %s %s (%s in %s)", e.ID, iconArrow, id, e.Kind, e.TargetPort))
		}
	}
	if len(lines) == 0 {
		return listDimStyle.Render("  no edges")
	}
	return listDimStyle.Render(strings.Join(lines, "\n"))
}
