package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rowgraph/pkg/filter"
	"github.com/matzehuels/rowgraph/pkg/graph"
	"github.com/matzehuels/rowgraph/pkg/materialize"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
)

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var filterPath string

	cmd := &cobra.Command{
		Use:   "browse [mapping.json] [data.json]",
		Short: "Explore a materialized graph interactively",
		Long: `Explore a materialized graph interactively.

Press enter on a node to narrow the graph to it: the node becomes the
selection and the mapping is materialized again. Backspace clears the
selection.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], args[1], filterPath)
		},
	}

	cmd.Flags().StringVar(&filterPath, "filter", "", "initial selection document")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, mappingPath, dataPath, filterPath string) error {
	opts, err := c.loadInputs(mappingPath, dataPath, filterPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	load := func(sel *filter.Selection) (*materialize.Result, error) {
		o := opts
		o.Selection = sel
		return runner.Materialize(ctx, o)
	}

	res, err := load(opts.Selection)
	if err != nil {
		return fmt.Errorf("materialize: %w", err)
	}

	p := tea.NewProgram(NewBrowseModel(res, opts.Selection, load), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// BrowseModel - Interactive graph exploration
// =============================================================================

// browseRow is one line of the flattened containment tree.
type browseRow struct {
	node  *graph.Node
	depth int
}

// loadFunc materializes the graph for a selection; nil means unfiltered.
type loadFunc func(sel *filter.Selection) (*materialize.Result, error)

// loadedMsg carries the result of a re-materialization.
type loadedMsg struct {
	res *materialize.Result
	sel *filter.Selection
	err error
}

// BrowseModel is the bubbletea model for graph exploration.
type BrowseModel struct {
	Rows      []browseRow
	Result    *materialize.Result
	Selection *filter.Selection
	Cursor    int
	Height    int
	Offset    int
	Err       error

	load loadFunc
}

// NewBrowseModel creates a browse model showing res.
func NewBrowseModel(res *materialize.Result, sel *filter.Selection, load loadFunc) BrowseModel {
	m := BrowseModel{Height: 15, Selection: sel, load: load}
	m.setResult(res)
	return m
}

func (m *BrowseModel) setResult(res *materialize.Result) {
	m.Result = res
	m.Rows = nil
	for _, root := range res.Forest {
		depths := map[*graph.Node]int{}
		root.Walk(func(n, parent *graph.Node) {
			if parent != nil {
				depths[n] = depths[parent] + 1
			}
			m.Rows = append(m.Rows, browseRow{node: n, depth: depths[n]})
		})
	}
	m.Cursor, m.Offset = 0, 0
}

func (m BrowseModel) reload(sel *filter.Selection) tea.Cmd {
	load := m.load
	return func() tea.Msg {
		res, err := load(sel)
		return loadedMsg{res: res, sel: sel, err: err}
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, nil
			}
			return m, m.reload(filter.FromNodes(m.Rows[m.Cursor].node))
		case "backspace":
			if m.Selection == nil {
				return m, nil
			}
			return m, m.reload(nil)
		}
	case loadedMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Selection = msg.sel
		m.setResult(msg.res)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ focus  ⌫ clear  q quit"))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(styleIconError.Render("✗") + " " + m.Err.Error())
		b.WriteString("\n\n")
	}

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no nodes"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := strings.Repeat("  ", r.depth) + r.node.Data.Label
		rows = append(rows, []string{cursor, label, r.node.Data.Category, r.node.Data.IRI})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Node", "Category", "IRI").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m BrowseModel) status() string {
	parts := []string{
		fmt.Sprintf("%d nodes", m.Result.NodeCount()),
		fmt.Sprintf("%d edges", len(m.Result.Edges)),
		fmt.Sprintf("%d overlays", len(m.Result.Overlays)),
	}
	if m.Selection.Active() {
		parts = append(parts, StyleHighlight.Render(fmt.Sprintf("filtered to %d categories", len(m.Selection.FilterObject))))
	}
	return listDimStyle.Render("  " + strings.Join(parts, " · "))
}
