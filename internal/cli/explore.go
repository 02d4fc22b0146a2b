package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/scene"
	"github.com/matzehuels/ringmap/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command for interactive expand/collapse.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		configPath string
		gap        float64
	)

	cmd := &cobra.Command{
		Use:   "explore [scene.json]",
		Short: "Interactively expand and collapse the tree",
		Long: `Interactively expand and collapse the tree.

The explore command loads a scene and opens a terminal UI over its tree.
Expanding or collapsing a node recomputes the layout for the visible set,
so the effect of incremental visibility (angular reallocation, size
renormalization, compression) is observable live.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(args[0], configPath, gap)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "ring configuration TOML file")
	cmd.Flags().Float64Var(&gap, "gap", 0, "radial distance between rings (default 150)")

	return cmd
}

// runExplore builds the tree and hands control to the bubbletea model.
func (c *CLI) runExplore(input, configPath string, gap float64) error {
	s, err := scene.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	t, err := s.BuildTree()
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}
	cfg, err := loadRingConfig(configPath, gap)
	if err != nil {
		return fmt.Errorf("load ring config: %w", err)
	}

	model := newExploreModel(t, cfg, s.ExpandedSet())
	_, err = tea.NewProgram(model).Run()
	return err
}

// =============================================================================
// exploreModel - Interactive tree navigation
// =============================================================================

// exploreRow is one visible node in the flattened tree listing.
type exploreRow struct {
	id       string
	ring     int
	children int
	expanded bool
}

// exploreModel is the bubbletea model for interactive tree exploration.
type exploreModel struct {
	tree     *tree.Tree
	cfg      ring.Config
	engine   *radial.Engine
	expanded map[string]bool

	rows   []exploreRow
	result *radial.Result
	err    error

	cursor int
	height int
	offset int
}

func newExploreModel(t *tree.Tree, cfg ring.Config, expanded map[string]bool) exploreModel {
	if expanded == nil {
		// Start with the roots expanded one level so there is something
		// to collapse.
		expanded = make(map[string]bool)
		for _, root := range t.Roots() {
			expanded[root] = true
		}
	}
	m := exploreModel{
		tree:     t,
		cfg:      cfg,
		engine:   radial.New(),
		expanded: expanded,
		height:   20,
	}
	m.relayout()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", " ":
			if m.cursor < len(m.rows) {
				row := m.rows[m.cursor]
				if row.children > 0 {
					m.expanded[row.id] = !m.expanded[row.id]
					m.relayout()
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// relayout recomputes the layout for the current expanded set and rebuilds
// the flattened row listing in depth-first order.
func (m *exploreModel) relayout() {
	m.result, m.err = m.engine.Layout(m.tree, m.cfg, radial.Options{
		Expanded: m.expanded,
	})

	m.rows = m.rows[:0]
	var walk func(id string)
	walk = func(id string) {
		n, ok := m.tree.Node(id)
		if !ok {
			return
		}
		kids := m.tree.Children(id)
		m.rows = append(m.rows, exploreRow{
			id:       id,
			ring:     n.Ring,
			children: len(kids),
			expanded: m.expanded[id],
		})
		if !m.expanded[id] {
			return
		}
		for _, c := range kids {
			walk(c)
		}
	}
	for _, root := range m.tree.Roots() {
		walk(root)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎/space expand/collapse  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render("layout error: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := "  "
		switch {
		case row.children > 0 && row.expanded:
			marker = "▾ "
		case row.children > 0:
			marker = "▸ "
		}

		indent := strings.Repeat("  ", row.ring)
		label := fmt.Sprintf("%s%s%s%s", cursor, indent, marker, row.id)
		if p, ok := m.result.Placements[row.id]; ok {
			label += listDimStyle.Render(fmt.Sprintf("  (%.0f, %.0f)", p.X, p.Y))
		}

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(label))
		} else {
			b.WriteString(listNormalStyle.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("  [%d/%d]  %d visible", m.cursor+1, len(m.rows), len(m.result.Placements))
	if n := len(m.result.Report.Compressions); n > 0 {
		status += StyleWarning.Render(fmt.Sprintf("  %d compressed", n))
	}
	if n := len(m.result.Report.Violations); n > 0 {
		status += StyleWarning.Render(fmt.Sprintf("  %d overlaps", n))
	}
	b.WriteString(listDimStyle.Render(status))

	return b.String()
}
