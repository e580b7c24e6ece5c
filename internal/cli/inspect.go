package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depviz/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newInspectCmd creates the inspect command: build a graph and browse it
// interactively.
func newInspectCmd() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "inspect [package]",
		Short: "Build a dependency graph and browse it interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(&opts, args)
			if err != nil {
				return err
			}
			res, err := runBuild(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			model := newGraphBrowserModel(res)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	addBuildFlags(cmd, &opts)

	return cmd
}

// graphBrowserModel is the bubbletea model for browsing a built graph. The
// left pane lists packages in discovery order; the detail pane shows the
// selected package's dependencies and dependents.
type graphBrowserModel struct {
	Result *graph.Result
	Names  []string
	Cursor int
	Height int
	Offset int
}

// newGraphBrowserModel creates a browser over a build result.
func newGraphBrowserModel(res *graph.Result) graphBrowserModel {
	return graphBrowserModel{
		Result: res,
		Names:  res.Graph.Names(),
		Height: 15,
	}
}

func (m graphBrowserModel) Init() tea.Cmd {
	return nil
}

func (m graphBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Names)-1 {
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

func (m graphBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Dependency graph for %s", m.Result.Root)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Names) {
		end = len(m.Names)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		name := m.Names[i]
		n, _ := m.Result.Graph.Node(name)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		status := iconSuccess
		if n.Failed() {
			status = iconError
		}

		rows = append(rows, []string{
			cursor, name,
			fmt.Sprint(n.Level),
			status,
			fmt.Sprint(len(n.Deps)),
			fmt.Sprint(len(m.Result.Reverse.Dependents(name))),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Level", "OK", "Deps", "Dependents").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Names) {
				return lipgloss.NewStyle()
			}
			n, _ := m.Result.Graph.Node(m.Names[actualIdx])
			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				if n.Failed() {
					return base.Foreground(colorRed).Bold(true)
				}
				return base.Foreground(colorCyan).Bold(true)
			}
			if n.Failed() {
				return base.Foreground(colorRed)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))

	return b.String()
}

// detailView renders the dependency and dependent lists of the selected
// package.
func (m graphBrowserModel) detailView() string {
	if len(m.Names) == 0 {
		return listDimStyle.Render("  empty graph")
	}
	name := m.Names[m.Cursor]
	n, _ := m.Result.Graph.Node(name)

	var b strings.Builder
	b.WriteString(listSelectedStyle.Render("  " + name))
	b.WriteString("\n")

	if n.Failed() {
		b.WriteString(styleError.Render("  lookup failed: " + n.Reason))
		b.WriteString("\n")
	} else if n.Leaf() {
		b.WriteString(listDimStyle.Render("  no dependencies"))
		b.WriteString("\n")
	} else {
		b.WriteString(listDimStyle.Render("  depends on: "))
		b.WriteString(strings.Join(n.Deps.Names(), ", "))
		b.WriteString("\n")
	}

	if dependents := m.Result.Reverse.Dependents(name); len(dependents) > 0 {
		b.WriteString(listDimStyle.Render("  depended on by: "))
		b.WriteString(strings.Join(dependents, ", "))
		b.WriteString("\n")
	}

	return b.String()
}
