package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/engine"
)

var previewCatalog string

// previewCmd runs the sequencer in the terminal
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Watch a section's sequence in the terminal",
	Long: `Run the section sequencer against the real clock and draw it in the terminal.

Keys:
  1-6    hover an item (press again to leave)
  space  pause / resume
  q      quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadCatalogs(catalogFlag)
		if err != nil {
			return err
		}
		c, err := set.Get(previewCatalog)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(newPreview(c, engine.DefaultRules(), time.Now())).Run()
		return err
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewCatalog, "catalog", "skills", "catalog name")
}

const previewFrame = 50 * time.Millisecond

type frameMsg time.Time

type previewModel struct {
	catalog catalog.Catalog
	ids     []string
	state   engine.State
	hover   engine.Hover
	last    time.Time
	err     error
}

func newPreview(c catalog.Catalog, rules engine.Rules, now time.Time) previewModel {
	s := engine.NewState(len(c.Items), rules)
	// The terminal is always "in view".
	_, s, _ = engine.Apply(s, engine.Command{Type: engine.CmdReveal})
	return previewModel{catalog: c, ids: c.IDs(), state: s, last: now}
}

func nextFrame() tea.Cmd {
	return tea.Tick(previewFrame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m previewModel) Init() tea.Cmd { return nextFrame() }

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		if d := now.Sub(m.last); d > 0 {
			_, m.state, m.err = engine.Apply(m.state, engine.Command{Type: engine.CmdTick, Delta: d})
		}
		m.last = now
		return m, nextFrame()

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			cmd := engine.CmdPause
			if m.state.Paused {
				cmd = engine.CmdResume
			}
			_, m.state, m.err = engine.Apply(m.state, engine.Command{Type: cmd})
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				i := int(key[0] - '1')
				if i < len(m.ids) {
					if m.hover.ItemID == m.ids[i] {
						m.hover = engine.Hover{}
					} else {
						m.hover = engine.Hover{ItemID: m.ids[i]}
					}
				}
			}
		}
	}
	return m, nil
}

var (
	pillStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	subStyle    = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

func (m previewModel) View() string {
	d := engine.Resolve(m.state, m.hover, m.ids)

	pills := make([]string, len(m.catalog.Items))
	for i, it := range m.catalog.Items {
		color := lipgloss.Color(it.Color)
		style := pillStyle.BorderForeground(lipgloss.Color("240"))
		if i == d.Index {
			style = pillStyle.BorderForeground(color).Foreground(color).Bold(true)
		}
		pills[i] = style.Render(fmt.Sprintf("%d %s", i+1, it.Label))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, pills...))
	b.WriteString("\n")

	if d.Index != engine.NoIndex {
		it := m.catalog.Items[d.Index]
		b.WriteString(progressBar(d.Progress, 30, lipgloss.Color(it.Color)))
		b.WriteString("\n")
		if d.ShowSubItems {
			subs := make([]string, len(it.SubItems))
			for i, s := range it.SubItems {
				subs[i] = subStyle.Render(s)
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, subs...))
		}
	}
	b.WriteString("\n\n")

	status := fmt.Sprintf("%s  item %d  cycles %d", m.state.Phase, m.state.ActiveIndex+1, m.state.Cycles)
	if m.state.Paused {
		status += "  paused"
	}
	if d.Hovered {
		status += "  hover " + m.hover.ItemID
	}
	if m.err != nil {
		status += "  error: " + m.err.Error()
	}
	b.WriteString(statusStyle.Render(status + "  (1-6 hover, space pause, q quit)"))
	return b.String()
}

func progressBar(p float64, width int, color lipgloss.Color) string {
	filled := int(p * float64(width))
	if filled > width {
		filled = width
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled))
	return bar + statusStyle.Render(strings.Repeat("─", width-filled))
}
