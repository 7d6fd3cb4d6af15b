package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgrid/pkg/layout"
	"github.com/matzehuels/flowgrid/pkg/parser"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// previewCommand creates the preview command: an interactive terminal view
// of a rendered diagram with live display toggles.
func (c *CLI) previewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Preview a diagram interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			m := newPreviewModel(args[0], source, c.Config)
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}
	return cmd
}

// previewModel is the bubbletea model for the preview command.
type previewModel struct {
	path   string
	source string
	cfg    Config

	ascii  bool
	coords bool

	rendered string
	err      error
}

func newPreviewModel(path, source string, cfg Config) previewModel {
	m := previewModel{path: path, source: source, cfg: cfg}
	if cfg.ASCII != nil {
		m.ascii = *cfg.ASCII
	}
	if cfg.Coords != nil {
		m.coords = *cfg.Coords
	}
	m.render()
	return m
}

// render recomputes the diagram with the current toggles. Preview skips
// the cache: toggles should react instantly and never write artifacts.
func (m *previewModel) render() {
	m.rendered, m.err = "", nil

	g, err := parser.Parse(m.source)
	if err != nil {
		m.err = err
		return
	}

	cfg := layout.Config{
		PaddingX:      resolvePadding(m.cfg.PaddingX, g.PaddingX, pipeline.DefaultPaddingX),
		PaddingY:      resolvePadding(m.cfg.PaddingY, g.PaddingY, pipeline.DefaultPaddingY),
		BorderPadding: resolvePadding(m.cfg.BorderPadding, -1, pipeline.DefaultBorderPadding),
		ASCIIOnly:     m.ascii,
		ShowCoords:    m.coords,
	}
	eng, err := layout.New(cfg)
	if err != nil {
		m.err = err
		return
	}
	m.rendered, m.err = eng.Render(g)
}

func resolvePadding(fromConfig *int, directive, fallback int) int {
	if fromConfig != nil {
		return *fromConfig
	}
	if directive >= 0 {
		return directive
	}
	return fallback
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a":
			m.ascii = !m.ascii
			m.render()
		case "c":
			m.coords = !m.coords
			m.render()
		case "r":
			if source, err := readSource(m.path); err == nil {
				m.source = source
			}
			m.render()
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.path))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf(
		"a ascii:%s  c coords:%s  r reload  q quit",
		onOff(m.ascii), onOff(m.coords))))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleError.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.rendered)
	b.WriteString("\n")
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
