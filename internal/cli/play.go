package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/render/term"
	"github.com/matzehuels/repostory/pkg/view"
)

// Rows used around the picture: header, info line and key help.
const playChromeRows = 3

// panStep is the keyboard pan distance in device pixels.
const panStep = 4.0

var (
	playStateStyle = lipgloss.NewStyle().Foreground(colorGreen)
	playHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	playTagStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

func (c *CLI) playCommand() *cobra.Command {
	var bundlePath string
	var autoplay bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Replay the history in the terminal",
		Long: `Replay the story in the terminal with the same controls as the document.

Keys:
  space    play / pause
  ← →      step one commit back / forward
  home end jump to the start / end
  + -      zoom in / out (mouse wheel works too)
  w a s d  pan (or drag with the mouse)
  r        reset
  q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New(errors.ErrCodeInvalidInput, "play needs an interactive terminal")
			}
			opts, err := c.pipelineOptions(cmd, generateFlags{})
			if err != nil {
				return err
			}
			b, l, err := c.loadStory(cmd.Context(), opts, bundlePath)
			if err != nil {
				return err
			}

			m := newPlayModel(view.New(b, l, opts.View), opts.Title)
			if autoplay {
				m.start = m.togglePlay()
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
				return fmt.Errorf("play: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "read an exported bundle instead of the repository")
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "start playing immediately")
	return cmd
}

type tickMsg time.Time

// playModel drives a view.Controller from bubbletea messages and paints it
// onto a terminal canvas.
type playModel struct {
	ctrl    *view.Controller
	canvas  *term.Canvas
	title   string
	cols    int
	rows    int
	ticking bool
	start   tea.Cmd // returned by Init
}

func newPlayModel(ctrl *view.Controller, title string) *playModel {
	m := &playModel{ctrl: ctrl, canvas: term.NewCanvas(), title: title}
	ctrl.Attach(m.canvas)
	return m
}

func (m *playModel) Init() tea.Cmd {
	return m.start
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tickMsg:
		m.ticking = false
		if m.ctrl.Tick() && m.ctrl.Playing() {
			return m, m.scheduleTick()
		}
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *playModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ", "p":
		return m.togglePlay()
	case "r":
		m.ctrl.Reset()
	case "left":
		m.ctrl.Scrub(m.ctrl.Visible() - 1)
	case "right":
		m.ctrl.Scrub(m.ctrl.Visible() + 1)
	case "home":
		m.ctrl.Scrub(0)
	case "end":
		m.ctrl.Scrub(m.ctrl.Total())
	case "+", "=":
		m.ctrl.Wheel(-1)
	case "-", "_":
		m.ctrl.Wheel(1)
	case "w", "up":
		m.ctrl.PanBy(0, -panStep)
	case "s", "down":
		m.ctrl.PanBy(0, panStep)
	case "a":
		m.ctrl.PanBy(-panStep, 0)
	case "d":
		m.ctrl.PanBy(panStep, 0)
	}
	return nil
}

func (m *playModel) handleMouse(msg tea.MouseMsg) {
	// The picture starts below the header line.
	x := float64(msg.X) * term.CellWidth
	y := float64(msg.Y-1) * term.CellHeight

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.ctrl.PointerDown(x, y)
	case msg.Action == tea.MouseActionMotion:
		m.ctrl.PointerMove(x, y)
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp()
	}
}

// togglePlay flips playback and makes sure exactly one tick is pending
// while playing.
func (m *playModel) togglePlay() tea.Cmd {
	if m.ctrl.TogglePlay() && !m.ticking {
		return m.scheduleTick()
	}
	return nil
}

func (m *playModel) scheduleTick() tea.Cmd {
	m.ticking = true
	return tea.Tick(m.ctrl.Options().TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) resize(width, height int) {
	m.cols = max(1, width)
	m.rows = max(1, height-playChromeRows)
	m.ctrl.Resize(float64(m.cols)*term.CellWidth, float64(m.rows)*term.CellHeight, 1)
}

func (m *playModel) View() string {
	var b strings.Builder

	state := ""
	if m.ctrl.Playing() {
		state = " " + playStateStyle.Render("▶")
	}
	fmt.Fprintf(&b, "%s %s%s\n",
		StyleTitle.Render(m.title),
		StyleDim.Render(fmt.Sprintf("(%d/%d)", m.ctrl.Visible(), m.ctrl.Total())),
		state)

	b.WriteString(m.canvas.String())
	b.WriteString("\n")
	b.WriteString(m.infoLine())
	b.WriteString("\n")
	b.WriteString(playHelpStyle.Render("space play · ←/→ step · +/- zoom · wasd pan · r reset · q quit"))
	return b.String()
}

// infoLine describes the newest visible commit.
func (m *playModel) infoLine() string {
	head, ok := m.ctrl.Head()
	if !ok {
		return StyleDim.Render("no commits visible")
	}
	parts := []string{
		StyleNumber.Render(head.ShortHash(7)),
		StyleValue.Render(head.Author),
		StyleDim.Render(head.When().UTC().Format("2006-01-02")),
		head.Subject,
	}
	line := strings.Join(parts, StyleDim.Render(" · "))
	if tags := m.ctrl.TagsOf(m.ctrl.Visible() - 1); len(tags) > 0 {
		line += " " + playTagStyle.Render("["+strings.Join(tags, ", ")+"]")
	}
	return line
}
