// Package tui is the interactive terminal player.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/config"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/player"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type snapshotMsg player.Snapshot
type doneMsg models.RunSummary
type closedMsg struct{}

// Bridge carries engine callbacks into the bubbletea loop. Snapshots are dropped
// when the loop falls behind; the terminal message never is.
type Bridge struct {
	updates chan tea.Msg
	final   chan tea.Msg
}

func NewBridge() *Bridge {
	return &Bridge{
		updates: make(chan tea.Msg, 16),
		final:   make(chan tea.Msg, 1),
	}
}

// Options returns the engine callbacks that feed the bridge.
func (b *Bridge) Options() []player.Option {
	return []player.Option{
		player.OnChange(func(s player.Snapshot) {
			select {
			case b.updates <- snapshotMsg(s):
			default:
			}
		}),
		player.OnComplete(func(s models.RunSummary) {
			select {
			case b.final <- doneMsg(s):
			default:
			}
		}),
		player.OnClose(func() {
			select {
			case b.final <- closedMsg{}:
			default:
			}
		}),
	}
}

func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		// Deliver pending snapshots before the final message.
		select {
		case msg := <-b.updates:
			return msg
		default:
		}
		select {
		case msg := <-b.updates:
			return msg
		case msg := <-b.final:
			return msg
		}
	}
}

// Model plays one exercise.
type Model struct {
	hub      models.Hub
	exercise models.Exercise
	settings config.Settings

	eng    *player.Engine
	taps   *player.TapDecoder
	bridge *Bridge

	snap     player.Snapshot
	bar      progress.Model
	help     help.Model
	showHelp bool
	width    int

	summary *models.RunSummary
	aborted bool
}

// NewPlayer builds the model around an engine that was created with
// bridge.Options().
func NewPlayer(hub models.Hub, exercise models.Exercise, eng *player.Engine, bridge *Bridge, settings config.Settings) Model {
	bar := progress.New(progress.WithGradient("#F9C6D3", "#F48FB1"), progress.WithoutPercentage())
	bar.Width = 48

	return Model{
		hub:      hub,
		exercise: exercise,
		settings: settings,
		eng:      eng,
		taps:     player.NewTapDecoder(eng, settings.FastGesturesEnabled),
		bridge:   bridge,
		snap:     eng.Snapshot(),
		bar:      bar,
		help:     help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	eng := m.eng
	return tea.Batch(m.bridge.wait(), func() tea.Msg {
		eng.Start()
		return nil
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(min(msg.Width-8, 56), 10)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			if m.eng.Snapshot().Mode.Terminal() {
				return m, tea.Quit
			}
			m.eng.Close()
		case key.Matches(msg, Keys.Speed):
			m.eng.CycleSpeed()
		case key.Matches(msg, Keys.Tap):
			m.taps.Press()
		case key.Matches(msg, Keys.Hold):
			m.taps.Hold(player.LongPressThreshold)
		case key.Matches(msg, Keys.Help):
			m.showHelp = !m.showHelp
		}
		return m, nil

	case snapshotMsg:
		m.snap = player.Snapshot(msg)
		return m, m.bridge.wait()

	case doneMsg:
		s := models.RunSummary(msg)
		m.summary = &s
		m.snap = m.eng.Snapshot()
		return m, tea.Quit

	case closedMsg:
		m.aborted = true
		m.snap = m.eng.Snapshot()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s %s", m.hub.Icon, m.hub.Name)))
	b.WriteString("\n")
	b.WriteString(TitleStyle.Render(m.exercise.Name))
	if m.exercise.Credit != "" {
		b.WriteString("  " + CreditStyle.Render(m.exercise.Credit))
	}
	b.WriteString("\n")
	if m.settings.ShowBackgroundPhotos && m.hub.Photo != "" {
		b.WriteString(PhotoStyle.Render("📷 "+m.hub.Photo) + "\n")
	}
	b.WriteString("\n")

	switch m.snap.Mode {
	case player.ModeIntervalGap:
		next := ""
		if m.snap.Next != nil {
			next = m.snap.Next.Text
		}
		b.WriteString(IntervalStyle.Render("Breathe...\n\n" + NextStyle.Render("Next: "+next)))
	case player.ModeCompleted:
		b.WriteString(StepStyle.Render(m.finishedText()))
	case player.ModeAborted:
		b.WriteString(StepStyle.Render("Closed."))
	default:
		b.WriteString(StepStyle.Render(m.snap.Step.Text))
	}
	b.WriteString("\n\n")

	if !m.snap.Mode.Terminal() {
		b.WriteString(CountdownStyle.Render(fmt.Sprintf("%ds", m.snap.Remaining)))
		b.WriteString("  " + NextStyle.Render(m.speedLabel()))
		b.WriteString("\n")
	}
	b.WriteString(m.bar.ViewAs(m.fraction()))
	b.WriteString(NextStyle.Render(fmt.Sprintf("  %d/%d", m.stepNumber(), m.snap.TotalSteps)))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.help.FullHelpView(Keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(Keys.ShortHelp()))
	}
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) finishedText() string {
	text := "Well done."
	if m.summary != nil && !m.summary.Completed {
		text = "Nothing to play here."
	}
	if m.settings.ShowBlossoms {
		text = BlossomStyle.Render("🌸 ") + text + BlossomStyle.Render(" 🌸")
	}
	return text
}

func (m Model) speedLabel() string {
	if m.snap.Accelerated {
		return "accelerated"
	}
	return m.snap.Speed.String()
}

func (m Model) stepNumber() int {
	if m.snap.TotalSteps == 0 {
		return 0
	}
	if m.snap.Mode == player.ModeCompleted {
		return m.snap.TotalSteps
	}
	return m.snap.StepIndex + 1
}

func (m Model) fraction() float64 {
	if m.snap.TotalSteps == 0 {
		return 1
	}
	return float64(m.stepNumber()) / float64(m.snap.TotalSteps)
}

// Summary reports how the run ended: a summary if it finished, aborted if closed.
func (m Model) Summary() (*models.RunSummary, bool) {
	return m.summary, m.aborted
}

// Run plays the model until the engine finishes or is closed.
func Run(ctx context.Context, m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return m, fmt.Errorf("run player: %w", err)
	}
	return final.(Model), nil
}
