package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/airmon/co2mini/internal/protocol"
	"github.com/airmon/co2mini/internal/session"
)

// eventMsg wraps a session event for delivery into the Bubble Tea loop
type eventMsg struct {
	ev session.Event
}

// eventsClosedMsg signals that the session event channel was closed
type eventsClosedMsg struct{}

// waitForEvent returns a command that blocks on the next session event
func waitForEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

// WatchModel is the Bubble Tea model for the live readings dashboard.
// It consumes session events and renders the latest value of each
// quantity, a spinner while waiting for the device, and transient
// error notices for recoverable failures.
type WatchModel struct {
	events  <-chan session.Event
	spinner spinner.Model
	width   int

	connected bool
	co2       int
	hasCO2    bool
	temp      float64
	hasTemp   bool
	humidity  float64
	hasHum    bool

	lastErr  string
	quitting bool
}

// NewWatchModel creates a dashboard model fed by the given event channel
func NewWatchModel(events <-chan session.Event) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	return WatchModel{
		events:  events,
		spinner: sp,
		width:   GetTerminalWidth(),
	}
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < MinTerminalWidth {
			m.width = MinTerminalWidth
		}
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m = m.applyEvent(msg.ev)
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// applyEvent folds one session event into the model state
func (m WatchModel) applyEvent(ev session.Event) WatchModel {
	switch e := ev.(type) {
	case session.ConnectedEvent:
		m.connected = true
		m.lastErr = ""

	case session.DisconnectedEvent:
		m.connected = false

	case session.ReadingEvent:
		m.lastErr = ""
		switch e.Reading.Kind {
		case protocol.KindCO2:
			m.co2, m.hasCO2 = int(e.Reading.Value), true
		case protocol.KindTemperature:
			m.temp, m.hasTemp = e.Reading.Value, true
		case protocol.KindHumidity:
			m.humidity, m.hasHum = e.Reading.Value, true
		}

	case session.ErrorEvent:
		m.lastErr = e.Err.Error()
	}
	return m
}

// View implements tea.Model
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	lines = append(lines, TitleStyle.Render("CO2 MONITOR"))

	if m.connected {
		lines = append(lines, StatusStyle.Render("connected"))
	} else {
		lines = append(lines, StatusStyle.Render(m.spinner.View()+" waiting for device..."))
	}
	lines = append(lines, "")

	lines = append(lines, m.renderCO2())
	lines = append(lines, m.renderTemperature())
	lines = append(lines, m.renderHumidity())

	if m.lastErr != "" {
		lines = append(lines, "")
		lines = append(lines, ErrorStyle.Render(m.lastErr))
	}

	lines = append(lines, "")
	lines = append(lines, HelpStyle.Render("q: quit"))

	content := strings.Join(lines, "\n")
	return BorderStyle(m.width).Render(content) + "\n"
}

func (m WatchModel) renderCO2() string {
	label := LabelStyle.Render("CO2:")
	if !m.hasCO2 {
		return label + " " + PendingStyle.Render("waiting...")
	}
	return label + " " + CO2ValueStyle(m.co2).Render(fmt.Sprintf("%d ppm", m.co2))
}

func (m WatchModel) renderTemperature() string {
	label := LabelStyle.Render("Temperature:")
	if !m.hasTemp {
		return label + " " + PendingStyle.Render("waiting...")
	}
	return label + " " + ValueStyle.Render(fmt.Sprintf("%.2f °C", m.temp))
}

func (m WatchModel) renderHumidity() string {
	label := LabelStyle.Render("Humidity:")
	if !m.hasHum {
		return label + " " + PendingStyle.Render("waiting...")
	}
	return label + " " + ValueStyle.Render(fmt.Sprintf("%.1f %%", m.humidity))
}

// RunWatch runs the dashboard until the user quits or the event channel
// closes. It blocks; the caller owns session lifecycle around it.
func RunWatch(events <-chan session.Event) error {
	p := tea.NewProgram(NewWatchModel(events), tea.WithOutput(os.Stdout))
	_, err := p.Run()
	return err
}
