// Package tui implements the admin and client form applications as
// bubbletea models.
package tui

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mosaic-theme/internal/render"
	"mosaic-theme/internal/theme"
)

const (
	fieldWidth = 32
	helpText   = "tab/shift+tab: move • enter: next/submit • esc: quit"
)

// Screen identifies the active view.
type Screen int

const (
	ScreenForm Screen = iota
	ScreenSummary
)

// Field describes one labelled text input.
type Field struct {
	Label       string
	Placeholder string
	CharLimit   int
}

var appFields = map[theme.App][]Field{
	theme.AppAdmin: {
		{Label: "Username", Placeholder: "jdoe", CharLimit: 32},
		{Label: "Email", Placeholder: "jdoe@example.com", CharLimit: 128},
		{Label: "Role", Placeholder: "editor", CharLimit: 32},
	},
	theme.AppClient: {
		{Label: "Full name", Placeholder: "Jane Doe", CharLimit: 64},
		{Label: "Email", Placeholder: "jane@example.com", CharLimit: 128},
		{Label: "Company", Placeholder: "Acme Inc.", CharLimit: 64},
		{Label: "Phone", Placeholder: "+1 555 0100", CharLimit: 24},
	},
}

var appTitles = map[theme.App]string{
	theme.AppAdmin:  "ADMIN CONSOLE",
	theme.AppClient: "CLIENT PORTAL",
}

// FieldsFor returns a copy of the fields an app renders.
func FieldsFor(app theme.App) []Field {
	fields := appFields[app]
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Model is the form state for one session.
type Model struct {
	app    theme.App
	mode   theme.Mode
	styles render.Styles

	fields []Field
	inputs []textinput.Model
	focus  int

	screen  Screen
	width   int
	height  int
	session string
}

// NewModel constructs the form for app using styles. remoteAddr only feeds
// the short session tag shown in the header.
func NewModel(app theme.App, cfg theme.Config, styles render.Styles, remoteAddr string) Model {
	fields := FieldsFor(app)
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Placeholder
		in.CharLimit = f.CharLimit
		in.Width = fieldWidth
		in.TextStyle = styles.Input
		in.PlaceholderStyle = styles.Placeholder
		in.Cursor.Style = styles.Title
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	return Model{
		app:     app,
		mode:    cfg.Palette.Mode,
		styles:  styles,
		fields:  fields,
		inputs:  inputs,
		screen:  ScreenForm,
		session: deriveSessionTag(remoteAddr),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.screen == ScreenSummary {
			if msg.String() == "enter" {
				return m.reset(), textinput.Blink
			}
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.screen = ScreenSummary
				m.inputs[m.focus].Blur()
				return m, nil
			}
			return m.moveFocus(1), nil
		}
	}

	if m.screen != ScreenForm || len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// Values returns the current input values keyed by field label.
func (m Model) Values() map[string]string {
	out := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		out[f.Label] = m.inputs[i].Value()
	}
	return out
}

// Focused returns the index of the focused field.
func (m Model) Focused() int { return m.focus }

// Screen returns the active view.
func (m Model) Screen() Screen { return m.screen }

func (m Model) moveFocus(delta int) Model {
	if len(m.inputs) == 0 {
		return m
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) reset() Model {
	inputs := make([]textinput.Model, len(m.inputs))
	copy(inputs, m.inputs)
	for i := range inputs {
		inputs[i].Reset()
		inputs[i].Blur()
	}
	m.inputs = inputs
	m.focus = 0
	m.screen = ScreenForm
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{m.renderHeader()}
	if m.screen == ScreenSummary {
		sections = append(sections, m.renderSummary())
	} else {
		for i := range m.inputs {
			sections = append(sections, m.renderField(i))
		}
	}
	sections = append(sections, m.styles.Help.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := appTitles[m.app]
	if title == "" {
		title = strings.ToUpper(string(m.app))
	}
	meta := fmt.Sprintf("MODE: %s // VARIANT: %s // SESSION: [%s]", m.mode, m.styles.Variant, m.session)
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Badge.Render(title), m.styles.Help.Render(meta))
}

func (m Model) renderField(i int) string {
	field := m.styles.Field
	if i == m.focus {
		field = m.styles.FieldFocused
	}
	label := m.styles.Label.Render(m.fields[i].Label)
	return m.styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left, label, field.Render(m.inputs[i].View())))
}

func (m Model) renderSummary() string {
	lines := []string{m.styles.Title.Render("Submitted")}
	for i, f := range m.fields {
		lines = append(lines, fmt.Sprintf("%s: %s", m.styles.Label.Render(f.Label), m.inputs[i].Value()))
	}
	lines = append(lines, "", m.styles.Link.Render("Press enter to start over"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func deriveSessionTag(remoteAddr string) string {
	sum := sha256.Sum256([]byte(normalizeRemoteAddr(remoteAddr)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:12]
}

func normalizeRemoteAddr(remoteAddr string) string {
	trimmed := strings.TrimSpace(remoteAddr)
	if host, _, err := net.SplitHostPort(trimmed); err == nil {
		return host
	}
	return trimmed
}
