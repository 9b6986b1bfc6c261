package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"devportal/internal/links"
	"devportal/internal/theme"
)

const (
	defaultWidth = 80
	helpLine     = "↑/k up • ↓/j down • enter select • q quit"
)

// Options configures a landing screen Model.
type Options struct {
	Title    string
	Links    []links.ToolLink
	Theme    theme.Theme
	Renderer *lipgloss.Renderer
	Width    int
	Height   int
}

// Model is the terminal rendition of the portal landing page: a themed banner
// over the quick links, navigable with the keyboard.
type Model struct {
	title  string
	links  []links.ToolLink
	styles styles

	labelWidth int
	cursor     int
	width      int
	height     int

	selected string
	quitting bool
}

type styles struct {
	banner   lipgloss.Style
	heading  lipgloss.Style
	item     lipgloss.Style
	active   lipgloss.Style
	url      lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, th theme.Theme) styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	header := th.Descriptor(theme.CategoryHome)
	p := th.Palette

	return styles{
		banner: r.NewStyle().
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color(header.FontColor)).
			Background(lipgloss.Color(header.Colors[0].Blend(header.Colors[1], 0.5))),
		heading:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Navigation.Color)).MarginTop(1),
		item:     r.NewStyle().PaddingLeft(2),
		active:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Navigation.SelectedColor)),
		url:      r.NewStyle().Foreground(lipgloss.Color(p.Secondary)),
		selected: r.NewStyle().Foreground(lipgloss.Color(p.Primary)).MarginTop(1),
		help:     r.NewStyle().Foreground(lipgloss.Color(p.Banner.Link)).MarginTop(1),
	}
}

func NewModel(opts Options) Model {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Internal Developer Platform"
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	labelWidth := 0
	if len(opts.Links) > 0 {
		labelWidth = lo.Max(lo.Map(opts.Links, func(l links.ToolLink, _ int) int { return lipgloss.Width(l.Label) }))
	}

	return Model{
		title:      title,
		links:      append([]links.ToolLink(nil), opts.Links...),
		styles:     newStyles(opts.Renderer, opts.Theme),
		labelWidth: labelWidth,
		width:      width,
		height:     opts.Height,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.links)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.links)-1, 0)
		case "enter":
			if len(m.links) > 0 {
				m.selected = m.links[m.cursor].URL
			}
		}
	}
	return m, nil
}

// Cursor is the index of the highlighted link.
func (m Model) Cursor() int { return m.cursor }

// Selected is the URL of the last link chosen with enter.
func (m Model) Selected() (string, bool) { return m.selected, m.selected != "" }

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.banner.Width(m.width).Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.styles.heading.Render("Quick Links"))
	b.WriteString("\n")

	for i, l := range m.links {
		label := l.Label + strings.Repeat(" ", m.labelWidth-lipgloss.Width(l.Label))
		line := "  " + label + "  " + m.styles.url.Render(l.URL)
		if i == m.cursor {
			line = m.styles.active.Render("> "+label) + "  " + m.styles.url.Render(l.URL)
		}
		b.WriteString(m.styles.item.Render(line))
		b.WriteString("\n")
	}

	if m.selected != "" {
		b.WriteString(m.styles.selected.Render("open " + m.selected))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render(helpLine))
	return b.String()
}
