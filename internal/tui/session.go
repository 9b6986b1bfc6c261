package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	bm "github.com/charmbracelet/wish/bubbletea"

	"devportal/internal/configsource"
	"devportal/internal/links"
	"devportal/internal/theme"
)

// makeRenderer detects the color profile of the session's terminal.
var makeRenderer = bm.MakeRenderer

// SessionOptions carries what every terminal session renders.
type SessionOptions struct {
	Title    string
	Source   configsource.Reader
	Theme    theme.Theme
	Host     links.RuntimeHost
	Resolver *links.Resolver
	Logger   *log.Logger
}

// Handler builds one landing screen per SSH session. Links are resolved per
// session against the configured public host.
func Handler(opts SessionOptions) bm.Handler {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = links.NewResolver(opts.Logger)
	}

	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := s.Pty()
		m := NewModel(Options{
			Title:    opts.Title,
			Links:    resolver.Resolve(opts.Source, opts.Host),
			Theme:    opts.Theme,
			Renderer: makeRenderer(s),
			Width:    pty.Window.Width,
			Height:   pty.Window.Height,
		})
		if opts.Logger != nil {
			opts.Logger.Debug("session started", "event", "tui_session_started", "user", s.User(), "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)
		}
		return m, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
