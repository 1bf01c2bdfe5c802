package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	"github.com/iw2rmb/clausekit"
	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
	"github.com/iw2rmb/clausekit/fontsize"
	"github.com/iw2rmb/clausekit/internal/config"
	"github.com/iw2rmb/clausekit/media"
	"github.com/iw2rmb/clausekit/painter"
	"github.com/iw2rmb/clausekit/suggest"
)

var log = logging.Logger("clausekit/demo")

const sample = `<h1>Services Agreement</h1>
<p>This agreement is made between <strong>Provider</strong> and <em>Client</em>.</p>
<h2>1. Scope</h2>
<ul><li><p>Type <code>/</code> after a space for block commands.</p></li><li><p>Select text and press the brush to copy its formatting.</p></li></ul>
<p><span style="font-size: 20px">Ctrl+Q quits.</span></p>`

var (
	barStyle      = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("236"))
	activeStyle   = buttonStyle.Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	disabledStyle = buttonStyle.Foreground(lipgloss.Color("240"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type model struct {
	host    config.Host
	editor  *editor.Editor
	suggest *suggest.Engine
	painter *painter.Painter
	width   int
	height  int
	status  string
	saved   string

	// preview shows the serialized markup below the editor.
	preview     viewport.Model
	showPreview bool
}

func newModel(host config.Host) (model, error) {
	cfg := editor.Config{
		Markup:   sample,
		ReadOnly: host.ReadOnly,
		Style:    editor.DefaultStyle(),
		InsertVariable: func(e *editor.Editor) {
			e.InsertText("{{party_name}}")
		},
		Clipboard: &editor.MemoryClipboard{},
	}
	if host.File != "" {
		src, err := os.ReadFile(host.File)
		if err != nil {
			return model{}, errors.Wrapf(err, "read %s", host.File)
		}
		cfg.Markup = ""
		if strings.EqualFold(filepath.Ext(host.File), ".md") {
			cfg.Markdown = string(src)
		} else {
			cfg.Markup = string(src)
		}
	}

	loader := media.SchemeLoader{
		HTTP: media.HTTPLoader{Client: &http.Client{Timeout: host.HTTPTimeout}},
		File: media.FileLoader{FS: os.DirFS(host.ImageRoot)},
	}
	sg := suggest.New(suggest.Config{
		Char:        []rune(host.SuggestChar)[0],
		StartOfLine: host.StartOfLine,
	})
	pt := painter.New()
	cfg.Extensions = []editor.Extension{fontsize.New(), media.New(loader), sg, pt}

	e, err := editor.New(cfg)
	if err != nil {
		return model{}, err
	}
	e.Focus()
	return model{host: host, editor: e, suggest: sg, painter: pt, preview: viewport.New(0, 0)}, nil
}

func (m model) Init() tea.Cmd { return m.editor.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.resize(), nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+q":
			return m, tea.Quit
		case "ctrl+s":
			return m.save(), nil
		case "ctrl+o":
			m.showPreview = !m.showPreview
			return m.resize().refreshPreview(), nil
		case "pgup", "pgdown":
			if m.showPreview {
				var cmd tea.Cmd
				m.preview, cmd = m.preview.Update(msg)
				return m, cmd
			}
		case "ctrl+p":
			m.editor.Run(painter.CmdToggle)
			return m, nil
		case "ctrl+]":
			m.editor.Run(fontsize.CmdIncrease)
			return m, nil
		case "ctrl+\\":
			m.editor.Run(fontsize.CmdDecrease)
			return m, nil
		}
	case tea.MouseMsg:
		if msg.Y == 0 {
			if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
				m.pressAt(msg.X)
			}
			return m, nil
		}
		msg.Y--
		_, cmd := m.editor.Update(msg)
		return m, cmd
	}

	_, cmd := m.editor.Update(msg)
	return m.refreshPreview(), cmd
}

// resize splits the rows between toolbar, editor, preview and status line.
func (m model) resize() model {
	rows := max(m.height-2, 1)
	if m.showPreview {
		m.preview.Width = m.width
		m.preview.Height = rows / 2
		rows -= m.preview.Height
	}
	m.editor.SetSize(m.width, rows)
	return m
}

func (m model) refreshPreview() model {
	if !m.showPreview {
		return m
	}
	out, err := m.editor.Serialize(doc.SerializeOptions{})
	if err != nil {
		out = err.Error()
	}
	m.preview.SetContent(out)
	return m
}

func (m model) save() model {
	out, err := m.editor.Serialize(doc.SerializeOptions{Minify: m.host.Minify})
	if err != nil {
		log.Errorw("serialize failed", "err", err)
		m.status = "save failed: " + err.Error()
		return m
	}
	m.saved = out
	m.status = "saved; markup is printed on exit"
	return m
}

func (m model) pressAt(x int) {
	pos := 0
	for _, b := range m.editor.Toolbar() {
		w := lipgloss.Width(renderButton(b))
		if x >= pos && x < pos+w {
			m.editor.Press(b.ID)
			return
		}
		pos += w
	}
}

func renderButton(b editor.ToolbarButton) string {
	switch {
	case b.Active:
		return activeStyle.Render(b.Label)
	case !b.Enabled:
		return disabledStyle.Render(b.Label)
	default:
		return buttonStyle.Render(b.Label)
	}
}

func (m model) toolbar() string {
	var sb strings.Builder
	for _, b := range m.editor.Toolbar() {
		sb.WriteString(renderButton(b))
	}
	return barStyle.Width(max(m.width, 1)).MaxWidth(max(m.width, 1)).Render(sb.String())
}

func (m model) statusLine() string {
	parts := []string{"clausekit " + clausekit.VersionTag()}
	if size := fontsize.Current(m.editor); size != "" {
		parts = append(parts, size)
	}
	if m.painter.Armed() {
		parts = append(parts, "painter armed (esc to stop)")
	}
	if s, ok := m.suggest.Session(); ok {
		parts = append(parts, m.host.SuggestChar+s.Query)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return statusStyle.Render(strings.Join(parts, " · "))
}

func (m model) View() string {
	body := m.suggest.View(m.editor.View())
	if m.showPreview {
		return lipgloss.JoinVertical(lipgloss.Left, m.toolbar(), body, m.preview.View(), m.statusLine())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.toolbar(), body, m.statusLine())
}

func run(ctx context.Context) error {
	host, err := config.LoadHost()
	if err != nil {
		return err
	}
	if host.SuggestChar == "" {
		host.SuggestChar = "/"
	}
	if err := logging.SetLogLevelRegex("clausekit/.*", host.LogLevel); err != nil {
		return errors.Wrap(err, "set log level")
	}

	m, err := newModel(host)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return errors.Wrap(err, "run program")
	}
	if fm, ok := final.(model); ok && fm.saved != "" {
		_, _ = os.Stdout.WriteString(fm.saved + "\n")
	}
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
