package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/botmon/internal/model"
	"github.com/rusenback/botmon/internal/panel"
)

// renderLine styles one entry; replaced in tests to count renders
var renderLine = panel.RenderLine

// pane is one append-only, auto-scrolling region
type pane struct {
	title      string
	viewport   viewport.Model
	entries    []model.LogEntry
	lines      []string // rendered entries, wrapped to wrapWidth
	wrapWidth  int
	autoScroll bool
	focused    bool
}

func newPane(title string) *pane {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &pane{
		title:      title,
		viewport:   vp,
		autoScroll: true,
	}
}

// append renders only the new entry and follows the bottom unless the user
// scrolled away
func (p *pane) append(entry model.LogEntry) {
	p.entries = append(p.entries, entry)
	p.lines = append(p.lines, p.render(entry))
	p.refresh()
}

func (p *pane) setSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	p.viewport.Width = width
	p.viewport.Height = height
	if width != p.wrapWidth {
		p.wrapWidth = width
		p.rewrap()
	}
	p.refresh()
}

func (p *pane) render(entry model.LogEntry) string {
	line := renderLine(entry)
	if p.wrapWidth > 0 {
		line = lipgloss.NewStyle().Width(p.wrapWidth).Render(line)
	}
	return line
}

// rewrap renders every entry again for a new width
func (p *pane) rewrap() {
	p.lines = make([]string, len(p.entries))
	for i, e := range p.entries {
		p.lines[i] = p.render(e)
	}
}

func (p *pane) refresh() {
	p.viewport.SetContent(strings.Join(p.lines, "\n"))
	if p.autoScroll {
		p.viewport.GotoBottom()
	}
}

func (p *pane) scrollUp(n int) {
	p.viewport.LineUp(n)
	p.autoScroll = p.viewport.AtBottom()
}

func (p *pane) scrollDown(n int) {
	p.viewport.LineDown(n)
	p.autoScroll = p.viewport.AtBottom()
}

func (p *pane) pageUp() {
	p.viewport.ViewUp()
	p.autoScroll = p.viewport.AtBottom()
}

func (p *pane) pageDown() {
	p.viewport.ViewDown()
	p.autoScroll = p.viewport.AtBottom()
}

func (p *pane) top() {
	p.viewport.GotoTop()
	p.autoScroll = false
}

func (p *pane) bottom() {
	p.viewport.GotoBottom()
	p.autoScroll = true
}

func (p *pane) toggleAutoScroll() {
	p.autoScroll = !p.autoScroll
	if p.autoScroll {
		p.viewport.GotoBottom()
	}
}

func (p *pane) len() int {
	return len(p.entries)
}

// view renders the pane inside its border
func (p *pane) view(width, height int) string {
	style := paneStyle
	if p.focused {
		style = focusedPaneStyle
	}

	title := paneTitleStyle.Render(p.title)
	status := paneStatusStyle.Render(paneStatus(p.len(), p.autoScroll))
	header := title + " " + status

	return style.
		Width(width - 2).
		Height(height - 2).
		Render(header + "\n" + p.viewport.View())
}
