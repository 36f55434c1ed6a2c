package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/storage"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

const (
	listPredictions   = 3
	detailPredictions = 5
	detailRecentLogs  = 10
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	items        []storage.Item
	progress     storage.Progress
	achievements []engine.AchievementStatus
	selected     int

	// logType is set while the location prompt is open.
	logType storage.LogType
	input   textinput.Model

	notices []string
	lastLog string
	loading bool
}

type loadedMsg struct {
	items        []storage.Item
	progress     storage.Progress
	achievements []engine.AchievementStatus
}

type actionMsg struct {
	summary string
	notices []engine.Notice
	err     error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	in := textinput.New()
	in.Placeholder = "Kitchen drawer"
	in.CharLimit = 80
	in.Prompt = ui.IconPin + " "
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		input:   in,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{
			items:        m.svc.Items(),
			progress:     m.svc.Progress(),
			achievements: m.svc.Achievements(),
		}
	}
}

func (m boardModel) logCmd(id, name, location string, typ storage.LogType) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.AddLog(m.ctx, id, location, typ)
		return actionMsg{
			summary: fmt.Sprintf("%s %s %s at %s.", ui.LogTypeIcon(typ), name, typ, location),
			notices: m.svc.DrainNotices(),
			err:     err,
		}
	}
}

func (m boardModel) lostCmd(id, name string) tea.Cmd {
	return func() tea.Msg {
		it, err := m.svc.ReportLost(m.ctx, id)
		return actionMsg{
			summary: fmt.Sprintf("%s %s lost (%d times so far).", ui.IconLost, name, it.LostCount),
			notices: m.svc.DrainNotices(),
			err:     err,
		}
	}
}

func (m boardModel) current() (storage.Item, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return storage.Item{}, false
	}
	return m.items[m.selected], true
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.items = msg.items
		m.progress = msg.progress
		m.achievements = msg.achievements
		if m.selected >= len(m.items) {
			m.selected = len(m.items) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil
	case actionMsg:
		m.notices = nil
		for _, n := range msg.notices {
			m.notices = append(m.notices, ui.NoticeText(n))
		}
		if msg.err != nil {
			m.lastLog = ui.Bad.Render(ui.IconError + " " + msg.err.Error())
		} else {
			m.lastLog = msg.summary
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		if m.logType != "" {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.items)-1 {
				m.selected++
			}
			return m, nil
		case "f", "s":
			if _, ok := m.current(); !ok {
				m.lastLog = "Add an item first: unearth add <name>"
				return m, nil
			}
			m.logType = storage.LogFound
			if msg.String() == "s" {
				m.logType = storage.LogStored
			}
			m.input.SetValue("")
			cmd := m.input.Focus()
			return m, cmd
		case "l":
			it, ok := m.current()
			if !ok {
				return m, nil
			}
			return m, m.lostCmd(it.ID, it.Name)
		}
	}
	return m, nil
}

func (m boardModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.logType = ""
		m.input.Blur()
		m.lastLog = "Cancelled."
		return m, nil
	case tea.KeyEnter:
		it, ok := m.current()
		typ := m.logType
		loc := strings.TrimSpace(m.input.Value())
		m.logType = ""
		m.input.Blur()
		if !ok {
			return m, nil
		}
		if loc == "" {
			m.lastLog = ui.Warn.Render(engine.ErrEmptyLocation.Error())
			return m, nil
		}
		return m, m.logCmd(it.ID, it.Name, loc, typ)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m boardModel) View() string {
	header := m.renderHeader()
	list := m.renderList()
	detail := m.renderDetail()

	leftW := 34
	if m.width > 0 {
		if maxLeft := m.width / 2; maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 20 {
			leftW = 20
		}
	}

	linesLeft := strings.Split(list, "\n")
	linesRight := strings.Split(detail, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n\n" + body.String() + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	if m.loading && m.items == nil {
		return "Unearth: loading…"
	}
	p := m.progress
	cur := engine.XPRequiredForLevel(p.Level)
	next := engine.XPRequiredForLevel(p.Level + 1)
	bar := ui.ProgressBar(p.XP-cur, next-cur, 24)
	if p.Level >= engine.MaxLevel() {
		bar = ui.Gold.Render("MAX")
	}
	dc := p.DailyChallenge
	challenge := fmt.Sprintf("%s %d/%d", ui.IconTarget, dc.Current, dc.Target)
	if dc.Completed {
		challenge = ui.Good.Render(ui.IconDone + " challenge done")
	}
	earned := 0
	for _, a := range m.achievements {
		if a.Unlocked {
			earned++
		}
	}
	return fmt.Sprintf("Unearth | Level %d %s | XP %d %s | %s %d | %s | %s %d/%d",
		p.Level, engine.LevelTitle(p.Level), p.XP, bar, ui.IconFire, p.Streak, challenge,
		ui.IconTrophy, earned, len(m.achievements))
}

func (m boardModel) renderList() string {
	out := []string{"Items"}
	if len(m.items) == 0 {
		out = append(out, "(no items yet)")
		return strings.Join(out, "\n")
	}
	for i, it := range m.items {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %s", cursor, ui.IconItem, it.Name)
		if it.LostCount > 0 {
			line += fmt.Sprintf(" %s%d", ui.IconLost, it.LostCount)
		}
		out = append(out, line)
		var preds []string
		for _, lc := range engine.TopLocations(it, listPredictions) {
			preds = append(preds, fmt.Sprintf("%s×%d", lc.Location, lc.Count))
		}
		if len(preds) > 0 {
			out = append(out, "    "+strings.Join(preds, ", "))
		}
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderDetail() string {
	it, ok := m.current()
	if !ok {
		return ""
	}
	now := m.svc.Now()
	out := []string{ui.H2.Render(it.Name)}
	if loc, ok := engine.LastKnownLocation(it); ok {
		out = append(out, ui.LabelValue("Last known", loc))
	}
	out = append(out, ui.LabelValue("Times lost", it.LostCount))
	out = append(out, "", ui.IconBulb+" "+engine.ContextualAdvice(it, now), "")

	out = append(out, "Where to look")
	top := engine.TopLocations(it, detailPredictions)
	if len(top) == 0 {
		out = append(out, ui.Muted.Render("(no logs yet)"))
	}
	for i, lc := range top {
		out = append(out, fmt.Sprintf("%d. %s (%d)", i+1, lc.Location, lc.Count))
	}

	out = append(out, "", "Recent")
	logs, err := m.svc.RecentLogs(it.ID, detailRecentLogs)
	if err != nil && !errors.Is(err, engine.ErrItemNotFound) {
		out = append(out, ui.Bad.Render(err.Error()))
	}
	for _, l := range logs {
		out = append(out, fmt.Sprintf("%s %s %s", ui.LogTypeIcon(l.Type), l.Location, ui.Muted.Render(ui.FormatRelative(l.Timestamp, now))))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.logType != "" {
		b.WriteString(fmt.Sprintf("Where was it %s? ", m.logType))
		b.WriteString(m.input.View())
		b.WriteString(ui.Muted.Render("  (enter: save, esc: cancel)"))
		b.WriteString("\n")
	}
	for _, n := range m.notices {
		b.WriteString(n)
		b.WriteString("\n")
	}
	b.WriteString(m.lastLog)
	b.WriteString("\n")
	b.WriteString(ui.Muted.Render("j/k: move  f: found  s: stored  l: lost  r: refresh  q: quit"))
	return b.String()
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
