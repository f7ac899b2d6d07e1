// Package tui provides the Bubble Tea planner dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avoronov/studa/internal/clock"
	"github.com/avoronov/studa/internal/model"
	"github.com/avoronov/studa/internal/planner"
	"github.com/avoronov/studa/internal/quotes"
	statsPkg "github.com/avoronov/studa/internal/stats"
	"github.com/avoronov/studa/internal/timer"
)

const (
	timerTickInterval = 500 * time.Millisecond
	quoteTickInterval = 10 * time.Second
	weekBarWidth      = 24
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeGoal
)

// timerTickMsg drives the running stopwatch. The generation counter
// invalidates ticks scheduled before a pause or stop, so a stale tick
// never fires into a new session.
type timerTickMsg struct {
	gen int
}

type quoteTickMsg struct{}

// Model implements the Bubble Tea dashboard.
type Model struct {
	pl      *planner.Planner
	tm      *timer.Timer
	hint    int // target-minutes hint, informational only
	mode    mode
	styles  styles
	rng     *rand.Rand
	quote   string
	tickGen int

	taskTable table.Model
	visible   []model.Task
	goalBar   progress.Model

	form form

	filterSubject string
	filterStatus  model.Status
	sortKey       model.SortKey

	statusMsg string
	errMsg    string

	width  int
	height int
}

// NewModel constructs the dashboard model.
func NewModel(pl *planner.Planner, targetMinutesHint int) *Model {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	m := &Model{
		pl:           pl,
		tm:           timer.New(),
		hint:         targetMinutesHint,
		styles:       newStyles(pl.Theme()),
		rng:          rng,
		quote:        quotes.Random(rng),
		filterStatus: model.StatusAll,
		sortKey:      model.SortNone,
		goalBar:      progress.New(progress.WithDefaultGradient()),
	}
	m.initTaskTable()
	m.refreshTasks()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return quoteTick()
}

func timerTick(gen int) tea.Cmd {
	return tea.Tick(timerTickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

func quoteTick() tea.Cmd {
	return tea.Tick(quoteTickInterval, func(time.Time) tea.Msg {
		return quoteTickMsg{}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.goalBar.Width = min(msg.Width-20, 50)
		if m.goalBar.Width < 10 {
			m.goalBar.Width = 10
		}
		m.sizeTaskTable()
		return m, nil
	case quoteTickMsg:
		m.quote = quotes.Random(m.rng)
		return m, quoteTick()
	case timerTickMsg:
		if msg.gen != m.tickGen || m.tm.State() != timer.Running {
			return m, nil
		}
		m.tm.Tick(m.pl.Clock().Now())
		return m, timerTick(msg.gen)
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m, m.updateForm(msg)
		}
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.errMsg = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "s":
		if m.tm.State() != timer.Running {
			m.tm.Start(m.pl.Clock().Now())
			m.tickGen++
			return timerTick(m.tickGen)
		}
		return nil
	case "p":
		if m.tm.State() == timer.Running {
			m.tm.Tick(m.pl.Clock().Now())
			m.tm.Pause()
			m.tickGen++
		}
		return nil
	case "x":
		m.stopSession()
		return nil
	case "enter":
		if t, ok := m.highlighted(); ok {
			m.tm.SelectTask(t.ID)
			m.statusMsg = fmt.Sprintf("Timer attached to %q.", t.Name)
		}
		return nil
	case "n":
		m.tm.SelectTask(timer.NoTask)
		m.statusMsg = "Timer detached."
		return nil
	case "c":
		if t, ok := m.highlighted(); ok {
			if _, err := m.pl.ToggleComplete(context.Background(), t.ID); err != nil {
				m.errMsg = err.Error()
			}
			m.refreshTasks()
		}
		return nil
	case "d":
		if t, ok := m.highlighted(); ok {
			if _, err := m.pl.DeleteTask(context.Background(), t.ID); err != nil {
				m.errMsg = err.Error()
			}
			m.refreshTasks()
		}
		return nil
	case "a":
		m.openAddForm()
		return m.form.focusCmd()
	case "e":
		if t, ok := m.highlighted(); ok {
			m.openEditForm(t)
			return m.form.focusCmd()
		}
		return nil
	case "g":
		m.openGoalForm()
		return m.form.focusCmd()
	case "f":
		m.filterStatus = nextStatus(m.filterStatus)
		m.refreshTasks()
		return nil
	case "u":
		m.filterSubject = nextSubject(m.pl.Tasks().Subjects(), m.filterSubject)
		m.refreshTasks()
		return nil
	case "o":
		m.sortKey = nextSort(m.sortKey)
		m.refreshTasks()
		return nil
	case "r":
		if err := m.pl.ResetWeek(context.Background()); err != nil {
			m.errMsg = err.Error()
		} else {
			m.statusMsg = "Week reset."
		}
		return nil
	case "t":
		theme, err := m.pl.ToggleTheme(context.Background())
		if err != nil {
			m.errMsg = err.Error()
			return nil
		}
		m.styles = newStyles(theme)
		return nil
	default:
		var cmd tea.Cmd
		m.taskTable, cmd = m.taskTable.Update(msg)
		return cmd
	}
}

// stopSession halts the stopwatch and, when long enough, feeds the result
// into the ledger and the attached task. The timer resets either way.
func (m *Model) stopSession() {
	m.tm.Tick(m.pl.Clock().Now())
	m.tickGen++
	res, err := m.tm.Stop()
	if err != nil {
		if errors.Is(err, model.ErrSessionTooShort) {
			m.statusMsg = "Session was too short to log."
		} else {
			m.errMsg = err.Error()
		}
		return
	}
	if err := m.pl.LogSession(context.Background(), res); err != nil {
		m.errMsg = err.Error()
		return
	}
	hours := statsPkg.FormatHours(float64(res.Minutes) / 60)
	m.statusMsg = fmt.Sprintf("You studied %d minutes (%s hrs). Logged successfully.", res.Minutes, hours)
	m.refreshTasks()
}

func (m *Model) highlighted() (model.Task, bool) {
	i := m.taskTable.Cursor()
	if i < 0 || i >= len(m.visible) {
		return model.Task{}, false
	}
	return m.visible[i], true
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	title := m.styles.title.Render("studa")
	quote := m.styles.quote.Render("“" + m.quote + "”")
	b.WriteString(title + "  " + quote + "\n\n")

	b.WriteString(m.renderTimerCard() + "\n")
	b.WriteString(m.renderGoal() + "\n")
	b.WriteString(m.renderWeek() + "\n")
	b.WriteString(m.renderAggregates() + "\n\n")

	if m.mode != modeNormal {
		b.WriteString(m.form.view(m.styles) + "\n")
	} else {
		b.WriteString(m.renderFilters() + "\n")
		b.WriteString(m.taskTable.View() + "\n")
	}

	if m.errMsg != "" {
		b.WriteString(m.styles.err.Render(m.errMsg) + "\n")
	} else if m.statusMsg != "" {
		b.WriteString(m.styles.status.Render(m.statusMsg) + "\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderTimerCard() string {
	state := "idle"
	switch m.tm.State() {
	case timer.Running:
		state = "running"
	case timer.Paused:
		state = "paused"
	}
	attached := "(no task)"
	if id := m.tm.TaskID(); id != timer.NoTask {
		if t, err := m.pl.Tasks().Find(id); err == nil {
			attached = t.Subject + " — " + t.Name
		}
	}
	parts := []string{
		m.styles.timer.Render(timer.FormatClock(m.tm.Elapsed())),
		m.styles.cardName.Render(state),
		m.styles.value.Render(attached),
	}
	if m.hint > 0 {
		parts = append(parts, m.styles.muted.Render(fmt.Sprintf("target %dm", m.hint)))
	}
	return m.styles.card.Render(strings.Join(parts, "  "))
}

func (m *Model) renderGoal() string {
	s := m.pl.Summary()
	bar := m.goalBar.ViewAs(s.GoalPercent / 100)
	return bar + "  " + m.styles.cardName.Render(s.GoalText)
}

func (m *Model) renderWeek() string {
	var sb strings.Builder
	today := clock.DayIndex(m.pl.Clock().Now())
	if err := statsPkg.RenderWeekBars(&sb, m.pl.Ledger().WeekData(), today, weekBarWidth); err != nil {
		return m.styles.err.Render(err.Error())
	}
	return m.styles.muted.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) renderAggregates() string {
	s := m.pl.Summary()
	return m.styles.cardName.Render(fmt.Sprintf(
		"Completed this week %d  ·  Avg daily %s h  ·  Streak %d day(s)",
		s.CompletedThisWeek, statsPkg.FormatHours(s.AvgDailyHours), s.Streak))
}

func (m *Model) renderFilters() string {
	subject := m.filterSubject
	if subject == "" {
		subject = "all"
	}
	return m.styles.muted.Render(fmt.Sprintf(
		"subject: %s  ·  status: %s  ·  sort: %s", subject, m.filterStatus, m.sortKey))
}

func (m *Model) renderFooter() string {
	help := "s start · p pause · x stop · enter attach · n detach · a add · e edit · c done · d delete · g goal · f/u/o filters · r reset week · t theme · q quit"
	return m.styles.footer.Render(help)
}

func (m *Model) initTaskTable() {
	t := table.New(
		table.WithColumns(taskColumns(defaultTableWidth)),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true)
	ts.Selected = ts.Selected.Bold(true)
	t.SetStyles(ts)
	m.taskTable = t
}

const defaultTableWidth = 80

func taskColumns(total int) []table.Column {
	nameWidth := total - 46
	if nameWidth < 12 {
		nameWidth = 12
	}
	return []table.Column{
		{Title: "Task", Width: nameWidth},
		{Title: "Subject", Width: 10},
		{Title: "Date", Width: 10},
		{Title: "Est", Width: 5},
		{Title: "Pri", Width: 6},
		{Title: "Spent", Width: 5},
		{Title: "Done", Width: 4},
	}
}

func (m *Model) sizeTaskTable() {
	if m.width > 0 {
		m.taskTable.SetColumns(taskColumns(m.width - 4))
	}
	if m.height > 24 {
		m.taskTable.SetHeight(m.height - 18)
	}
}

func (m *Model) refreshTasks() {
	m.visible = m.pl.Tasks().Query(model.Query{
		Subject: m.filterSubject,
		Status:  m.filterStatus,
		Sort:    m.sortKey,
	})
	rows := make([]table.Row, 0, len(m.visible))
	for _, t := range m.visible {
		done := ""
		if t.Completed {
			done = "✓"
		}
		rows = append(rows, table.Row{
			t.Name,
			t.Subject,
			t.Date,
			fmt.Sprintf("%dm", t.EstMinutes),
			string(t.Priority),
			fmt.Sprintf("%dm", t.TimeSpentMinutes),
			done,
		})
	}
	m.taskTable.SetRows(rows)
	if m.taskTable.Cursor() >= len(rows) && len(rows) > 0 {
		m.taskTable.SetCursor(len(rows) - 1)
	}
}

func nextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusAll:
		return model.StatusPending
	case model.StatusPending:
		return model.StatusCompleted
	default:
		return model.StatusAll
	}
}

func nextSort(s model.SortKey) model.SortKey {
	switch s {
	case model.SortNone:
		return model.SortDate
	case model.SortDate:
		return model.SortPriority
	case model.SortPriority:
		return model.SortTimeSpent
	default:
		return model.SortNone
	}
}

// nextSubject cycles all -> each known subject -> all.
func nextSubject(subjects []string, current string) string {
	if len(subjects) == 0 {
		return ""
	}
	if current == "" {
		return subjects[0]
	}
	for i, s := range subjects {
		if s == current {
			if i+1 < len(subjects) {
				return subjects[i+1]
			}
			return ""
		}
	}
	return ""
}
