package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avoronov/studa/internal/model"
	statsPkg "github.com/avoronov/studa/internal/stats"
	"github.com/avoronov/studa/internal/task"
)

type formKind int

const (
	formAdd formKind = iota
	formEdit
	formGoal
)

// form is a small vertical input stack for add/edit/goal entry.
type form struct {
	kind   formKind
	title  string
	labels []string
	inputs []textinput.Model
	index  int
	errMsg string
	editID string
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 120
	ti.SetValue(value)
	return ti
}

func (f *form) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.index = 0
	f.inputs[0].Focus()
	return textinput.Blink
}

func (f *form) focus(index int) {
	if index < 0 {
		index = len(f.inputs) - 1
	}
	if index >= len(f.inputs) {
		index = 0
	}
	f.inputs[f.index].Blur()
	f.index = index
	f.inputs[f.index].Focus()
}

func (f *form) view(st styles) string {
	var b strings.Builder
	b.WriteString(st.header.Render(f.title) + "\n")
	for i, in := range f.inputs {
		label := f.labels[i]
		if i == f.index {
			label = st.selected.Render(label)
		} else {
			label = st.cardName.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label, in.View()))
	}
	if f.errMsg != "" {
		b.WriteString(st.err.Render(f.errMsg) + "\n")
	}
	b.WriteString(st.muted.Render("enter next/submit · tab cycle · esc cancel"))
	return b.String()
}

func (m *Model) openAddForm() {
	m.mode = modeAdd
	m.form = form{
		kind:   formAdd,
		title:  "New task",
		labels: []string{"Name     ", "Subject  ", "Date     ", "Estimate ", "Priority "},
		inputs: []textinput.Model{
			newInput("what to study", ""),
			newInput("General", ""),
			newInput("YYYY-MM-DD (today)", ""),
			newInput("minutes", ""),
			newInput("High/Normal/Low", ""),
		},
	}
}

func (m *Model) openEditForm(t model.Task) {
	m.mode = modeEdit
	m.form = form{
		kind:   formEdit,
		title:  fmt.Sprintf("Edit %q (blank keeps the old value)", t.Name),
		labels: []string{"Name     ", "Subject  ", "Date     ", "Estimate ", "Priority "},
		inputs: []textinput.Model{
			newInput(t.Name, ""),
			newInput(t.Subject, ""),
			newInput(t.Date, ""),
			newInput(fmt.Sprintf("%d", t.EstMinutes), ""),
			newInput(string(t.Priority), ""),
		},
		editID: t.ID,
	}
}

func (m *Model) openGoalForm() {
	m.mode = modeGoal
	m.form = form{
		kind:   formGoal,
		title:  "Daily goal",
		labels: []string{"Hours/day"},
		inputs: []textinput.Model{
			newInput(statsPkg.FormatHours(m.pl.Goal()), ""),
		},
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return nil
	case "tab", "down":
		m.form.focus(m.form.index + 1)
		return nil
	case "shift+tab", "up":
		m.form.focus(m.form.index - 1)
		return nil
	case "enter":
		if m.form.index < len(m.form.inputs)-1 {
			m.form.focus(m.form.index + 1)
			return nil
		}
		m.submitForm()
		return nil
	default:
		var cmd tea.Cmd
		m.form.inputs[m.form.index], cmd = m.form.inputs[m.form.index].Update(msg)
		return cmd
	}
}

func (m *Model) submitForm() {
	switch m.form.kind {
	case formAdd:
		m.submitAdd()
	case formEdit:
		m.submitEdit()
	case formGoal:
		m.submitGoal()
	}
}

func (m *Model) submitAdd() {
	est := 0
	if v := strings.TrimSpace(m.form.inputs[3].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			m.form.errMsg = "estimate must be a whole number of minutes"
			return
		}
		est = parsed
	}
	t, err := m.pl.AddTask(context.Background(), task.AddRequest{
		Name:       m.form.inputs[0].Value(),
		Subject:    m.form.inputs[1].Value(),
		Date:       m.form.inputs[2].Value(),
		EstMinutes: est,
		Priority:   strings.TrimSpace(m.form.inputs[4].Value()),
	})
	if err != nil {
		m.form.errMsg = err.Error()
		return
	}
	m.mode = modeNormal
	m.statusMsg = fmt.Sprintf("Added %q.", t.Name)
	m.refreshTasks()
}

func (m *Model) submitEdit() {
	req := model.EditRequest{}
	if v := m.form.inputs[0].Value(); strings.TrimSpace(v) != "" {
		req.Name = &v
	}
	if v := m.form.inputs[1].Value(); strings.TrimSpace(v) != "" {
		req.Subject = &v
	}
	if v := m.form.inputs[2].Value(); strings.TrimSpace(v) != "" {
		req.Date = &v
	}
	if v := strings.TrimSpace(m.form.inputs[3].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			m.form.errMsg = "estimate must be a whole number of minutes"
			return
		}
		req.EstMinutes = &parsed
	}
	if v := m.form.inputs[4].Value(); strings.TrimSpace(v) != "" {
		req.Priority = &v
	}
	t, err := m.pl.EditTask(context.Background(), m.form.editID, req)
	if err != nil {
		m.form.errMsg = err.Error()
		return
	}
	m.mode = modeNormal
	m.statusMsg = fmt.Sprintf("Updated %q.", t.Name)
	m.refreshTasks()
}

func (m *Model) submitGoal() {
	v := strings.TrimSpace(m.form.inputs[0].Value())
	hours, err := strconv.ParseFloat(v, 64)
	if err != nil {
		m.form.errMsg = "goal must be a number of hours"
		return
	}
	if err := m.pl.SetGoal(context.Background(), hours); err != nil {
		m.form.errMsg = err.Error()
		return
	}
	m.mode = modeNormal
	m.statusMsg = fmt.Sprintf("Daily goal updated to %s hrs.", statsPkg.FormatHours(hours))
}
