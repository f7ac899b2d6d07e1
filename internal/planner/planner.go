// Package planner wires the task store, weekly ledger, goal, notes, and
// theme into one engine with a single commit boundary per operation.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/avoronov/studa/internal/clock"
	"github.com/avoronov/studa/internal/ledger"
	"github.com/avoronov/studa/internal/model"
	"github.com/avoronov/studa/internal/stats"
	"github.com/avoronov/studa/internal/store"
	"github.com/avoronov/studa/internal/task"
	"github.com/avoronov/studa/internal/timer"
)

// Themes the UI can persist.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Planner owns all durable planner state. Every mutating method updates
// memory first and then commits the full state in one store transaction
// before returning.
type Planner struct {
	clk    clock.Clock
	st     *store.Store
	tasks  *task.Store
	ledger *ledger.Ledger
	goal   float64
	notes  string
	theme  string
}

// Defaults seed goal and theme when the store has no value yet,
// typically from the TOML config file.
type Defaults struct {
	Goal  float64
	Theme string
}

// Load reads persisted state, rolls the week over if the stored Monday is
// stale, and flushes the result so every later read sees a fresh week.
func Load(ctx context.Context, st *store.Store, clk clock.Clock, def Defaults) (*Planner, error) {
	state, err := st.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	p := &Planner{
		clk:    clk,
		st:     st,
		tasks:  task.New(state.Tasks),
		ledger: ledger.New(state.WeekStart, state.WeekData),
		goal:   state.DailyGoal,
		notes:  state.Notes,
		theme:  state.Theme,
	}
	if p.goal <= 0 {
		p.goal = def.Goal
	}
	if p.goal <= 0 {
		p.goal = stats.DefaultDailyGoal
	}
	if p.theme == "" {
		p.theme = def.Theme
	}
	if p.theme != ThemeDark {
		p.theme = ThemeLight
	}
	p.ledger.EnsureFresh(clk.Now())
	if err := p.commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Tasks exposes the task store for reads and queries.
func (p *Planner) Tasks() *task.Store { return p.tasks }

// Ledger exposes the weekly ledger for reads.
func (p *Planner) Ledger() *ledger.Ledger { return p.ledger }

// Goal returns the daily goal in hours.
func (p *Planner) Goal() float64 { return p.goal }

// Notes returns the freeform notes text.
func (p *Planner) Notes() string { return p.notes }

// Theme returns the persisted theme preference.
func (p *Planner) Theme() string { return p.theme }

// Clock returns the planner's clock.
func (p *Planner) Clock() clock.Clock { return p.clk }

// AddTask creates a task and commits.
func (p *Planner) AddTask(ctx context.Context, req task.AddRequest) (model.Task, error) {
	t, err := p.tasks.Add(req, p.clk.Now())
	if err != nil {
		return model.Task{}, err
	}
	return t, p.commit(ctx)
}

// EditTask applies a partial update and commits.
func (p *Planner) EditTask(ctx context.Context, id string, req model.EditRequest) (model.Task, error) {
	t, err := p.tasks.Edit(id, req)
	if err != nil {
		return model.Task{}, err
	}
	return t, p.commit(ctx)
}

// ToggleComplete flips a task's completed flag and commits.
func (p *Planner) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	t, err := p.tasks.ToggleComplete(id)
	if err != nil {
		return model.Task{}, err
	}
	return t, p.commit(ctx)
}

// DeleteTask removes a task; commits only when one was removed.
func (p *Planner) DeleteTask(ctx context.Context, id string) (bool, error) {
	if !p.tasks.Delete(id) {
		return false, nil
	}
	return true, p.commit(ctx)
}

// LogSession applies a stopped session: hours into today's bucket, minutes
// onto the selected task. A task deleted mid-session is skipped silently.
func (p *Planner) LogSession(ctx context.Context, res timer.Result) error {
	now := p.clk.Now()
	hours := math.Round(float64(res.Minutes)/60*100) / 100
	if err := p.ledger.AddHours(clock.DayIndex(now), hours); err != nil {
		return err
	}
	if res.TaskID != timer.NoTask {
		if _, err := p.tasks.AddTimeSpent(res.TaskID, res.Minutes); err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
	}
	return p.commit(ctx)
}

// SetGoal updates the daily goal. Non-positive goals are rejected.
func (p *Planner) SetGoal(ctx context.Context, hours float64) error {
	if hours <= 0 {
		return fmt.Errorf("%w: daily goal must be positive", model.ErrInvalidInput)
	}
	p.goal = hours
	return p.commit(ctx)
}

// SetNotes replaces the freeform notes and commits.
func (p *Planner) SetNotes(ctx context.Context, notes string) error {
	p.notes = notes
	return p.commit(ctx)
}

// ToggleTheme flips between dark and light and commits.
func (p *Planner) ToggleTheme(ctx context.Context) (string, error) {
	if p.theme == ThemeDark {
		p.theme = ThemeLight
	} else {
		p.theme = ThemeDark
	}
	return p.theme, p.commit(ctx)
}

// ResetWeek zeroes the ledger, re-anchors it to the current Monday, and
// commits.
func (p *Planner) ResetWeek(ctx context.Context) error {
	p.ledger.Reset(p.clk.Now())
	return p.commit(ctx)
}

// Summary derives the aggregate numbers from current state.
func (p *Planner) Summary() stats.Summary {
	return stats.BuildSummary(p.tasks.Tasks(), p.ledger, clock.DayIndex(p.clk.Now()), p.goal)
}

func (p *Planner) commit(ctx context.Context) error {
	state := model.State{
		Tasks:     p.tasks.Tasks(),
		WeekData:  p.ledger.WeekData(),
		WeekStart: p.ledger.WeekStart(),
		DailyGoal: p.goal,
		Notes:     p.notes,
		Theme:     p.theme,
	}
	if err := p.st.SaveState(ctx, state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
