// Package app holds the state a front end binds to: the last result and
// whether a query is running.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/malambomutila/ai-weather-app/internal/input"
	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/present"
)

// ErrBusy is returned when a query is started while another is running.
var ErrBusy = errors.New("query already in progress")

// ReportService produces a report for a city.
type ReportService interface {
	GetReport(ctx context.Context, city string) (models.Report, error)
}

// App serializes queries and remembers the outcome of the last one.
// A failed query records its error but keeps the previous report.
type App struct {
	svc ReportService

	mu        sync.Mutex
	busy      bool
	last      models.Report
	hasReport bool
	lastErr   error
}

// New returns an App backed by svc.
func New(svc ReportService) *App {
	return &App{svc: svc}
}

// Query runs one lookup and blocks until it finishes.
func (a *App) Query(ctx context.Context, city string) (models.Report, error) {
	if !a.begin() {
		return models.Report{}, ErrBusy
	}
	return a.run(ctx, city)
}

// QueryAsync starts a lookup in a new goroutine and calls done with the result.
// It returns ErrBusy without calling done when a query is already running.
// done runs on the worker goroutine, after the state has been updated.
func (a *App) QueryAsync(ctx context.Context, city string, done func(models.Report, error)) error {
	if !a.begin() {
		return ErrBusy
	}
	go func() {
		r, err := a.run(ctx, city)
		if done != nil {
			done(r, err)
		}
	}()
	return nil
}

// RunOnce reads one city from src, queries it, and hands the outcome to p.
// input.ErrCancelled is returned silently. Other input errors and query errors
// go to p.PresentError and are returned; input errors never reach the service.
func (a *App) RunOnce(ctx context.Context, src input.Source, p present.Presenter) error {
	city, err := src.ReadCity(ctx)
	if err != nil {
		if errors.Is(err, input.ErrCancelled) {
			return err
		}
		return presentError(ctx, p, err)
	}
	report, err := a.Query(ctx, city)
	if err != nil {
		return presentError(ctx, p, err)
	}
	return p.Present(ctx, report)
}

func presentError(ctx context.Context, p present.Presenter, err error) error {
	if perr := p.PresentError(ctx, err); perr != nil {
		return errors.Join(err, perr)
	}
	return err
}

// LastReport returns the most recent successful report, if any.
func (a *App) LastReport() (models.Report, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last, a.hasReport
}

// LastErr returns the error of the most recent query, or nil if it succeeded.
func (a *App) LastErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Busy reports whether a query is running.
func (a *App) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

func (a *App) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return false
	}
	a.busy = true
	return true
}

func (a *App) run(ctx context.Context, city string) (models.Report, error) {
	r, err := a.svc.GetReport(ctx, city)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy = false
	a.lastErr = err
	if err == nil {
		a.last = r
		a.hasReport = true
	}
	return r, err
}
