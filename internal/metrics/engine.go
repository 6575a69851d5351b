package metrics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"admetrics/internal/model"
	"admetrics/internal/store"
)

// Engine reads a date's ingested tables and writes the derived KPI tables:
// one CPI table per dimension, plus ARPU and ROAS singletons.
type Engine struct {
	store *store.Store
	log   zerolog.Logger
}

// NewEngine returns a KPI engine over the given store.
func NewEngine(st *store.Store, log zerolog.Logger) *Engine {
	return &Engine{store: st, log: log}
}

// ComputeDaily derives and persists all KPI tables for one date. The daily
// installs, costs, events, and orders tables must already exist.
func (e *Engine) ComputeDaily(date time.Time) error {
	runID := store.NewRunID()
	started := time.Now()

	err := e.computeDaily(date)

	audit := store.RunRecord{
		RunID:      runID,
		Date:       date.Format(store.DateKey),
		Kind:       "metrics",
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err != nil {
		audit.Err = err.Error()
	} else {
		audit.Datasets = "cpi,arpu,roas"
	}
	if recErr := e.store.RecordRun(audit); recErr != nil {
		e.log.Warn().Err(recErr).Msg("recording audit row failed")
	}

	return err
}

func (e *Engine) computeDaily(date time.Time) error {
	installs, err := e.store.LoadInstalls(date)
	if err != nil {
		return fmt.Errorf("loading installs: %w", err)
	}
	costs, err := e.store.LoadCosts(date)
	if err != nil {
		return fmt.Errorf("loading costs: %w", err)
	}

	for _, dimension := range model.Dimensions {
		rows, err := ComputeCPI(dimension, installs, costs)
		if err != nil {
			return err
		}
		if err := e.store.SaveCPI(date, dimension, rows); err != nil {
			return fmt.Errorf("saving cpi %s: %w", dimension, err)
		}
		e.log.Info().Str("dimension", dimension).Int("rows", len(rows)).Msg("cpi table saved")
	}

	userIDs, err := e.store.EventUserIDs(date)
	if err != nil {
		return fmt.Errorf("loading event users: %w", err)
	}
	orders, err := e.store.LoadOrders(date)
	if err != nil {
		return fmt.Errorf("loading orders: %w", err)
	}

	arpu := ComputeARPU(userIDs, orders)
	if err := e.store.SaveARPU(date, arpu); err != nil {
		return fmt.Errorf("saving arpu: %w", err)
	}

	roas := ComputeROAS(orders, costs)
	if err := e.store.SaveROAS(date, roas); err != nil {
		return fmt.Errorf("saving roas: %w", err)
	}

	e.log.Info().
		Int64("unique_users", arpu.UniqueUsersCount).
		Float64("revenue", arpu.TotalRevenue).
		Float64("spend", roas.AmountSpent).
		Msg("kpi tables saved")
	return nil
}
