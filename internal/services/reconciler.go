// Package services provides business logic and orchestration services.
//
// This file implements fill-once reconciliation of a single sheet cell: a
// populated cell is the source of truth and is never overwritten; an empty
// cell is filled from the parsed message unless the sender skipped it.
package services

import (
	"context"
	"fmt"
	"strings"

	"fitlog/internal/core"
	"fitlog/internal/log"
	"fitlog/internal/sheets"
)

// Journal records the outcome of every reconciled cell.
type Journal interface {
	RecordReconciliation(ctx context.Context, rec core.Reconciliation) error
}

// Result is the resolved state of one cell after reconciliation.
type Result struct {
	Category      core.Category
	ReferenceDate core.Date
	Address       core.CellAddress
	Value         string
	Outcome       core.Outcome
}

// Reconciler resolves one category's cell for a day against the store.
type Reconciler struct {
	store         sheets.CellStore
	daysPerColumn int
	journal       Journal
	logger        *log.Logger
}

// ReconcilerOption configures optional collaborators.
type ReconcilerOption func(*Reconciler)

// WithJournal records each outcome in j. Journal failures are logged and do
// not fail the reconciliation.
func WithJournal(j Journal) ReconcilerOption {
	return func(r *Reconciler) {
		r.journal = j
	}
}

func NewReconciler(store sheets.CellStore, daysPerColumn int, logger *log.Logger, opts ...ReconcilerOption) (*Reconciler, error) {
	if store == nil {
		return nil, fmt.Errorf("reconciler: nil cell store")
	}
	if daysPerColumn <= 0 {
		return nil, fmt.Errorf("reconciler: %w: %d", core.ErrInvalidDaysPerColumn, daysPerColumn)
	}
	if logger == nil {
		logger = log.Discard()
	}
	r := &Reconciler{
		store:         store,
		daysPerColumn: daysPerColumn,
		logger:        logger.WithComponent(log.ComponentReconciler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Reconcile resolves the anchor's cell for ref. Store errors are returned
// as-is wrapped; there is no retry.
func (r *Reconciler) Reconcile(ctx context.Context, ref core.Date, anchor core.AnchorSpec, input core.InputRecord) (Result, error) {
	addr, err := core.ResolveAnchor(ref, anchor, r.daysPerColumn)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", anchor.Category, err)
	}
	res := Result{Category: anchor.Category, ReferenceDate: ref, Address: addr}
	logger := log.FromContext(ctx, r.logger).
		WithComponent(log.ComponentReconciler).
		WithFields(log.NewFields().WithCell(anchor.Category.String(), ref.String(), addr.String()))

	stored, err := r.store.Get(ctx, addr)
	if err != nil {
		return Result{}, fmt.Errorf("%s: read %s: %w", anchor.Category, addr, err)
	}

	switch v := input.Value(anchor.Category); {
	case strings.TrimSpace(stored) != "":
		res.Value, res.Outcome = stored, core.OutcomeFetched
		logger.DebugContext(ctx, "Cell already populated", log.FieldOutcome, res.Outcome.String(), log.FieldValue, stored)
	case v == "":
		res.Outcome = core.OutcomeMissing
		logger.InfoContext(ctx, "Cell empty and no input value", log.FieldOutcome, res.Outcome.String())
	case v == core.SkipSentinel:
		res.Outcome = core.OutcomeSkipped
		logger.InfoContext(ctx, "Skip sentinel received, leaving cell empty", log.FieldOutcome, res.Outcome.String())
	default:
		if err := r.store.Set(ctx, addr, v); err != nil {
			return Result{}, fmt.Errorf("%s: write %s: %w", anchor.Category, addr, err)
		}
		res.Value, res.Outcome = v, core.OutcomeWritten
		logger.InfoContext(ctx, "Cell filled from input", log.FieldOutcome, res.Outcome.String(), log.FieldValue, v)
	}

	r.record(ctx, logger, res)
	return res, nil
}

func (r *Reconciler) record(ctx context.Context, logger *log.Logger, res Result) {
	if r.journal == nil {
		return
	}
	err := r.journal.RecordReconciliation(ctx, core.Reconciliation{
		RunID:         RunIDFrom(ctx),
		ReferenceDate: res.ReferenceDate,
		Category:      res.Category,
		Address:       res.Address,
		Outcome:       res.Outcome,
		Value:         res.Value,
	})
	if err != nil {
		logger.WarnContext(ctx, "Failed to journal reconciliation",
			log.FieldOutcome, res.Outcome.String(),
			log.FieldError, err)
	}
}
