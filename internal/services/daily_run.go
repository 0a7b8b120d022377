package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fitlog/internal/chat"
	"fitlog/internal/core"
	"fitlog/internal/log"
)

type runIDKey struct{}

// WithRunID tags ctx with the id of the current run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFrom returns the run id stored in ctx, or "".
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// RunConfig is the static configuration of a daily run.
type RunConfig struct {
	Anchors core.AnchorSet
	// Location decides which calendar day "now" falls on.
	Location *time.Location
}

// DailyRun performs one scheduled run: read the latest status message, fill
// empty cells from it, read back the last completed day and report it.
type DailyRun struct {
	cfg        RunConfig
	source     chat.MessageSource
	sink       chat.MessageSink
	reconciler *Reconciler
	logger     *log.Logger
	newRunID   func() string
}

func NewDailyRun(cfg RunConfig, source chat.MessageSource, sink chat.MessageSink, reconciler *Reconciler, logger *log.Logger) (*DailyRun, error) {
	if cfg.Anchors.Len() == 0 {
		return nil, errors.New("daily run: no anchors configured")
	}
	if source == nil || sink == nil || reconciler == nil {
		return nil, errors.New("daily run: source, sink and reconciler are required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &DailyRun{
		cfg:        cfg,
		source:     source,
		sink:       sink,
		reconciler: reconciler,
		logger:     logger.WithComponent(log.ComponentRun),
		newRunID:   uuid.NewString,
	}, nil
}

// Run executes one run as of now and returns the delivered report. Any
// error aborts the run; cells already written stay written, and a rerun
// will not overwrite them.
func (d *DailyRun) Run(ctx context.Context, now time.Time) (core.Report, error) {
	runID := d.newRunID()
	logger := d.logger.With(log.FieldRunID, runID)
	ctx = log.NewContext(WithRunID(ctx, runID), logger)
	start := time.Now()

	today := core.DateIn(now, d.cfg.Location)
	runDate := today.AddDays(-1)
	logger.InfoContext(ctx, "Starting daily run",
		"today", today.String(),
		log.FieldReferenceDate, runDate.String())

	msg, err := d.source.LatestMessage(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("read latest message: %w", err)
	}

	input := core.ParseInput(msg.Text)
	if input.IsEmpty() {
		logger.WarnContext(ctx, "Unexpected input, discarding",
			"text", msg.Text,
			"expected_tokens", len(core.Categories()))
	} else {
		logger.InfoContext(ctx, "Parsed input", "values", map[core.Category]string(input))
	}

	values := make(map[core.Category]string, d.cfg.Anchors.Len())
	for _, anchor := range d.cfg.Anchors.All() {
		v, err := d.resolve(ctx, anchor, today, runDate, input)
		if err != nil {
			return core.Report{}, err
		}
		values[anchor.Category] = v
	}

	report := core.NewReport(runDate, values)
	logger.InfoContext(ctx, "Report ready", "text", report.String())

	if err := d.sink.Send(ctx, report); err != nil {
		return report, fmt.Errorf("deliver report: %w", err)
	}

	logger.InfoContext(ctx, "Daily run complete",
		log.FieldDuration, time.Since(start).Milliseconds())
	return report, nil
}

// resolve fills the anchor's entry day from input and returns the value for
// the report day. When the two days differ the report-day cell is only read.
func (d *DailyRun) resolve(ctx context.Context, anchor core.AnchorSpec, today, runDate core.Date, input core.InputRecord) (string, error) {
	entryDate := today.AddDays(-anchor.LagDays)
	if entryDate.Equal(runDate) {
		res, err := d.reconciler.Reconcile(ctx, runDate, anchor, input)
		if err != nil {
			return "", err
		}
		return res.Value, nil
	}

	if _, err := d.reconciler.Reconcile(ctx, entryDate, anchor, input); err != nil {
		return "", err
	}
	res, err := d.reconciler.Reconcile(ctx, runDate, anchor, nil)
	if err != nil {
		return "", err
	}
	return res.Value, nil
}
