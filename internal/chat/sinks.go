package chat

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"fitlog/internal/core"
	"fitlog/internal/log"
)

// DryRunSink prints the would-be message instead of delivering it.
type DryRunSink struct {
	out    io.Writer
	logger *log.Logger
}

func NewDryRunSink(out io.Writer, logger *log.Logger) *DryRunSink {
	return &DryRunSink{out: out, logger: logger}
}

func (s *DryRunSink) Send(ctx context.Context, report core.Report) error {
	s.logger.InfoContext(ctx, "Dry run, report not delivered",
		log.FieldDryRun, true,
		log.FieldReferenceDate, report.Date.String())
	if s.out == nil {
		return nil
	}
	if _, err := fmt.Fprintf(s.out, "\ndry_run=true\n\n%s\n", report.String()); err != nil {
		return fmt.Errorf("write dry run report: %w", err)
	}
	return nil
}

// Fanout delivers a report to every sink concurrently. The first failure
// cancels the others and is returned.
type Fanout []MessageSink

func (f Fanout) Send(ctx context.Context, report core.Report) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink := sink // per-iteration copy; module targets go 1.21 loop semantics
		g.Go(func() error {
			return sink.Send(ctx, report)
		})
	}
	return g.Wait()
}
