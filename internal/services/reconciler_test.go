package services

import (
	"context"
	"errors"
	"testing"

	"fitlog/internal/core"
	"fitlog/internal/log"
	"fitlog/internal/sheets"
	"fitlog/internal/sheets/memory"
)

var weightAnchor = core.AnchorSpec{
	Category: core.Weight,
	Cell:     core.MustParseCellAddress("B6"),
	Date:     core.NewDate(2023, 12, 4),
}

// failingStore fails reads or writes on demand.
type failingStore struct {
	*memory.Store
	getErr, setErr error
}

func (f *failingStore) Get(ctx context.Context, addr core.CellAddress) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Store.Get(ctx, addr)
}

func (f *failingStore) Set(ctx context.Context, addr core.CellAddress, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, addr, value)
}

type fakeJournal struct {
	entries []core.Reconciliation
	err     error
}

func (j *fakeJournal) RecordReconciliation(_ context.Context, rec core.Reconciliation) error {
	j.entries = append(j.entries, rec)
	return j.err
}

func newTestReconciler(t *testing.T, store sheets.CellStore, opts ...ReconcilerOption) *Reconciler {
	t.Helper()
	r, err := NewReconciler(store, core.DefaultDaysPerColumn, log.Discard(), opts...)
	if err != nil {
		t.Fatalf("NewReconciler: %v", err)
	}
	return r
}

func TestReconcile(t *testing.T) {
	ref := core.NewDate(2023, 12, 11) // resolves to C6

	tests := []struct {
		name        string
		stored      map[string]string
		input       core.InputRecord
		wantValue   string
		wantOutcome core.Outcome
		wantWrites  int
	}{
		{
			name:        "populated cell wins over input",
			stored:      map[string]string{"C6": "149"},
			input:       core.InputRecord{core.Weight: "150"},
			wantValue:   "149",
			wantOutcome: core.OutcomeFetched,
		},
		{
			name:        "populated cell returned with no input",
			stored:      map[string]string{"C6": " 149 "},
			wantValue:   " 149 ",
			wantOutcome: core.OutcomeFetched,
		},
		{
			name:        "empty cell filled from input",
			input:       core.InputRecord{core.Weight: "142"},
			wantValue:   "142",
			wantOutcome: core.OutcomeWritten,
			wantWrites:  1,
		},
		{
			name:        "whitespace-only cell counts as empty",
			stored:      map[string]string{"C6": "   "},
			input:       core.InputRecord{core.Weight: "142"},
			wantValue:   "142",
			wantOutcome: core.OutcomeWritten,
			wantWrites:  1,
		},
		{
			name:        "sentinel skips write",
			input:       core.InputRecord{core.Weight: "-"},
			wantOutcome: core.OutcomeSkipped,
		},
		{
			name:        "sentinel with padding still skips",
			input:       core.InputRecord{core.Weight: " - "},
			wantOutcome: core.OutcomeSkipped,
		},
		{
			name:        "missing category",
			input:       core.InputRecord{core.Steps: "8000"},
			wantOutcome: core.OutcomeMissing,
		},
		{
			name:        "blank input value",
			input:       core.InputRecord{core.Weight: "  "},
			wantOutcome: core.OutcomeMissing,
		},
		{
			name:        "nil input",
			wantOutcome: core.OutcomeMissing,
		},
		{
			name:        "value containing sentinel is written",
			input:       core.InputRecord{core.Weight: "--"},
			wantValue:   "--",
			wantOutcome: core.OutcomeWritten,
			wantWrites:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New(tt.stored)
			r := newTestReconciler(t, store)

			res, err := r.Reconcile(context.Background(), ref, weightAnchor, tt.input)
			if err != nil {
				t.Fatalf("Reconcile: %v", err)
			}
			if res.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", res.Value, tt.wantValue)
			}
			if res.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %s, want %s", res.Outcome, tt.wantOutcome)
			}
			if res.Address.String() != "C6" {
				t.Errorf("Address = %s, want C6", res.Address)
			}

			writes := store.Writes()
			if len(writes) != tt.wantWrites {
				t.Fatalf("writes = %+v, want %d", writes, tt.wantWrites)
			}
			if tt.wantWrites == 1 && (writes[0].Address.String() != "C6" || writes[0].Value != tt.wantValue) {
				t.Errorf("write = %+v, want %q at C6", writes[0], tt.wantValue)
			}
		})
	}
}

func TestReconcileIsFillOnce(t *testing.T) {
	store := memory.New(nil)
	r := newTestReconciler(t, store)
	ref := core.NewDate(2023, 12, 11)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, ref, weightAnchor, core.InputRecord{core.Weight: "150"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Reconcile(ctx, ref, weightAnchor, core.InputRecord{core.Weight: "155"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Value != "150" || res.Outcome != core.OutcomeFetched {
		t.Fatalf("second run = %+v, want fetched 150", res)
	}
	if n := len(store.Writes()); n != 1 {
		t.Fatalf("writes = %d, want 1", n)
	}
}

func TestReconcileStoreErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	ref := core.NewDate(2023, 12, 11)
	input := core.InputRecord{core.Weight: "150"}

	r := newTestReconciler(t, &failingStore{Store: memory.New(nil), getErr: boom})
	if _, err := r.Reconcile(context.Background(), ref, weightAnchor, input); !errors.Is(err, boom) {
		t.Errorf("read failure: got %v, want wrapped %v", err, boom)
	}

	r = newTestReconciler(t, &failingStore{Store: memory.New(nil), setErr: boom})
	if _, err := r.Reconcile(context.Background(), ref, weightAnchor, input); !errors.Is(err, boom) {
		t.Errorf("write failure: got %v, want wrapped %v", err, boom)
	}
}

func TestReconcileResolveError(t *testing.T) {
	r := newTestReconciler(t, memory.New(nil))
	// Three weeks before a column-B anchor is left of column A.
	_, err := r.Reconcile(context.Background(), core.NewDate(2023, 11, 13), weightAnchor, nil)
	if !errors.Is(err, core.ErrColumnOutOfRange) {
		t.Fatalf("got %v, want ErrColumnOutOfRange", err)
	}
}

func TestReconcileJournal(t *testing.T) {
	j := &fakeJournal{}
	r := newTestReconciler(t, memory.New(nil), WithJournal(j))
	ctx := WithRunID(context.Background(), "run-42")

	if _, err := r.Reconcile(ctx, core.NewDate(2023, 12, 11), weightAnchor, core.InputRecord{core.Weight: "-"}); err != nil {
		t.Fatal(err)
	}
	if len(j.entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(j.entries))
	}
	e := j.entries[0]
	if e.RunID != "run-42" || e.Outcome != core.OutcomeSkipped || e.Category != core.Weight || e.Address.String() != "C6" {
		t.Errorf("unexpected entry: %+v", e)
	}

	// A failing journal must not fail the reconciliation.
	j.err = errors.New("disk full")
	if _, err := r.Reconcile(ctx, core.NewDate(2023, 12, 12), weightAnchor, nil); err != nil {
		t.Fatalf("journal failure leaked: %v", err)
	}
}

func TestNewReconcilerValidation(t *testing.T) {
	if _, err := NewReconciler(nil, 7, nil); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := NewReconciler(memory.New(nil), 0, nil); !errors.Is(err, core.ErrInvalidDaysPerColumn) {
		t.Errorf("got %v, want ErrInvalidDaysPerColumn", err)
	}
}
