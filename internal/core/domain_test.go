package core

import (
	"errors"
	"testing"
	"time"
)

func TestCategoriesOrder(t *testing.T) {
	got := Categories()
	want := []Category{Weight, Calories, Protein, Steps}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Categories()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	got[0] = "MUTATED"
	if Categories()[0] != Weight {
		t.Fatal("Categories() exposes internal slice")
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" steps ")
	if err != nil || c != Steps {
		t.Fatalf("ParseCategory(steps) = %q, %v", c, err)
	}
	if _, err := ParseCategory("SLEEP"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestDateDaysSince(t *testing.T) {
	cases := []struct {
		a, b Date
		want int
	}{
		{NewDate(2023, 12, 11), NewDate(2023, 12, 4), 7},
		{NewDate(2023, 12, 4), NewDate(2023, 12, 4), 0},
		{NewDate(2023, 12, 3), NewDate(2023, 12, 4), -1},
		{NewDate(2024, 3, 11), NewDate(2024, 3, 10), 1}, // US DST start
		{NewDate(2024, 12, 4), NewDate(2023, 12, 4), 366},
	}
	for _, c := range cases {
		if got := c.a.DaysSince(c.b); got != c.want {
			t.Errorf("%s.DaysSince(%s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDateIn(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	// 02:00 UTC on the 11th is still the 10th in New York.
	now := time.Date(2023, 12, 11, 2, 0, 0, 0, time.UTC)
	if got := DateIn(now, loc); !got.Equal(NewDate(2023, 12, 10)) {
		t.Errorf("DateIn = %s, want 2023-12-10", got)
	}
	if got := DateIn(now, nil); !got.Equal(NewDate(2023, 12, 11)) {
		t.Errorf("DateIn(nil loc) = %s, want 2023-12-11", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-12-04")
	if err != nil || !d.Equal(NewDate(2023, 12, 4)) {
		t.Fatalf("ParseDate = %s, %v", d, err)
	}
	if _, err := ParseDate("04/12/2023"); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}

func defaultSpecs() []AnchorSpec {
	d := NewDate(2023, 12, 4)
	return []AnchorSpec{
		{Category: Steps, Cell: MustParseCellAddress("B25"), Date: d, LagDays: 1},
		{Category: Weight, Cell: MustParseCellAddress("B6"), Date: d},
		{Category: Protein, Cell: MustParseCellAddress("B43"), Date: d, LagDays: 1},
		{Category: Calories, Cell: MustParseCellAddress("B34"), Date: d, LagDays: 1},
	}
}

func TestNewAnchorSetOrdersByDeclaration(t *testing.T) {
	set, err := NewAnchorSet(defaultSpecs())
	if err != nil {
		t.Fatalf("NewAnchorSet: %v", err)
	}
	all := set.All()
	for i, c := range Categories() {
		if all[i].Category != c {
			t.Errorf("anchor %d = %s, want %s", i, all[i].Category, c)
		}
	}
	if a, ok := set.Get(Protein); !ok || a.Cell.String() != "B43" {
		t.Errorf("Get(PROTEIN) = %+v, %v", a, ok)
	}
}

func TestNewAnchorSetValidation(t *testing.T) {
	specs := defaultSpecs()

	if _, err := NewAnchorSet(specs[:3]); !errors.Is(err, ErrIncompleteAnchors) {
		t.Errorf("missing category: got %v", err)
	}

	dup := append(append([]AnchorSpec(nil), specs...), specs[0])
	if _, err := NewAnchorSet(dup); err == nil {
		t.Error("expected duplicate anchor error")
	}

	bad := append([]AnchorSpec(nil), specs...)
	bad[0].Cell = CellAddress{Column: "1", Row: 3}
	if _, err := NewAnchorSet(bad); !errors.Is(err, ErrInvalidCell) {
		t.Errorf("bad cell: got %v", err)
	}

	bad = append([]AnchorSpec(nil), specs...)
	bad[1].LagDays = -1
	if _, err := NewAnchorSet(bad); !errors.Is(err, ErrInvalidLag) {
		t.Errorf("negative lag: got %v", err)
	}

	bad = append([]AnchorSpec(nil), specs...)
	bad[2].Date = Date{}
	if _, err := NewAnchorSet(bad); !errors.Is(err, ErrZeroDate) {
		t.Errorf("zero date: got %v", err)
	}
}
