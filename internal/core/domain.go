package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Weight   Category = "WEIGHT"
	Calories Category = "CALORIES"
	Protein  Category = "PROTEIN"
	Steps    Category = "STEPS"
)

// SkipSentinel is the token a sender uses to say "no value for this category,
// don't ask again". It is never written to the sheet.
const SkipSentinel = "-"

type (
	Category string

	// Date is a calendar day. The wrapped time is always midnight UTC so that
	// day arithmetic is not affected by DST transitions.
	Date struct {
		time.Time
	}

	// AnchorSpec pins one category to the cell holding its value on Date.
	// LagDays is how many days before the run the message values refer to.
	AnchorSpec struct {
		Category Category
		Cell     CellAddress
		Date     Date
		LagDays  int
	}

	// InputRecord holds the raw values parsed from one inbound message.
	InputRecord map[Category]string
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidLag      = errors.New("invalid lag days")
	ErrZeroDate        = errors.New("date cannot be zero")
)

var categoryOrder = []Category{Weight, Calories, Protein, Steps}

// Categories returns the tracked categories in declaration order. The order
// drives both positional message parsing and report rendering.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) IsValid() bool {
	for _, k := range categoryOrder {
		if c == k {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Initial is the one-letter label used in reports.
func (c Category) Initial() string {
	if c == "" {
		return ""
	}
	return string(c)[:1]
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateIn returns the calendar day t falls on in loc.
func DateIn(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysSince counts whole calendar days from other to d. It is negative when d
// precedes other.
func (d Date) DaysSince(other Date) int {
	return int(d.Time.Sub(other.Time).Hours() / 24)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (a AnchorSpec) Validate() error {
	if !a.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
	}
	if err := a.Cell.Validate(); err != nil {
		return fmt.Errorf("anchor %s: %w", a.Category, err)
	}
	if err := a.Date.Validate(); err != nil {
		return fmt.Errorf("anchor %s: %w", a.Category, err)
	}
	if a.LagDays < 0 {
		return fmt.Errorf("anchor %s: %w: %d", a.Category, ErrInvalidLag, a.LagDays)
	}
	return nil
}
