package core

import (
	"fmt"
	"strings"
)

// ReportLine is one category's resolved value for the report day.
type ReportLine struct {
	Category Category
	Value    string
}

// Report is the daily summary posted back to the chat.
type Report struct {
	Date  Date
	Lines []ReportLine
}

// NewReport orders values by category declaration order. Categories without
// an entry in values are left out.
func NewReport(date Date, values map[Category]string) Report {
	r := Report{Date: date}
	for _, c := range Categories() {
		v, ok := values[c]
		if !ok {
			continue
		}
		r.Lines = append(r.Lines, ReportLine{Category: c, Value: v})
	}
	return r
}

// Header is the "day/month" first line, without zero padding.
func (r Report) Header() string {
	return fmt.Sprintf("%d/%d", r.Date.Day(), int(r.Date.Month()))
}

// Values returns the report lines as a map.
func (r Report) Values() map[Category]string {
	out := make(map[Category]string, len(r.Lines))
	for _, l := range r.Lines {
		out[l.Category] = l.Value
	}
	return out
}

func (r Report) String() string {
	lines := make([]string, 0, len(r.Lines)+1)
	lines = append(lines, r.Header())
	for _, l := range r.Lines {
		lines = append(lines, l.Category.Initial()+" "+l.Value)
	}
	return strings.Join(lines, "\n")
}
