package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fitlog/internal/core"
)

// AnchorsFile is the on-disk form of an anchor set:
//
//	anchor_date: 2023-12-04
//	anchors:
//	  - category: WEIGHT
//	    cell: B6
//	  - category: CALORIES
//	    cell: B34
//	    lag_days: 1
//
// An anchor without its own date uses anchor_date, then ANCHOR_DATE.
type AnchorsFile struct {
	AnchorDate string        `yaml:"anchor_date"`
	Anchors    []AnchorEntry `yaml:"anchors"`
}

type AnchorEntry struct {
	Category string `yaml:"category"`
	Cell     string `yaml:"cell"`
	Date     string `yaml:"date"`
	LagDays  int    `yaml:"lag_days"`
}

// DefaultAnchors is the layout of the production sheet: one block of rows
// per category, one column per week starting at column B.
func DefaultAnchors(date core.Date) (core.AnchorSet, error) {
	return core.NewAnchorSet([]core.AnchorSpec{
		{Category: core.Weight, Cell: core.MustParseCellAddress("B6"), Date: date, LagDays: 0},
		{Category: core.Calories, Cell: core.MustParseCellAddress("B34"), Date: date, LagDays: 1},
		{Category: core.Protein, Cell: core.MustParseCellAddress("B43"), Date: date, LagDays: 1},
		{Category: core.Steps, Cell: core.MustParseCellAddress("B25"), Date: date, LagDays: 1},
	})
}

// LoadAnchors builds the anchor set from ANCHORS_FILE when set, otherwise
// from the defaults anchored at ANCHOR_DATE.
func (c *Config) LoadAnchors() (core.AnchorSet, error) {
	fallback, err := core.ParseDate(c.AnchorDate)
	if err != nil {
		return core.AnchorSet{}, fmt.Errorf("anchor date: %w", err)
	}
	if c.AnchorsFile == "" {
		return DefaultAnchors(fallback)
	}

	data, err := os.ReadFile(c.AnchorsFile)
	if err != nil {
		return core.AnchorSet{}, fmt.Errorf("read anchors file: %w", err)
	}
	set, err := ParseAnchors(data, fallback)
	if err != nil {
		return core.AnchorSet{}, fmt.Errorf("%s: %w", c.AnchorsFile, err)
	}
	return set, nil
}

// ParseAnchors decodes a YAML anchors document. Unknown keys are rejected.
func ParseAnchors(data []byte, fallback core.Date) (core.AnchorSet, error) {
	var file AnchorsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return core.AnchorSet{}, fmt.Errorf("decode anchors: %w", err)
	}

	if file.AnchorDate != "" {
		d, err := core.ParseDate(file.AnchorDate)
		if err != nil {
			return core.AnchorSet{}, fmt.Errorf("anchor_date: %w", err)
		}
		fallback = d
	}

	specs := make([]core.AnchorSpec, 0, len(file.Anchors))
	for i, e := range file.Anchors {
		spec, err := e.spec(fallback)
		if err != nil {
			return core.AnchorSet{}, fmt.Errorf("anchors[%d]: %w", i, err)
		}
		specs = append(specs, spec)
	}
	return core.NewAnchorSet(specs)
}

func (e AnchorEntry) spec(fallback core.Date) (core.AnchorSpec, error) {
	cat, err := core.ParseCategory(e.Category)
	if err != nil {
		return core.AnchorSpec{}, err
	}
	cell, err := core.ParseCellAddress(e.Cell)
	if err != nil {
		return core.AnchorSpec{}, err
	}
	date := fallback
	if e.Date != "" {
		if date, err = core.ParseDate(e.Date); err != nil {
			return core.AnchorSpec{}, err
		}
	}
	return core.AnchorSpec{Category: cat, Cell: cell, Date: date, LagDays: e.LagDays}, nil
}
