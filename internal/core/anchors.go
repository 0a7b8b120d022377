package core

import (
	"errors"
	"fmt"
)

var ErrIncompleteAnchors = errors.New("incomplete anchor set")

// AnchorSet holds exactly one AnchorSpec per category, in declaration order.
// It is built once from configuration and never modified.
type AnchorSet struct {
	anchors []AnchorSpec
}

func NewAnchorSet(specs []AnchorSpec) (AnchorSet, error) {
	byCat := make(map[Category]AnchorSpec, len(specs))
	for _, a := range specs {
		if err := a.Validate(); err != nil {
			return AnchorSet{}, err
		}
		if _, dup := byCat[a.Category]; dup {
			return AnchorSet{}, fmt.Errorf("duplicate anchor for %s", a.Category)
		}
		byCat[a.Category] = a
	}

	set := AnchorSet{anchors: make([]AnchorSpec, 0, len(categoryOrder))}
	for _, c := range categoryOrder {
		a, ok := byCat[c]
		if !ok {
			return AnchorSet{}, fmt.Errorf("%w: missing %s", ErrIncompleteAnchors, c)
		}
		set.anchors = append(set.anchors, a)
	}
	return set, nil
}

// All returns a copy of the anchors in declaration order.
func (s AnchorSet) All() []AnchorSpec {
	return append([]AnchorSpec(nil), s.anchors...)
}

func (s AnchorSet) Get(c Category) (AnchorSpec, bool) {
	for _, a := range s.anchors {
		if a.Category == c {
			return a, true
		}
	}
	return AnchorSpec{}, false
}

func (s AnchorSet) Len() int {
	return len(s.anchors)
}
