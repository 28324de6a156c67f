// Package workflow holds the ordered stage catalogs that drive application
// status and project phase progression.
package workflow

import (
	"errors"
	"fmt"
)

// ErrStageNotFound is returned when a stage is not a member of a catalog.
// Persisted stages are expected to be catalog members, so callers treat it as
// a data-integrity failure.
var ErrStageNotFound = errors.New("stage not found in catalog")

// Catalog is an ordered, fixed sequence of stages. The first stage is the
// initial state and the last stage is terminal.
type Catalog[S ~string] struct {
	name   string
	stages []S
	index  map[S]int
}

// NewCatalog builds a catalog from stages. It panics on an empty or
// duplicated sequence since catalogs are package-level constants.
func NewCatalog[S ~string](name string, stages ...S) *Catalog[S] {
	if len(stages) == 0 {
		panic(fmt.Sprintf("workflow: catalog %q has no stages", name))
	}
	index := make(map[S]int, len(stages))
	for i, s := range stages {
		if _, dup := index[s]; dup {
			panic(fmt.Sprintf("workflow: catalog %q has duplicate stage %q", name, s))
		}
		index[s] = i
	}
	cp := make([]S, len(stages))
	copy(cp, stages)
	return &Catalog[S]{name: name, stages: cp, index: index}
}

// Name returns the catalog name.
func (c *Catalog[S]) Name() string { return c.name }

// Len returns the number of stages.
func (c *Catalog[S]) Len() int { return len(c.stages) }

// Stages returns a copy of the ordered stages.
func (c *Catalog[S]) Stages() []S {
	cp := make([]S, len(c.stages))
	copy(cp, c.stages)
	return cp
}

// Initial returns the stage assigned at creation.
func (c *Catalog[S]) Initial() S { return c.stages[0] }

// Terminal returns the last stage.
func (c *Catalog[S]) Terminal() S { return c.stages[len(c.stages)-1] }

// Contains reports whether stage is a catalog member.
func (c *Catalog[S]) Contains(stage S) bool {
	_, ok := c.index[stage]
	return ok
}

// IndexOf returns the zero-based position of stage.
func (c *Catalog[S]) IndexOf(stage S) (int, error) {
	i, ok := c.index[stage]
	if !ok {
		return -1, fmt.Errorf("%s %q: %w", c.name, stage, ErrStageNotFound)
	}
	return i, nil
}

// IsTerminal reports whether stage is the last stage.
func (c *Catalog[S]) IsTerminal(stage S) bool {
	return stage == c.Terminal()
}

// Advance returns the stage after stage. The terminal stage advances to itself.
func (c *Catalog[S]) Advance(stage S) (S, error) {
	i, err := c.IndexOf(stage)
	if err != nil {
		return stage, err
	}
	if i == len(c.stages)-1 {
		return stage, nil
	}
	return c.stages[i+1], nil
}

// ProgressFraction returns (index+1)/len. A freshly created record already
// counts as one completed stage, so the result is never zero.
func (c *Catalog[S]) ProgressFraction(stage S) (float64, error) {
	i, err := c.IndexOf(stage)
	if err != nil {
		return 0, err
	}
	return float64(i+1) / float64(len(c.stages)), nil
}

// AtOrAfter reports whether stage is at or past mark in catalog order.
func (c *Catalog[S]) AtOrAfter(stage, mark S) bool {
	i, ok := c.index[stage]
	if !ok {
		return false
	}
	j, ok := c.index[mark]
	if !ok {
		return false
	}
	return i >= j
}

// Progress is the progress-bar view of a stage.
type Progress struct {
	Stage    string  `json:"stage"`
	Index    int     `json:"index"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
	Percent  int     `json:"percent"`
	Terminal bool    `json:"terminal"`
}

// ProgressOf builds the progress view of stage.
func (c *Catalog[S]) ProgressOf(stage S) (Progress, error) {
	frac, err := c.ProgressFraction(stage)
	if err != nil {
		return Progress{}, err
	}
	i := c.index[stage]
	return Progress{
		Stage:    string(stage),
		Index:    i,
		Total:    len(c.stages),
		Fraction: frac,
		Percent:  int(frac*100 + 0.5),
		Terminal: c.IsTerminal(stage),
	}, nil
}
