// Package loot defines weighted loot tables and the drop simulations behind
// the roll commands.
package loot

import (
	"fmt"

	"github.com/cory-johannsen/tridentbot/internal/game/random"
)

// Entry is one weighted outcome of a Table.
type Entry struct {
	Name   string `yaml:"name"`
	Weight int64  `yaml:"weight"`
}

// Table is a weighted list of outcomes. An entry is picked with probability
// Weight / Total().
type Table []Entry

// Validate checks that the table satisfies its invariants.
//
// Postcondition: Returns nil iff the table is non-empty and every entry has a
// name and a positive weight.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("table must not be empty")
	}
	for i, e := range t {
		if e.Name == "" {
			return fmt.Errorf("entry[%d] must have a non-empty name", i)
		}
		if e.Weight <= 0 {
			return fmt.Errorf("entry[%d] %q weight must be > 0, got %d", i, e.Name, e.Weight)
		}
	}
	return nil
}

// Total returns the sum of all weights.
func (t Table) Total() int64 {
	var total int64
	for _, e := range t {
		total += e.Weight
	}
	return total
}

// Pick draws one entry name.
//
// Precondition: t must have passed Validate().
func (t Table) Pick(src random.Source) string {
	roll := random.Range(src, 0, t.Total())
	for _, e := range t {
		if roll < e.Weight {
			return e.Name
		}
		roll -= e.Weight
	}
	return t[len(t)-1].Name
}

// Pool is a weighted group of entries, used for two-stage draws such as
// fishing (category first, then item).
type Pool struct {
	Name    string `yaml:"name"`
	Weight  int64  `yaml:"weight"`
	Entries Table  `yaml:"entries"`
}

// Pools is a weighted list of Pool.
type Pools []Pool

// Validate checks every pool and its entries.
func (p Pools) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("pools must not be empty")
	}
	for i, pool := range p {
		if pool.Weight <= 0 {
			return fmt.Errorf("pool[%d] %q weight must be > 0, got %d", i, pool.Name, pool.Weight)
		}
		if err := pool.Entries.Validate(); err != nil {
			return fmt.Errorf("pool[%d] %q: %w", i, pool.Name, err)
		}
	}
	return nil
}

// Pick draws a pool by weight and then an entry from it.
//
// Precondition: p must have passed Validate().
func (p Pools) Pick(src random.Source) string {
	var total int64
	for _, pool := range p {
		total += pool.Weight
	}
	roll := random.Range(src, 0, total)
	for _, pool := range p {
		if roll < pool.Weight {
			return pool.Entries.Pick(src)
		}
		roll -= pool.Weight
	}
	return p[len(p)-1].Entries.Pick(src)
}

// Stage is one checkpoint of a simulated run: with Chance percent probability
// the run ends here with one of the outcomes.
type Stage struct {
	Name     string `yaml:"name"`
	Chance   int64  `yaml:"chance"`
	Outcomes Table  `yaml:"outcomes"`
}

// Run is an ordered list of stages with a fallback outcome for runs that
// survive every stage.
type Run struct {
	Stages   []Stage `yaml:"stages"`
	Fallback string  `yaml:"fallback"`
}

// Validate checks the stage chances and outcome tables.
func (r Run) Validate() error {
	if r.Fallback == "" {
		return fmt.Errorf("fallback must not be empty")
	}
	for i, s := range r.Stages {
		if s.Chance < 1 || s.Chance > 100 {
			return fmt.Errorf("stage[%d] %q chance must be in [1, 100], got %d", i, s.Name, s.Chance)
		}
		if err := s.Outcomes.Validate(); err != nil {
			return fmt.Errorf("stage[%d] %q: %w", i, s.Name, err)
		}
	}
	return nil
}

// Play simulates the run and returns the outcome of the first stage whose
// chance roll hits, or the fallback.
//
// Precondition: r must have passed Validate().
func (r Run) Play(src random.Source) string {
	for _, s := range r.Stages {
		if random.Between(src, 1, 100) <= s.Chance {
			return s.Outcomes.Pick(src)
		}
	}
	return r.Fallback
}
