// Package selection defines the boundary between the sync pipeline and the
// operator-facing picker.
//
// The pipeline produces an ordered candidate set with a preselected subset;
// how those candidates are shown and chosen is up to the Selector
// implementation, which the core treats as a black box.
package selection

import (
	"context"

	"camsync/internal/metadata"
)

// Candidate is one synced file offered to the operator.
type Candidate struct {
	Path        string
	Record      metadata.Record
	Preselected bool
	Duplicate   bool
}

// Candidates is the ordered set handed to a Selector. Order is discovery
// order from the device walk.
type Candidates []Candidate

// Preselected returns the paths marked for preselection.
func (c Candidates) Preselected() []string {
	var paths []string
	for _, candidate := range c {
		if candidate.Preselected {
			paths = append(paths, candidate.Path)
		}
	}
	return paths
}

// Paths returns every candidate path in order.
func (c Candidates) Paths() []string {
	paths := make([]string, len(c))
	for i, candidate := range c {
		paths[i] = candidate.Path
	}
	return paths
}

// Build combines synced paths with their extracted records. Files rated
// above zero are preselected; missing records leave a candidate with a zero
// record and no preselection.
func Build(paths []string, records map[string]metadata.Record, duplicates map[string]bool) Candidates {
	candidates := make(Candidates, 0, len(paths))
	for _, path := range paths {
		candidate := Candidate{Path: path}
		if record, ok := records[path]; ok {
			candidate.Record = record
			candidate.Preselected = record.Rating > 0
		}
		candidate.Duplicate = duplicates[path]
		candidates = append(candidates, candidate)
	}
	return candidates
}

// Selector receives the candidate set and returns the operator's chosen
// subset of paths.
type Selector interface {
	Select(ctx context.Context, candidates Candidates) ([]string, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, candidates Candidates) ([]string, error)

func (f SelectorFunc) Select(ctx context.Context, candidates Candidates) ([]string, error) {
	return f(ctx, candidates)
}
