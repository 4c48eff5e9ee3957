package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// Registry is an immutable mapping from metric id to dataset.
// Updates require building a new registry.
type Registry struct {
	ids         []string
	byID        map[string]schema.MetricDataset
	fingerprint string
}

var _ contract.MetricRegistry = &Registry{} // Compile-time check

// NewRegistry validates the datasets and registers them in the given order.
func NewRegistry(datasets ...schema.MetricDataset) (*Registry, error) {
	if len(datasets) == 0 {
		return nil, &schema.InvalidDatasetError{Reason: "registry needs at least one dataset"}
	}
	r := &Registry{
		ids:  make([]string, 0, len(datasets)),
		byID: make(map[string]schema.MetricDataset, len(datasets)),
	}
	for _, d := range datasets {
		if err := ValidateDataset(d); err != nil {
			return nil, err
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, &schema.InvalidDatasetError{ID: d.ID, Reason: "duplicate id"}
		}
		d.Points = slices.Clone(d.Points)
		r.ids = append(r.ids, d.ID)
		r.byID[d.ID] = d
	}
	fp, err := fingerprintOf(r.Datasets())
	if err != nil {
		return nil, err
	}
	r.fingerprint = fp
	return r, nil
}

// ValidateDataset checks the invariants every registered dataset must hold.
func ValidateDataset(d schema.MetricDataset) error {
	fail := func(format string, args ...any) error {
		return &schema.InvalidDatasetError{ID: d.ID, Reason: fmt.Sprintf(format, args...)}
	}
	if d.ID == "" {
		return fail("id cannot be empty")
	}
	if len(d.Points) < 2 {
		return fail("needs at least 2 points, has %d", len(d.Points))
	}
	for i, p := range d.Points {
		if p.Index < 0 {
			return fail("point %d has negative index %d", i, p.Index)
		}
		if i > 0 && p.Index <= d.Points[i-1].Index {
			return fail("index %d does not increase after %d", p.Index, d.Points[i-1].Index)
		}
		if !isFinite(p.Baseline) || !isFinite(p.Current) {
			return fail("point %d has a non-finite value", i)
		}
		if p.Baseline < 0 || p.Current < 0 {
			return fail("point %d has a negative value", i)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Get returns the dataset for id. It never falls back to another dataset.
func (r *Registry) Get(id string) (schema.MetricDataset, error) {
	d, ok := r.byID[id]
	if !ok {
		return schema.MetricDataset{}, &schema.UnknownMetricError{ID: id}
	}
	d.Points = slices.Clone(d.Points)
	return d, nil
}

// ListIDs returns the ids in registration order.
func (r *Registry) ListIDs() []string {
	return slices.Clone(r.ids)
}

// Datasets returns copies of every dataset in registration order.
func (r *Registry) Datasets() []schema.MetricDataset {
	out := make([]schema.MetricDataset, 0, len(r.ids))
	for _, id := range r.ids {
		d := r.byID[id]
		d.Points = slices.Clone(d.Points)
		out = append(out, d)
	}
	return out
}

// Len returns the number of datasets.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Fingerprint returns a stable hash of the registry contents.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

func fingerprintOf(datasets []schema.MetricDataset) (string, error) {
	data, err := json.Marshal(datasets)
	if err != nil {
		return "", fmt.Errorf("cannot fingerprint registry: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
