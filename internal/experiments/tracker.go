package experiments

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"sync"

	"github.com/floripafacil/backend/pkg/logger"
)

// AssignmentStore is the persistence capability for visitor→variant
// assignments. An empty string from Get means "not assigned yet".
type AssignmentStore interface {
	Get(ctx context.Context, visitorID string) (string, error)
	Set(ctx context.Context, visitorID, variant string) error
}

const lockStripes = 64

// Tracker assigns visitors to variants, accumulates funnel counters, and
// derives the comparison report. Counters live in memory only: this is a
// lightweight instrumentation facility, not a durable analytics pipeline,
// and a restart losing them is accepted.
type Tracker struct {
	store AssignmentStore
	draw  func() Variant

	// Per-identity striped locks make "check persisted assignment, then
	// write if absent" a single unit, so two concurrent first contacts for
	// the same visitor cannot race to different variants.
	locks [lockStripes]sync.Mutex

	a counters
	b counters
}

func NewTracker(store AssignmentStore) *Tracker {
	return &Tracker{
		store: store,
		draw: func() Variant {
			if rand.IntN(2) == 0 {
				return VariantA
			}
			return VariantB
		},
	}
}

// Assign returns the visitor's variant, drawing and persisting one on first
// contact. A store failure never blocks the page: the freshly drawn variant
// is returned anyway and the visitor may simply be re-rolled next visit.
func (t *Tracker) Assign(ctx context.Context, visitorID string) Variant {
	lock := &t.locks[stripeFor(visitorID)]
	lock.Lock()
	defer lock.Unlock()

	stored, err := t.store.Get(ctx, visitorID)
	if err != nil {
		logger.WarnContext(ctx, "assignment store read failed", "error", err, "visitor_id", visitorID)
	} else if v, ok := ParseVariant(stored); ok {
		return v
	}

	v := t.draw()
	if err := t.store.Set(ctx, visitorID, string(v)); err != nil {
		logger.WarnContext(ctx, "assignment store write failed", "error", err, "visitor_id", visitorID)
	}
	return v
}

// Record increments the named counter for the variant by exactly one.
func (t *Tracker) Record(v Variant, kind EventKind) {
	switch v {
	case VariantA:
		t.a.add(kind)
	case VariantB:
		t.b.add(kind)
	}
}

// Metrics returns the current counter snapshots for both variants.
func (t *Tracker) Metrics() (a, b Metrics) {
	return t.a.snapshot(), t.b.snapshot()
}

// Reset zeroes all counters. Administrative use only; assignments in the
// store are untouched.
func (t *Tracker) Reset() {
	t.a.reset()
	t.b.reset()
}

// Seed preloads both variants' counters, replacing current values.
func (t *Tracker) Seed(a, b Metrics) {
	t.a.seed(a)
	t.b.seed(b)
}

func stripeFor(visitorID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(visitorID))
	return h.Sum32() % lockStripes
}
