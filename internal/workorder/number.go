package workorder

import (
	"context"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	errors "github.com/frahmantamala/maintenance-management/internal"
)

const (
	numberPrefix      = "OT"
	numberSuffixLen   = 6
	maxNumberAttempts = 5
)

type NumberChecker interface {
	NumberExists(ctx context.Context, number string) (bool, error)
}

// NumberGenerator produces OT-YYYYMMDD-XXXXXX numbers. The suffix is the tail
// of a monotonic ULID, so numbers drawn in the same millisecond still differ.
type NumberGenerator struct {
	checker NumberChecker
	now     func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewNumberGenerator(checker NumberChecker) *NumberGenerator {
	return &NumberGenerator{
		checker: checker,
		now:     time.Now,
		entropy: ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (g *NumberGenerator) candidate() string {
	now := g.now().UTC()

	g.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), g.entropy).String()
	g.mu.Unlock()

	return numberPrefix + "-" + now.Format("20060102") + "-" + id[len(id)-numberSuffixLen:]
}

// Generate returns a number not yet used by any work order. The unique index
// on work_orders.number remains the final guard.
func (g *NumberGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number := g.candidate()
		exists, err := g.checker.NumberExists(ctx, number)
		if err != nil {
			return "", errors.NewInternalError("failed to check work order number", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", errors.ErrNumberGeneration
}
