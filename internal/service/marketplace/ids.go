// internal/service/marketplace/ids.go

package marketplace

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces unique identifiers for new spots and bookings
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs
type UUIDGenerator struct{}

// NewID returns a new random UUID
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// SequenceGenerator issues predictable ids: prefix-1, prefix-2, ...
type SequenceGenerator struct {
	prefix string
	next   atomic.Int64
}

// NewSequenceGenerator creates a counter-based generator
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next id in the sequence
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
