// Package numbering issues sequential document numbers scoped to a
// (prefix, year, month) bucket. Counters are persisted through a
// CounterRepository separate from the document collection, so numbers
// are never reclaimed when documents are deleted.
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"facturio/internal/domain"
	"facturio/internal/port"
)

// Default prefixes, overridable through configuration.
const (
	DefaultPrefixInvoice = "FAC"
	DefaultPrefixQuote   = "DEV"
)

// Config holds the numbering knobs.
type Config struct {
	PrefixInvoice string
	PrefixQuote   string
	// IncludeMonth controls whether document numbers (and bucket keys)
	// carry a month segment. Monthly and yearly buckets are disjoint;
	// the two modes must not be mixed within one deployment.
	IncludeMonth bool
}

// Allocator issues monotonically increasing, gap-free document numbers.
// The read-modify-write on the counter map is serialized by a mutex;
// cross-process callers are out of scope (single-actor model).
type Allocator struct {
	counters port.CounterRepository
	cfg      Config

	mu  sync.Mutex
	now func() time.Time
}

// NewAllocator creates an Allocator backed by the given counter store.
func NewAllocator(counters port.CounterRepository, cfg Config) *Allocator {
	if cfg.PrefixInvoice == "" {
		cfg.PrefixInvoice = DefaultPrefixInvoice
	}
	if cfg.PrefixQuote == "" {
		cfg.PrefixQuote = DefaultPrefixQuote
	}
	return &Allocator{
		counters: counters,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (a *Allocator) prefixFor(docType domain.DocumentType) string {
	if docType == domain.TypeQuote {
		return a.cfg.PrefixQuote
	}
	return a.cfg.PrefixInvoice
}

// bucketKey builds the counter key. The month segment is dropped when
// month inclusion is disabled, so yearly numbering runs its own bucket.
func (a *Allocator) bucketKey(prefix string, year, month int) string {
	if !a.cfg.IncludeMonth {
		return fmt.Sprintf("%s-%d", prefix, year)
	}
	return fmt.Sprintf("%s-%d-%d", prefix, year, month)
}

func (a *Allocator) format(prefix string, year, month, sequence int) string {
	if !a.cfg.IncludeMonth {
		return fmt.Sprintf("%s-%d-%03d", prefix, year, sequence)
	}
	return fmt.Sprintf("%s-%d-%02d-%03d", prefix, year, month, sequence)
}

// NextNumber atomically increments the bucket counter for the current
// year/month and returns the formatted document number. A counter
// persistence failure aborts the allocation: a lost increment would
// corrupt numbering uniqueness, so the error always propagates.
func (a *Allocator) NextNumber(ctx context.Context, docType domain.DocumentType) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := a.prefixFor(docType)
	now := a.now()
	year, month := now.Year(), int(now.Month())
	key := a.bucketKey(prefix, year, month)

	counters, err := a.counters.LoadCounters(ctx)
	if err != nil {
		return "", fmt.Errorf("numbering.NextNumber: loading counters: %w", err)
	}
	if counters == nil {
		counters = map[string]int{}
	}

	sequence := counters[key] + 1
	counters[key] = sequence
	if err := a.counters.SaveCounters(ctx, counters); err != nil {
		return "", fmt.Errorf("numbering.NextNumber: saving counters: %w", err)
	}

	return a.format(prefix, year, month, sequence), nil
}

// LastIssuedNumber formats the current counter value for the current
// bucket without incrementing it. Display purposes only.
func (a *Allocator) LastIssuedNumber(ctx context.Context, docType domain.DocumentType) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := a.prefixFor(docType)
	now := a.now()
	year, month := now.Year(), int(now.Month())

	sequence, err := a.currentSequence(ctx, prefix, year, month)
	if err != nil {
		return "", err
	}
	return a.format(prefix, year, month, sequence), nil
}

// CurrentSequence returns the last issued sequence for the given
// bucket, 0 if the bucket has never been seen.
func (a *Allocator) CurrentSequence(ctx context.Context, prefix string, year, month int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentSequence(ctx, prefix, year, month)
}

func (a *Allocator) currentSequence(ctx context.Context, prefix string, year, month int) (int, error) {
	counters, err := a.counters.LoadCounters(ctx)
	if err != nil {
		return 0, fmt.Errorf("numbering.CurrentSequence: loading counters: %w", err)
	}
	return counters[a.bucketKey(prefix, year, month)], nil
}

// SequenceNumber extracts the trailing sequence from a document number,
// accepting both the monthly (PREFIX-YYYY-MM-NNN) and yearly
// (PREFIX-YYYY-NNN) formats. Unparseable numbers yield 0.
func SequenceNumber(documentNumber string) int {
	parts := strings.Split(documentNumber, "-")
	if len(parts) != 3 && len(parts) != 4 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}
