// Package store holds the process-wide RFQ session state and the quote
// intake list. Both are reified stores with an explicit lifecycle so a
// durable backend can be substituted without touching reconciliation logic.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tubetrade/rfq-api/internal/domain"
)

// ErrNotFound is returned on a lookup miss, distinct from an RFQ that exists
// with zero line items.
var ErrNotFound = errors.New("rfq not found")

// RFQStore keeps the latest authoritative RFQ per identifier. Put replaces
// the whole record atomically: readers never observe a torn write. Racing
// puts for the same identifier are last-writer-wins; the store provides no
// compare-and-swap protection.
type RFQStore interface {
	Put(rfq *domain.RFQ)
	Get(rfqID string) (*domain.RFQ, error)
	List() []*domain.RFQ
}

// QuoteStore appends submitted quote payloads to a per-RFQ ordered list.
// Quotes are immutable once stored. The store deliberately does not validate
// the identifier against the RFQ store: an RFQ and its quotes are independent
// aggregates sharing only the identifier namespace.
type QuoteStore interface {
	Append(rfqID string, payload map[string]any) domain.Quote
	List(rfqID string) []domain.Quote
	RFQIDs() []string
}

// MemoryRFQStore is the volatile in-process RFQStore implementation.
type MemoryRFQStore struct {
	mu   sync.RWMutex
	rfqs map[string]*domain.RFQ
}

// NewMemoryRFQStore creates an empty session store.
func NewMemoryRFQStore() *MemoryRFQStore {
	return &MemoryRFQStore{rfqs: make(map[string]*domain.RFQ)}
}

// Put stores a deep copy of the RFQ under its identifier, replacing any
// previous state as one unit.
func (s *MemoryRFQStore) Put(rfq *domain.RFQ) {
	cp := rfq.Clone()
	s.mu.Lock()
	s.rfqs[cp.RFQID] = cp
	s.mu.Unlock()
}

// Get returns a deep copy of the stored RFQ or ErrNotFound.
func (s *MemoryRFQStore) Get(rfqID string) (*domain.RFQ, error) {
	s.mu.RLock()
	rfq, ok := s.rfqs[rfqID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return rfq.Clone(), nil
}

// List returns copies of all stored RFQs in identifier order. Used by the
// archive snapshot job.
func (s *MemoryRFQStore) List() []*domain.RFQ {
	s.mu.RLock()
	all := make([]*domain.RFQ, 0, len(s.rfqs))
	for _, rfq := range s.rfqs {
		all = append(all, rfq.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].RFQID < all[j].RFQID })
	return all
}

// MemoryQuoteStore is the volatile in-process QuoteStore implementation.
type MemoryQuoteStore struct {
	mu     sync.Mutex
	quotes map[string][]domain.Quote
	now    func() time.Time
}

// NewMemoryQuoteStore creates an empty quote intake.
func NewMemoryQuoteStore() *MemoryQuoteStore {
	return &MemoryQuoteStore{
		quotes: make(map[string][]domain.Quote),
		now:    time.Now,
	}
}

// Append records a quote payload at the end of the per-RFQ list. Each append
// is a single atomic operation; list order reflects arrival order.
func (s *MemoryQuoteStore) Append(rfqID string, payload map[string]any) domain.Quote {
	quote := domain.Quote{
		RFQID:      rfqID,
		Payload:    payload,
		ReceivedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.quotes[rfqID] = append(s.quotes[rfqID], quote)
	s.mu.Unlock()
	return quote
}

// List returns the quotes received for an RFQ in arrival order. The result
// is a copy; the caller cannot mutate stored state.
func (s *MemoryQuoteStore) List(rfqID string) []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Quote, len(s.quotes[rfqID]))
	copy(out, s.quotes[rfqID])
	return out
}

// RFQIDs returns every identifier quotes were submitted against, in sorted
// order. Quotes are independent of the session store, so this may include
// identifiers no RFQ was ever parsed for. Used by the archive snapshot job.
func (s *MemoryQuoteStore) RFQIDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.quotes))
	for id := range s.quotes {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	sort.Strings(ids)
	return ids
}
