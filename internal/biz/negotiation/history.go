package negotiation

import (
	"sync"

	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
)

// BidHistory keeps, per counterparty, the ordered negotiation acts of the
// current round. A counterparty without an open thread has no entry.
type BidHistory struct {
	mu      sync.Mutex
	threads map[string][]common.Interpretation

	// locks serialize whole decision cycles per counterparty
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	logger *zap.Logger
}

// NewBidHistory creates an empty bid history
func NewBidHistory(logger *zap.Logger) *BidHistory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BidHistory{
		threads: make(map[string][]common.Interpretation),
		locks:   make(map[string]*sync.Mutex),
		logger:  logger.Named("bid_history"),
	}
}

// Lock acquires the counterparty's decision lock and returns its release.
// Holding it makes a read-modify-write of that thread one logical step.
func (h *BidHistory) Lock(counterparty string) func() {
	h.locksMu.Lock()
	l, ok := h.locks[counterparty]
	if !ok {
		l = &sync.Mutex{}
		h.locks[counterparty] = l
	}
	h.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

// Record appends an act to the counterparty's thread, opening it if needed
func (h *BidHistory) Record(counterparty string, act common.Interpretation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.threads[counterparty] = append(h.threads[counterparty], act)
	h.logger.Debug("Recorded act",
		zap.String("counterparty", counterparty),
		zap.String("type", string(act.Type)),
		zap.Int("thread_length", len(h.threads[counterparty])),
	)
}

// Append adds an act only when the counterparty already has an open thread
func (h *BidHistory) Append(counterparty string, act common.Interpretation) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	thread, ok := h.threads[counterparty]
	if !ok {
		return false
	}
	h.threads[counterparty] = append(thread, act)
	return true
}

// Clear closes the counterparty's thread
func (h *BidHistory) Clear(counterparty string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.threads, counterparty)
	h.logger.Debug("Cleared thread", zap.String("counterparty", counterparty))
}

// Reset drops every thread; called at round start
func (h *BidHistory) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.threads = make(map[string][]common.Interpretation)
}

// Thread returns a copy of the counterparty's thread and whether it is open
func (h *BidHistory) Thread(counterparty string) ([]common.Interpretation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	thread, ok := h.threads[counterparty]
	if !ok {
		return nil, false
	}
	out := make([]common.Interpretation, len(thread))
	copy(out, thread)
	return out, true
}

// LastSellOffer returns the most recent SellOffer self made to the counterparty
func (h *BidHistory) LastSellOffer(counterparty, self string) (common.Interpretation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	thread := h.threads[counterparty]
	for i := len(thread) - 1; i >= 0; i-- {
		act := thread[i]
		if act.Type == common.InterpretationSellOffer && act.Metadata.Speaker == self {
			return act, true
		}
	}
	return common.Interpretation{}, false
}

// LastSellOfferPrice returns the price of the most recent own SellOffer, or nil
func (h *BidHistory) LastSellOfferPrice(counterparty, self string) *float64 {
	act, ok := h.LastSellOffer(counterparty, self)
	if !ok || act.Price == nil {
		return nil
	}
	price := act.Price.Value
	return &price
}

// Snapshot copies every open thread
func (h *BidHistory) Snapshot() map[string][]common.Interpretation {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string][]common.Interpretation, len(h.threads))
	for counterparty, thread := range h.threads {
		c := make([]common.Interpretation, len(thread))
		copy(c, thread)
		out[counterparty] = c
	}
	return out
}
