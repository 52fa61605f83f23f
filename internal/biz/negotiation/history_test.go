package negotiation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negotiation_seller_agent/internal/biz/common"
)

func TestBidHistory_Threads(t *testing.T) {
	h := NewBidHistory(nil)

	_, open := h.Thread(buyerName)
	assert.False(t, open)

	// Own messages do not open a thread
	assert.False(t, h.Append(buyerName, *ownSellOffer(buyerName, map[string]int{"egg": 2}, 2.25)))
	_, open = h.Thread(buyerName)
	assert.False(t, open)

	h.Record(buyerName, *buyerAct(common.InterpretationBuyOffer, agentName, map[string]int{"egg": 2}, 1.5))
	assert.True(t, h.Append(buyerName, *ownSellOffer(buyerName, map[string]int{"egg": 2}, 2.25)))

	thread, open := h.Thread(buyerName)
	require.True(t, open)
	require.Len(t, thread, 2)
	assert.Equal(t, common.InterpretationBuyOffer, thread[0].Type)
	assert.Equal(t, common.InterpretationSellOffer, thread[1].Type)

	h.Clear(buyerName)
	_, open = h.Thread(buyerName)
	assert.False(t, open)
}

func TestBidHistory_LastSellOffer(t *testing.T) {
	h := NewBidHistory(nil)
	assert.Nil(t, h.LastSellOfferPrice(buyerName, agentName))

	h.Record(buyerName, *buyerAct(common.InterpretationBuyOffer, agentName, map[string]int{"egg": 2}, 1.5))
	h.Append(buyerName, *ownSellOffer(buyerName, map[string]int{"egg": 2}, 2.5))
	h.Append(buyerName, *buyerAct(common.InterpretationHaggle, agentName, map[string]int{"egg": 2}, 1.8))
	h.Append(buyerName, *ownSellOffer(buyerName, map[string]int{"egg": 2}, 2.1))

	// Another seller's offer is not mine
	rival := *ownSellOffer(buyerName, map[string]int{"egg": 2}, 1.9)
	rival.Metadata.Speaker = "Celia"
	h.Append(buyerName, rival)

	offer, ok := h.LastSellOffer(buyerName, agentName)
	require.True(t, ok)
	assert.Equal(t, 2.1, offer.Price.Value)

	price := h.LastSellOfferPrice(buyerName, agentName)
	require.NotNil(t, price)
	assert.Equal(t, 2.1, *price)

	_, ok = h.LastSellOffer("Nobody", agentName)
	assert.False(t, ok)
}

func TestBidHistory_Reset(t *testing.T) {
	h := NewBidHistory(nil)
	h.Record("a", common.Interpretation{Type: common.InterpretationBuyOffer})
	h.Record("b", common.Interpretation{Type: common.InterpretationBuyOffer})
	assert.Len(t, h.Snapshot(), 2)

	h.Reset()
	assert.Empty(t, h.Snapshot())
}

func TestBidHistory_ThreadIsACopy(t *testing.T) {
	h := NewBidHistory(nil)
	h.Record(buyerName, common.Interpretation{Type: common.InterpretationBuyOffer})

	thread, _ := h.Thread(buyerName)
	thread[0].Type = common.InterpretationHaggle

	again, _ := h.Thread(buyerName)
	assert.Equal(t, common.InterpretationBuyOffer, again[0].Type)
}

func TestBidHistory_LockSerializesReadModifyWrite(t *testing.T) {
	h := NewBidHistory(nil)
	h.Record(buyerName, common.Interpretation{Type: common.InterpretationBuyOffer})

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := h.Lock(buyerName)
			defer unlock()

			thread, _ := h.Thread(buyerName)
			h.Clear(buyerName)
			for _, act := range thread {
				h.Record(buyerName, act)
			}
			h.Record(buyerName, common.Interpretation{Type: common.InterpretationHaggle})
		}()
	}
	wg.Wait()

	thread, open := h.Thread(buyerName)
	require.True(t, open)
	assert.Len(t, thread, workers+1)
}

func TestResponsePolicy_MayRespond(t *testing.T) {
	tests := []struct {
		name      string
		polite    bool
		role      common.Role
		addressee string
		want      bool
	}{
		{"polite, addressed to me", true, common.RoleBuyer, agentName, true},
		{"polite, addressed to nobody", true, common.RoleBuyer, "", true},
		{"polite, addressed to another seller", true, common.RoleBuyer, "Celia", false},
		{"polite, from a seller", true, common.RoleSeller, agentName, false},
		{"impolite, addressed to another seller", false, common.RoleBuyer, "Celia", true},
		{"impolite, from a seller", false, common.RoleSeller, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResponsePolicy{Polite: tt.polite}
			assert.Equal(t, tt.want, p.MayRespond(tt.role, tt.addressee, agentName))
		})
	}
}
