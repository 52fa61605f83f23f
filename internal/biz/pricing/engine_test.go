package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negotiation_seller_agent/internal/biz/common"
)

// fixedRandom always draws the same value
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func floatPtr(v float64) *float64 { return &v }

func bakeryUtility() *common.UtilityInfo {
	return &common.UtilityInfo{
		CurrencyUnit: "USD",
		Utility: map[string]common.GoodUtility{
			"egg":   {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.5}},
			"flour": {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.25}},
			"milk":  {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.3}},
			"sugar": {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.2}},
			"water": {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0}},
		},
	}
}

func offer(quantity map[string]int, value float64) *common.Bundle {
	return &common.Bundle{
		Quantity: quantity,
		Price:    &common.Price{Unit: "USD", Value: value},
	}
}

func TestEngine_DecideOnOffer(t *testing.T) {
	engine := NewEngine(fixedRandom(0.5), nil)

	tests := []struct {
		name      string
		req       *Request
		wantType  common.BidType
		wantPrice float64
	}{
		{
			name: "generous offer is accepted",
			req: &Request{
				Offer:         offer(map[string]int{"egg": 2}, 10),
				TimeRemaining: 600,
				RoundDuration: 600,
			},
			wantType:  common.BidAccept,
			wantPrice: 10,
		},
		{
			name: "lowball offer is rejected",
			req: &Request{
				Offer:         offer(map[string]int{"egg": 2}, 0.4),
				TimeRemaining: 600,
				RoundDuration: 600,
			},
			wantType: common.BidReject,
		},
		{
			name: "middling offer gets a counter",
			req: &Request{
				Offer:         offer(map[string]int{"egg": 2}, 1.5),
				TimeRemaining: 600,
				RoundDuration: 600,
			},
			// markup range [0.5, 2.0], midpoint 1.25 on a cost of 1.0
			wantType:  common.BidSellOffer,
			wantPrice: 2.25,
		},
		{
			name: "offer within a dicker of my last quote is accepted",
			req: &Request{
				Offer:         offer(map[string]int{"egg": 2}, 1.5),
				LastSellPrice: floatPtr(1.55),
				TimeRemaining: 600,
				RoundDuration: 600,
			},
			wantType:  common.BidAccept,
			wantPrice: 1.5,
		},
		{
			name: "counter too close to the offer becomes an accept",
			req: &Request{
				Offer:         offer(map[string]int{"egg": 2}, 2.9),
				TimeRemaining: 0,
				RoundDuration: 600,
			},
			wantType:  common.BidAccept,
			wantPrice: 2.9,
		},
		{
			name: "free goods are accepted at any price",
			req: &Request{
				Offer:         offer(map[string]int{"water": 3}, 1),
				TimeRemaining: 600,
				RoundDuration: 600,
			},
			wantType:  common.BidAccept,
			wantPrice: 1,
		},
		{
			name: "request without a price gets an ask",
			req: &Request{
				Offer:         &common.Bundle{Quantity: map[string]int{"egg": 3}},
				TimeRemaining: 600,
				RoundDuration: 600,
			},
			// markup 2.5 on a cost of 1.5
			wantType:  common.BidSellOffer,
			wantPrice: 3.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Utility = bakeryUtility()

			bid, err := engine.DecideOnOffer(tt.req)
			require.NoError(t, err)
			require.NotNil(t, bid)

			assert.Equal(t, tt.wantType, bid.Type)
			assert.Equal(t, tt.req.Offer.Quantity, bid.Quantity)
			if tt.wantType == common.BidReject {
				assert.Nil(t, bid.Price)
				return
			}
			require.NotNil(t, bid.Price)
			assert.Equal(t, "USD", bid.Price.Unit)
			assert.InDelta(t, tt.wantPrice, bid.Price.Value, 1e-9)
		})
	}
}

func TestEngine_DecideOnHaggle(t *testing.T) {
	engine := NewEngine(fixedRandom(0.5), nil)

	t.Run("counter above the offer is a reject", func(t *testing.T) {
		bid, err := engine.DecideOnHaggle(&Request{
			Offer:         offer(map[string]int{"egg": 2}, 1.5),
			Utility:       bakeryUtility(),
			TimeRemaining: 600,
			RoundDuration: 600,
		})
		require.NoError(t, err)
		assert.Equal(t, common.BidReject, bid.Type)
	})

	t.Run("generous haggle is accepted by the counter check", func(t *testing.T) {
		bid, err := engine.DecideOnHaggle(&Request{
			Offer:         offer(map[string]int{"egg": 2}, 10),
			Utility:       bakeryUtility(),
			TimeRemaining: 600,
			RoundDuration: 600,
		})
		require.NoError(t, err)
		// range collapses onto the implied markup of 9.0
		assert.Equal(t, common.BidAccept, bid.Type)
		assert.InDelta(t, 10.0, bid.Price.Value, 1e-9)
	})

	t.Run("converged haggle is accepted by the counter check", func(t *testing.T) {
		bid, err := engine.DecideOnHaggle(&Request{
			Offer:         offer(map[string]int{"egg": 2}, 1.5),
			Utility:       bakeryUtility(),
			LastSellPrice: floatPtr(1.55),
			TimeRemaining: 600,
			RoundDuration: 600,
		})
		require.NoError(t, err)
		// range [0.5, 0.55] gives 1.53, within a dicker of the offer
		assert.Equal(t, common.BidAccept, bid.Type)
		assert.InDelta(t, 1.5, bid.Price.Value, 1e-9)
	})
}

func TestEngine_CakeBundle(t *testing.T) {
	engine := NewEngine(fixedRandom(0.5), nil)

	bid, err := engine.DecideOnOffer(&Request{
		Offer:         &common.Bundle{Quantity: map[string]int{"egg": 4}},
		Utility:       bakeryUtility(),
		TimeRemaining: 600,
		RoundDuration: 600,
	})
	require.NoError(t, err)

	assert.Equal(t, common.BidCakeBundleOffer, bid.Type)
	assert.Equal(t, map[string]int{"egg": 4, "flour": 4, "milk": 2, "sugar": 2}, bid.Quantity)
	require.NotNil(t, bid.Price)
	assert.Equal(t, "USD", bid.Price.Unit)
	assert.InDelta(t, 6.0, bid.Price.Value, 1e-9)
}

func TestEngine_Errors(t *testing.T) {
	engine := NewEngine(fixedRandom(0.5), nil)

	t.Run("unknown good", func(t *testing.T) {
		_, err := engine.DecideOnOffer(&Request{
			Offer:   offer(map[string]int{"chocolate": 1}, 3),
			Utility: bakeryUtility(),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUnknownGood)
		assert.Contains(t, err.Error(), "chocolate")
	})

	t.Run("utility not set", func(t *testing.T) {
		_, err := engine.DecideOnOffer(&Request{Offer: offer(map[string]int{"egg": 1}, 3)})
		assert.ErrorIs(t, err, common.ErrUtilityNotSet)
	})

	t.Run("no offer", func(t *testing.T) {
		_, err := engine.DecideOnHaggle(&Request{Utility: bakeryUtility()})
		assert.ErrorIs(t, err, common.ErrInvalidMessageBody)
	})
}

func TestEngine_MissingOfferUnitUsesCurrency(t *testing.T) {
	engine := NewEngine(fixedRandom(0.5), nil)

	bid, err := engine.DecideOnOffer(&Request{
		Offer: &common.Bundle{
			Quantity: map[string]int{"egg": 2},
			Price:    &common.Price{Value: 1.5},
		},
		Utility:       bakeryUtility(),
		TimeRemaining: 600,
		RoundDuration: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, common.BidSellOffer, bid.Type)
	assert.Equal(t, "USD", bid.Price.Unit)
}
