package negotiation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/biz/pricing"
	"negotiation_seller_agent/internal/conf"
)

const (
	agentName = "Agent007"
	buyerName = "Jeff"
)

// fixedRandom always draws the same value
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubPhraser renders bids and replies as their type names
type stubPhraser struct{}

func (stubPhraser) TranslateBid(bid *common.Bid, confirm bool) string {
	if confirm {
		return "confirm " + string(bid.Type)
	}
	return string(bid.Type)
}

func (stubPhraser) Canned(reply common.CannedReply, args ...interface{}) string {
	if len(args) == 0 {
		return string(reply)
	}
	return fmt.Sprintf("%s %v", reply, args)
}

// fakeNLU returns a preset interpretation
type fakeNLU struct {
	interpretation  *common.Interpretation
	err             error
	// environment the classifier stamps on its result
	environmentUUID string

	mu       sync.Mutex
	messages []*common.InboundMessage
}

func (f *fakeNLU) Classify(ctx context.Context, msg *common.InboundMessage) (*common.Classification, error) {
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &common.Classification{
		Text:            msg.Text,
		Speaker:         msg.Speaker,
		Addressee:       msg.Addressee,
		Role:            msg.Role,
		EnvironmentUUID: f.environmentUUID,
	}, nil
}

func (f *fakeNLU) Interpret(ctx context.Context, classification *common.Classification) (*common.Interpretation, error) {
	if f.err != nil {
		return nil, f.err
	}
	it := *f.interpretation
	it.Metadata.EnvironmentUUID = classification.EnvironmentUUID
	return &it, nil
}

// fakeRelay records what it is asked to send
type fakeRelay struct {
	err error

	mu   sync.Mutex
	sent []*common.OutboundMessage
}

func (f *fakeRelay) Send(ctx context.Context, msg *common.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeRelay) Sent() []*common.OutboundMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*common.OutboundMessage(nil), f.sent...)
}

func bakeryUtility() *common.UtilityInfo {
	return &common.UtilityInfo{
		RoundID:      []byte("3"),
		CurrencyUnit: "USD",
		Utility: map[string]common.GoodUtility{
			"egg":   {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.5}},
			"flour": {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.25}},
			"milk":  {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.3}},
			"sugar": {Type: "unitcost", Parameters: common.GoodParameters{UnitCost: 0.2}},
		},
	}
}

// newTestContext returns a context with utility set and a 600 second round running
func newTestContext(polite bool) (*NegotiationContext, *fakeClock) {
	clock := newFakeClock()
	nc := newNegotiationContext(&conf.Agent{Name: agentName, Polite: &polite}, clock.Now, nil)
	nc.SetUtility(bakeryUtility())
	nc.StartRound(nil, 600)
	return nc, clock
}

func newTestDispatcher(nc *NegotiationContext) *Dispatcher {
	return NewDispatcher(nc, pricing.NewEngine(fixedRandom(0.5), nil), stubPhraser{}, nil)
}

func buyerAct(t common.InterpretationType, addressee string, quantity map[string]int, price float64) *common.Interpretation {
	it := &common.Interpretation{
		Type: t,
		Metadata: common.Metadata{
			Speaker:         buyerName,
			Addressee:       addressee,
			Role:            common.RoleBuyer,
			EnvironmentUUID: "env-1",
		},
		Quantity: quantity,
	}
	if price != 0 {
		it.Price = &common.Price{Unit: "USD", Value: price}
	}
	return it
}

func ownSellOffer(to string, quantity map[string]int, price float64) *common.Interpretation {
	return &common.Interpretation{
		Type: common.InterpretationSellOffer,
		Metadata: common.Metadata{
			Speaker:   agentName,
			Addressee: to,
			Role:      common.RoleSeller,
		},
		Quantity: quantity,
		Price:    &common.Price{Unit: "USD", Value: price},
	}
}
