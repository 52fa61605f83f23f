package negotiation

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/conf"
)

// NegotiationContext bundles the round scoped state every decision reads:
// the session with its utility table, the bid history, the agent's identity
// and its response policy.
type NegotiationContext struct {
	Session *Session
	History *BidHistory
	Policy  ResponsePolicy

	mu   sync.RWMutex
	name string

	now func() time.Time
}

// NewNegotiationContext creates a context from agent configuration
func NewNegotiationContext(c *conf.Agent, logger *zap.Logger) *NegotiationContext {
	return newNegotiationContext(c, time.Now, logger)
}

func newNegotiationContext(c *conf.Agent, now func() time.Time, logger *zap.Logger) *NegotiationContext {
	name := common.DefaultAgentName
	var duration float64
	if c != nil {
		if c.Name != "" {
			name = c.Name
		}
		duration = c.DefaultRoundDuration
	}
	return &NegotiationContext{
		Session: NewSession(duration, now, logger),
		History: NewBidHistory(logger),
		Policy:  ResponsePolicy{Polite: c.IsPolite()},
		name:    name,
		now:     now,
	}
}

// Name returns the agent's name
func (nc *NegotiationContext) Name() string {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return nc.name
}

// SetUtility installs the utility table; a name in it renames the agent
func (nc *NegotiationContext) SetUtility(info *common.UtilityInfo) {
	if info != nil && info.Name != "" {
		nc.mu.Lock()
		nc.name = info.Name
		nc.mu.Unlock()
	}
	nc.Session.SetUtility(info)
}

// StartRound clears the bid history and activates the session
func (nc *NegotiationContext) StartRound(roundID json.RawMessage, roundDuration float64) {
	nc.History.Reset()
	nc.Session.StartRound(roundID, roundDuration)
}

// EndRound deactivates the session
func (nc *NegotiationContext) EndRound() {
	nc.Session.EndRound()
}

// Now returns the context's clock reading
func (nc *NegotiationContext) Now() time.Time {
	return nc.now()
}
