package pricing

import (
	"github.com/google/wire"

	"negotiation_seller_agent/internal/conf"
)

// ProviderSet is pricing providers.
var ProviderSet = wire.NewSet(
	NewEngine,
	NewRandomSourceFromConfig,
)

// NewRandomSourceFromConfig seeds the decision random source from agent config
func NewRandomSourceFromConfig(c *conf.Agent) RandomSource {
	var seed int64
	if c != nil {
		seed = c.RandomSeed
	}
	return NewRandomSource(seed)
}
