package relay

import (
	"github.com/google/wire"

	"negotiation_seller_agent/internal/biz/negotiation"
)

// ProviderSet is relay providers.
var ProviderSet = wire.NewSet(
	NewClient,
	wire.Bind(new(negotiation.Relay), new(*Client)),
)
