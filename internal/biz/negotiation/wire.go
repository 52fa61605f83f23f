package negotiation

import (
	"github.com/google/wire"

	"negotiation_seller_agent/internal/biz/common"
)

// ProviderSet is negotiation providers.
var ProviderSet = wire.NewSet(
	NewNegotiationContext,
	NewDispatcher,
	NewAgent,
	common.NewNegotiationMetrics,
)
