package biz

import (
	"github.com/google/wire"

	"negotiation_seller_agent/internal/biz/negotiation"
	"negotiation_seller_agent/internal/biz/phrasing"
	"negotiation_seller_agent/internal/biz/pricing"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	pricing.ProviderSet,
	phrasing.ProviderSet,
	negotiation.ProviderSet,
)
