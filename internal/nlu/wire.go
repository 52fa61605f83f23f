package nlu

import (
	"github.com/google/wire"

	"negotiation_seller_agent/internal/biz/negotiation"
)

// ProviderSet is nlu providers.
var ProviderSet = wire.NewSet(
	NewClient,
	wire.Bind(new(negotiation.Interpreter), new(*Client)),
)
