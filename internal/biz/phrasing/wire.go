package phrasing

import (
	"github.com/google/wire"

	"negotiation_seller_agent/internal/biz/negotiation"
)

// ProviderSet is phrasing providers.
var ProviderSet = wire.NewSet(
	NewTranslatorFromConfig,
	wire.Bind(new(negotiation.Phraser), new(*Translator)),
)
