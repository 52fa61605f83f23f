package negotiation

import (
	"context"

	"negotiation_seller_agent/internal/biz/common"
)

// Interpreter is the external NLU collaborator
type Interpreter interface {
	Classify(ctx context.Context, msg *common.InboundMessage) (*common.Classification, error)
	Interpret(ctx context.Context, classification *common.Classification) (*common.Interpretation, error)
}

// Relay delivers outbound messages to the orchestrator
type Relay interface {
	Send(ctx context.Context, msg *common.OutboundMessage) error
}

// Phraser renders decisions as display text
type Phraser interface {
	TranslateBid(bid *common.Bid, confirm bool) string
	Canned(reply common.CannedReply, args ...interface{}) string
}
