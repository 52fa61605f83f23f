package common

// Acknowledgment statuses returned to the orchestrator
const (
	StatusAcknowledged       = "Acknowledged"
	StatusNoMessageBody      = "Failed; no message body"
	StatusRoundNotActive     = "Failed; round not active"
	StatusInvalidMessageBody = "Failed; invalid message body"
)

// Pricing constants
const (
	// MinDicker is the smallest price difference treated as a real disagreement
	MinDicker = 0.10

	// AcceptMarkupRatio is the markup above which an offer is accepted outright
	AcceptMarkupRatio = 2.0

	// RejectMarkupRatio is the markup below which an offer is rejected outright
	RejectMarkupRatio = -0.5

	// FloorMarkupRatio is the lowest markup the agent will counter with
	FloorMarkupRatio = 0.20

	// CeilingMarkupStart and CeilingMarkupEnd bound the time decayed markup ceiling
	CeilingMarkupStart = 2.0
	CeilingMarkupEnd   = 0.5

	// AskMarkupMin and AskMarkupSpread define the markup range when the buyer names no price
	AskMarkupMin    = 2.0
	AskMarkupSpread = 1.0

	// CakeBundleMarkup is the price multiple applied to a cake bundle's cost
	CakeBundleMarkup = 1.5

	// PriceDecimals is the number of fractional digits kept on prices
	PriceDecimals = 2
)

// CakeRecipe is the quantity of each ingredient needed for one cake
var CakeRecipe = map[string]int{
	"egg":   2,
	"flour": 2,
	"milk":  1,
	"sugar": 1,
}

// Session defaults
const (
	DefaultRoundDuration = 600
	DefaultSpeaker       = "Jeff"
	DefaultAgentName     = "Agent007"
	DefaultPort          = 14007
)

// Rejection rationale that triggers a courtesy message
const RationaleInsufficientBudget = "Insufficient budget"

// CannedReply names a fixed reply that does not depend on a bid
type CannedReply string

const (
	ReplyNoOutstandingOffer CannedReply = "no_outstanding_offer"
	ReplyRejectConfusion    CannedReply = "reject_confusion"
	ReplyRejectNoThread     CannedReply = "reject_no_thread"
	ReplyRejectionRegret    CannedReply = "rejection_regret"
	ReplyInformationAck     CannedReply = "information_ack"
	ReplyInsufficientBudget CannedReply = "insufficient_budget"
)
