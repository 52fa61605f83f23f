package common

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies which side of the market a participant plays
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// GoodParameters holds the cost parameters of a single good
type GoodParameters struct {
	UnitCost float64 `json:"unitcost"`
}

// GoodUtility is the utility description of one good
type GoodUtility struct {
	Type       string         `json:"type,omitempty"`
	Parameters GoodParameters `json:"parameters"`
}

// UtilityInfo is the seller's cost table, assigned once per round by the orchestrator
type UtilityInfo struct {
	RoundID      json.RawMessage        `json:"roundId,omitempty"`
	Name         string                 `json:"name,omitempty"`
	CurrencyUnit string                 `json:"currencyUnit"`
	Utility      map[string]GoodUtility `json:"utility"`
}

// UnitCost returns the unit cost of a good, or false when the good is not in the table
func (u *UtilityInfo) UnitCost(good string) (float64, bool) {
	if u == nil || u.Utility == nil {
		return 0, false
	}
	g, ok := u.Utility[good]
	if !ok {
		return 0, false
	}
	return g.Parameters.UnitCost, true
}

// Price is an amount in a currency unit
type Price struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// Bundle is a set of goods with quantities and an optional proposed price
type Bundle struct {
	Quantity map[string]int `json:"quantity"`
	Price    *Price         `json:"price,omitempty"`
}

// HasPrice reports whether the bundle carries a usable proposed price.
// A zero price is treated the same as no price.
func (b *Bundle) HasPrice() bool {
	return b != nil && b.Price != nil && b.Price.Value != 0
}

// InterpretationType is the negotiation act recognized in a message
type InterpretationType string

const (
	InterpretationBuyOffer      InterpretationType = "BuyOffer"
	InterpretationBuyRequest    InterpretationType = "BuyRequest"
	InterpretationSellOffer     InterpretationType = "SellOffer"
	InterpretationHaggle        InterpretationType = "Haggle"
	InterpretationAcceptOffer   InterpretationType = "AcceptOffer"
	InterpretationRejectOffer   InterpretationType = "RejectOffer"
	InterpretationInformation   InterpretationType = "Information"
	InterpretationNotUnderstood InterpretationType = "NotUnderstood"
)

// InterpretationTypes lists every known interpretation type
var InterpretationTypes = []InterpretationType{
	InterpretationBuyOffer,
	InterpretationBuyRequest,
	InterpretationSellOffer,
	InterpretationHaggle,
	InterpretationAcceptOffer,
	InterpretationRejectOffer,
	InterpretationInformation,
	InterpretationNotUnderstood,
}

// Valid reports whether t is a known interpretation type
func (t InterpretationType) Valid() bool {
	for _, known := range InterpretationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON keeps types the agent does not know about as they are, so
// the dispatcher can ignore them instead of failing the whole message
func (t *InterpretationType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("interpretation type: %w", err)
	}
	*t = InterpretationType(s)
	return nil
}

// Metadata describes who said what to whom
type Metadata struct {
	Speaker         string `json:"speaker"`
	Addressee       string `json:"addressee,omitempty"`
	Role            Role   `json:"role"`
	EnvironmentUUID string `json:"environmentUUID,omitempty"`
}

// Interpretation is the structured reading of a message produced by the NLU service
type Interpretation struct {
	Type     InterpretationType `json:"type"`
	Metadata Metadata           `json:"metadata"`
	Quantity map[string]int     `json:"quantity,omitempty"`
	Price    *Price             `json:"price,omitempty"`
}

// Offer returns the bundle carried by the interpretation
func (i *Interpretation) Offer() *Bundle {
	return &Bundle{Quantity: i.Quantity, Price: i.Price}
}

// BidType is the kind of decision the pricing engine makes
type BidType string

const (
	BidSellOffer       BidType = "SellOffer"
	BidAccept          BidType = "Accept"
	BidReject          BidType = "Reject"
	BidCakeBundleOffer BidType = "CakeBundleOffer"
)

// Bid is a decision of the agent. Price is nil for Reject.
type Bid struct {
	Type     BidType        `json:"type"`
	Quantity map[string]int `json:"quantity"`
	Price    *Price         `json:"price"`
}

// Intent is one classified intent with its confidence
type Intent struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Entity is one extracted entity
type Entity struct {
	Entity     string  `json:"entity"`
	Value      string  `json:"value"`
	Location   []int   `json:"location,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Classification is the NLU service's raw reading of a message
type Classification struct {
	Text            string          `json:"text"`
	Speaker         string          `json:"speaker"`
	Addressee       string          `json:"addressee,omitempty"`
	Role            Role            `json:"role"`
	EnvironmentUUID string          `json:"environmentUUID,omitempty"`
	Intents         []Intent        `json:"intents,omitempty"`
	Entities        []Entity        `json:"entities,omitempty"`
	RoundID         json.RawMessage `json:"roundId,omitempty"`
}

// InboundMessage is a negotiation message delivered by the orchestrator
type InboundMessage struct {
	Text            string          `json:"text"`
	Speaker         string          `json:"speaker"`
	Addressee       string          `json:"addressee,omitempty"`
	Role            Role            `json:"role"`
	EnvironmentUUID string          `json:"environmentUUID,omitempty"`
	RoundID         json.RawMessage `json:"roundId,omitempty"`
	Timestamp       *time.Time      `json:"timestamp,omitempty"`
}

// OutboundMessage is a message the agent sends to the orchestrator relay
type OutboundMessage struct {
	Text            string          `json:"text"`
	Speaker         string          `json:"speaker"`
	Role            Role            `json:"role"`
	Addressee       string          `json:"addressee"`
	EnvironmentUUID string          `json:"environmentUUID,omitempty"`
	TimeStamp       time.Time       `json:"timeStamp"`
	Bid             *Bid            `json:"bid,omitempty"`
	RoundID         json.RawMessage `json:"roundId,omitempty"`
}

// Rejection reports that the orchestrator rejected one of the agent's messages
type Rejection struct {
	Rationale       string          `json:"rationale,omitempty"`
	Bid             *Bid            `json:"bid,omitempty"`
	Text            string          `json:"text,omitempty"`
	Speaker         string          `json:"speaker,omitempty"`
	Role            Role            `json:"role,omitempty"`
	Addressee       string          `json:"addressee,omitempty"`
	EnvironmentUUID string          `json:"environmentUUID,omitempty"`
	RoundID         json.RawMessage `json:"roundId,omitempty"`
}

// CopyQuantity returns an independent copy of a quantity map
func CopyQuantity(q map[string]int) map[string]int {
	if q == nil {
		return nil
	}
	out := make(map[string]int, len(q))
	for good, n := range q {
		out[good] = n
	}
	return out
}
