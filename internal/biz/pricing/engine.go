package pricing

import (
	"math"

	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
)

// Request carries everything a pricing decision depends on
type Request struct {
	Offer   *common.Bundle
	Utility *common.UtilityInfo

	// LastSellPrice is the agent's most recent quote to this buyer, nil if none
	LastSellPrice *float64

	// TimeRemaining and RoundDuration are in seconds
	TimeRemaining float64
	RoundDuration float64
}

type variant int

const (
	// variantOffer answers direct offers and requests
	variantOffer variant = iota
	// variantHaggle answers haggling turns; it never counters above the buyer's price
	variantHaggle
)

func (v variant) String() string {
	if v == variantHaggle {
		return "haggle"
	}
	return "offer"
}

// Engine makes accept, reject and counter decisions on buyer offers
type Engine struct {
	rnd    RandomSource
	logger *zap.Logger
}

// NewEngine creates a pricing engine drawing markups from rnd
func NewEngine(rnd RandomSource, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rnd:    rnd,
		logger: logger.Named("pricing"),
	}
}

// DecideOnOffer answers a BuyOffer or BuyRequest
func (e *Engine) DecideOnOffer(req *Request) (*common.Bid, error) {
	return e.decide(req, variantOffer)
}

// DecideOnHaggle answers a Haggle turn
func (e *Engine) DecideOnHaggle(req *Request) (*common.Bid, error) {
	return e.decide(req, variantHaggle)
}

func (e *Engine) decide(req *Request, v variant) (*common.Bid, error) {
	if req == nil || req.Offer == nil {
		return nil, common.NewNegotiationError(common.ErrorCodeInvalidMessageBody, "Offer is required", "")
	}
	if req.Utility == nil {
		return nil, common.ErrUtilityNotSet
	}

	if CurrencyMismatch(req.Utility, req.Offer) {
		e.logger.Warn("Currency units do not match",
			zap.String("offer_unit", req.Offer.Price.Unit),
			zap.String("currency_unit", req.Utility.CurrencyUnit),
		)
	}

	utility, err := ComputeUtility(req.Utility, req.Offer)
	if err != nil {
		return nil, err
	}

	var bid *common.Bid
	if req.Offer.HasPrice() {
		bid = e.counter(req, utility, v)
	} else {
		bid, err = e.ask(req, utility)
		if err != nil {
			return nil, err
		}
	}

	e.logger.Info("Bid decided",
		zap.Stringer("variant", v),
		zap.String("bid_type", string(bid.Type)),
		zap.Float64("utility", utility),
	)
	return bid, nil
}

// counter handles an offer that names a price
func (e *Engine) counter(req *Request, utility float64, v variant) *common.Bid {
	offerPrice := *req.Offer.Price
	if offerPrice.Unit == "" {
		offerPrice.Unit = req.Utility.CurrencyUnit
	}
	quantity := common.CopyQuantity(req.Offer.Quantity)

	bundleCost := offerPrice.Value - utility
	if bundleCost <= 0 {
		// Goods that cost nothing: any price is pure margin
		return acceptBid(quantity, offerPrice)
	}

	markupRatio := utility / bundleCost

	if v == variantOffer {
		converged := req.LastSellPrice != nil && math.Abs(offerPrice.Value-*req.LastSellPrice) < common.MinDicker
		if markupRatio > common.AcceptMarkupRatio || converged {
			return acceptBid(quantity, offerPrice)
		}
	}

	if markupRatio < common.RejectMarkupRatio {
		return rejectBid(quantity)
	}

	price := e.GenerateSellPrice(bundleCost, offerPrice, req.LastSellPrice, req.TimeRemaining, req.RoundDuration)
	if price.Value < offerPrice.Value+common.MinDicker {
		return acceptBid(quantity, offerPrice)
	}
	if v == variantHaggle && price.Value > offerPrice.Value+common.MinDicker {
		return rejectBid(quantity)
	}

	return &common.Bid{
		Type:     common.BidSellOffer,
		Quantity: quantity,
		Price:    &price,
	}
}

// ask sets the agent's own price on a request that names none
func (e *Engine) ask(req *Request, utility float64) (*common.Bid, error) {
	if numCakes, ok := CakeMultiple(req.Offer.Quantity); ok {
		return e.cakeBundle(req.Utility, numCakes)
	}

	// With no price the utility is exactly minus the cost
	bundleCost := -utility
	markupRatio := common.AskMarkupMin + e.rnd.Float64()*common.AskMarkupSpread

	return &common.Bid{
		Type:     common.BidSellOffer,
		Quantity: common.CopyQuantity(req.Offer.Quantity),
		Price: &common.Price{
			Unit:  req.Utility.CurrencyUnit,
			Value: Quantize(markupRatio*bundleCost, common.PriceDecimals),
		},
	}, nil
}

func (e *Engine) cakeBundle(info *common.UtilityInfo, numCakes int) (*common.Bid, error) {
	bundle := ScaleRecipe(common.CakeRecipe, numCakes)
	cost, err := BundleCost(info, bundle)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Upselling cake bundle",
		zap.Int("cakes", numCakes),
		zap.Float64("bundle_cost", cost),
	)

	return &common.Bid{
		Type:     common.BidCakeBundleOffer,
		Quantity: bundle,
		Price: &common.Price{
			Unit:  info.CurrencyUnit,
			Value: Quantize(common.CakeBundleMarkup*cost, common.PriceDecimals),
		},
	}, nil
}

func acceptBid(quantity map[string]int, price common.Price) *common.Bid {
	return &common.Bid{
		Type:     common.BidAccept,
		Quantity: quantity,
		Price:    &price,
	}
}

func rejectBid(quantity map[string]int) *common.Bid {
	return &common.Bid{
		Type:     common.BidReject,
		Quantity: quantity,
	}
}
