package pricing

import (
	"math"

	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
)

// CeilingMarkupRatio is the highest markup the agent asks for when it has not
// yet quoted this buyer. It falls linearly from 2.0 at round start to 0.5 at
// the deadline; time outside [0, roundDuration] is clamped to that range.
func CeilingMarkupRatio(timeRemaining, roundDuration float64) float64 {
	if roundDuration <= 0 {
		return common.CeilingMarkupEnd
	}
	fraction := timeRemaining / roundDuration
	fraction = math.Max(0, math.Min(1, fraction))
	return common.CeilingMarkupStart - (common.CeilingMarkupStart-common.CeilingMarkupEnd)*(1.0-fraction)
}

// MaxMarkupRatio is the agent's own last quote expressed as a markup, or the
// time decayed ceiling when there is no previous quote.
func MaxMarkupRatio(bundleCost float64, lastSellPrice *float64, timeRemaining, roundDuration float64) float64 {
	if lastSellPrice != nil {
		return *lastSellPrice/bundleCost - 1.0
	}
	return CeilingMarkupRatio(timeRemaining, roundDuration)
}

// MarkupRange returns the interval a counter markup is drawn from. It never
// goes below the floor markup or the buyer's own implied markup, and a
// ceiling below the minimum collapses the range onto the minimum.
func MarkupRange(bundleCost float64, offerPrice common.Price, lastSellPrice *float64, timeRemaining, roundDuration float64) (float64, float64) {
	implied := offerPrice.Value/bundleCost - 1.0
	minRatio := math.Max(implied, common.FloorMarkupRatio)
	maxRatio := MaxMarkupRatio(bundleCost, lastSellPrice, timeRemaining, roundDuration)
	if maxRatio < minRatio {
		maxRatio = minRatio
	}
	return minRatio, maxRatio
}

// GenerateSellPrice produces a counter price sensitive to cost, this buyer's
// history and the time left in the round.
func (e *Engine) GenerateSellPrice(bundleCost float64, offerPrice common.Price, lastSellPrice *float64, timeRemaining, roundDuration float64) common.Price {
	minRatio, maxRatio := MarkupRange(bundleCost, offerPrice, lastSellPrice, timeRemaining, roundDuration)
	newRatio := minRatio + e.rnd.Float64()*(maxRatio-minRatio)

	price := common.Price{
		Unit:  offerPrice.Unit,
		Value: Quantize((1.0+newRatio)*bundleCost, common.PriceDecimals),
	}

	e.logger.Debug("Generated sell price",
		zap.Float64("bundle_cost", bundleCost),
		zap.Float64("offer_price", offerPrice.Value),
		zap.Float64("min_markup", minRatio),
		zap.Float64("max_markup", maxRatio),
		zap.Float64("markup", newRatio),
		zap.Float64("price", price.Value),
	)
	return price
}
