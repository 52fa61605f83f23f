package pricing

import (
	"sort"

	"negotiation_seller_agent/internal/biz/common"
)

// ComputeUtility returns the seller's profit on a bundle: its proposed price
// (zero when absent) minus the cost of every good in it. A good missing from
// the utility table is an UNKNOWN_GOOD error, never a zero cost.
func ComputeUtility(info *common.UtilityInfo, bundle *common.Bundle) (float64, error) {
	if info == nil {
		return 0, common.ErrUtilityNotSet
	}
	if bundle == nil {
		return 0, nil
	}

	cost, err := BundleCost(info, bundle.Quantity)
	if err != nil {
		return 0, err
	}

	price := 0.0
	if bundle.Price != nil {
		price = bundle.Price.Value
	}
	return price - cost, nil
}

// BundleCost sums unit cost times quantity over the goods of a bundle
func BundleCost(info *common.UtilityInfo, quantity map[string]int) (float64, error) {
	if info == nil {
		return 0, common.ErrUtilityNotSet
	}

	cost := 0.0
	for _, good := range sortedGoods(quantity) {
		unitCost, ok := info.UnitCost(good)
		if !ok {
			return 0, common.UnknownGoodError(good)
		}
		cost += unitCost * float64(quantity[good])
	}
	return cost, nil
}

// CurrencyMismatch reports whether the bundle's price is quoted in a unit
// other than the utility table's currency. Conversion is not supported.
func CurrencyMismatch(info *common.UtilityInfo, bundle *common.Bundle) bool {
	if info == nil || bundle == nil || bundle.Price == nil || bundle.Price.Unit == "" {
		return false
	}
	return bundle.Price.Unit != info.CurrencyUnit
}

func sortedGoods(quantity map[string]int) []string {
	goods := make([]string, 0, len(quantity))
	for good := range quantity {
		goods = append(goods, good)
	}
	sort.Strings(goods)
	return goods
}
