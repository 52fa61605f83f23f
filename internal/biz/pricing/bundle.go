package pricing

import "negotiation_seller_agent/internal/biz/common"

// CakeMultiple reports how many cakes a request covers. It matches only a
// request for a single recipe ingredient in an exact positive multiple of
// what one cake needs.
func CakeMultiple(quantity map[string]int) (int, bool) {
	if len(quantity) != 1 {
		return 0, false
	}
	for good, wanted := range quantity {
		perCake, ok := common.CakeRecipe[good]
		if !ok || perCake <= 0 || wanted <= 0 || wanted%perCake != 0 {
			return 0, false
		}
		return wanted / perCake, true
	}
	return 0, false
}

// ScaleRecipe multiplies every ingredient of a recipe by n
func ScaleRecipe(recipe map[string]int, n int) map[string]int {
	scaled := make(map[string]int, len(recipe))
	for ingredient, amount := range recipe {
		scaled[ingredient] = amount * n
	}
	return scaled
}
