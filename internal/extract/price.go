package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// PriceContext selects which end of a price range wins.
// Posted prices (案件単価) quote up to the client's budget, so the upper
// bound is the real figure; desired prices (希望単価) quote from the
// engineer's floor, so the lower bound is.
type PriceContext int

const (
	// ContextPosted resolves ranges to the upper bound
	ContextPosted PriceContext = iota
	// ContextDesired resolves ranges to the lower bound
	ContextDesired
)

var (
	// Parenthesized figures after an amount, e.g. 70万円(140-200), are
	// settlement-hour bands, not prices, and are discarded outright.
	parentheticalPattern = regexp.MustCompile(`[（(][^）)]*[）)]`)

	// Numeric tokens with optional comma grouping, capturing a trailing
	// 万 or 円 unit marker.
	amountPattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+)\s*(万|円)?`)
)

// ParseUnitPrice extracts a unit price in 万円 (ten-thousand-yen units) from
// free-form price text. Returns false when no price is present.
//
//	"70万円(140-200)"  -> 70  (parenthetical ignored)
//	"60~70万"          -> 60 in ContextDesired, 70 in ContextPosted
//	"80万～100万"       -> 80 in ContextDesired, 100 in ContextPosted
//	"550,000円"        -> 55  (yen divided by 10000)
func ParseUnitPrice(text string, context PriceContext) (int, bool) {
	cleaned := parentheticalPattern.ReplaceAllString(text, "")

	matches := amountPattern.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return 0, false
	}

	var candidates []int
	for _, match := range matches {
		digits := strings.ReplaceAll(match[1], ",", "")
		value, err := strconv.Atoi(digits)
		if err != nil || value <= 0 {
			continue
		}

		switch match[2] {
		case "万":
			// already in 万円
		case "円":
			value = value / 10000
		default:
			// Bare numbers inside a range share the range's 万 unit;
			// anything in the yen magnitude gets converted.
			if value >= 10000 {
				value = value / 10000
			}
		}

		if value > 0 {
			candidates = append(candidates, value)
		}
	}

	if len(candidates) == 0 {
		return 0, false
	}

	result := candidates[0]
	for _, value := range candidates[1:] {
		if context == ContextPosted && value > result {
			result = value
		}
		if context == ContextDesired && value < result {
			result = value
		}
	}

	return result, true
}
