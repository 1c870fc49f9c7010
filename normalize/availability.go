package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/shopcrawl"
)

// Stock phrase tables in priority order: an explicit out-of-stock
// phrase always beats an ambiguous "limited availability" match, and
// nothing ever maps to a guessed positive state. Entries are matched
// against lowercased text with spaces and hyphens removed, which also
// covers schema.org availability URLs like
// "https://schema.org/OutOfStock".
var (
	outOfStockPhrases = []string{"outofstock", "soldout", "nolongeravailable", "currentlyunavailable", "discontinued", "notavailable", "unavailable"}
	preorderPhrases   = []string{"preorder", "presale", "comingsoon", "availablefororder"}
	backorderPhrases  = []string{"backorder", "backordered"}
	limitedPhrases    = []string{"limitedavailability", "limitedstock", "lowstock", "onlyafewleft", "fewleft", "almostgone", "sellingfast"}
	// Bare "available" is deliberately absent: it appears inside too
	// many ambiguous phrases ("limited availability") to be a safe
	// positive signal.
	inStockPhrases = []string{"instock", "readytoship", "shipstoday", "availablenow"}
)

// Trailing quantity patterns: "Only 3 left in stock", "5 left", "3 remaining".
var quantityRe = regexp.MustCompile(`(?i)\b(\d+)\s+(?:items?\s+|units?\s+)?(?:left|remaining|available|in stock)\b`)

// ParseAvailability maps free-text stock phrases to the closed status
// set. Unrecognized text maps to StockUnknown.
func ParseAvailability(text string) shopcrawl.Availability {
	availability := shopcrawl.Availability{Status: shopcrawl.StockUnknown}
	text = strings.TrimSpace(text)
	if text == "" {
		return availability
	}

	folded := foldPhrase(text)

	if m := quantityRe.FindStringSubmatch(text); m != nil {
		if qty, err := strconv.Atoi(m[1]); err == nil {
			availability.Quantity = &qty
		}
	}

	switch {
	case matchesAny(folded, outOfStockPhrases):
		availability.Status = shopcrawl.StockOutOfStock
	case matchesAny(folded, preorderPhrases):
		availability.Status = shopcrawl.StockPreorder
	case matchesAny(folded, backorderPhrases):
		availability.Status = shopcrawl.StockBackorder
	case matchesAny(folded, limitedPhrases) || availability.Quantity != nil:
		// An explicit count ("only 3 left in stock") is a limited
		// signal even when the text also says "in stock".
		availability.Status = shopcrawl.StockLimited
	case matchesAny(folded, inStockPhrases):
		availability.Status = shopcrawl.StockInStock
	}

	return availability
}

// foldPhrase lowercases and strips spaces, hyphens and underscores so
// phrase variants and schema.org URL forms compare equal.
func foldPhrase(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

func matchesAny(folded string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}
