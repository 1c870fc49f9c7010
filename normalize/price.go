package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/shopcrawl"
	"golang.org/x/text/currency"
)

// Currency symbols mapped to ISO 4217 codes. Multi-character symbols
// must sort before their single-character prefixes so "C$" beats "$".
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"C$", "CAD"},
	{"A$", "AUD"},
	{"NZ$", "NZD"},
	{"HK$", "HKD"},
	{"zł", "PLN"},
	{"₹", "INR"},
	{"₩", "KRW"},
	{"£", "GBP"},
	{"€", "EUR"},
	{"¥", "JPY"},
	{"$", "USD"},
}

var (
	// "was $25.00 now $19.99", "Was: £30 Now: £25" - prefer the now value.
	wasNowRe = regexp.MustCompile(`(?i)\bwas\b.*?\bnow\b[:\s]*(.+)$`)

	// "£25 – £40", "25-40", "10 to 20" - two numbers separated by a
	// dash or "to", the second optionally prefixed by its own currency
	// marker. Requiring a digit right after the separator keeps
	// "6-pack" style noise out.
	rangeRe = regexp.MustCompile(`(?i)([\d][\d.,]*)\s*(?:-|–|—|\bto\b)\s*(?:[£$€¥]|[A-Z]{3}\s*)?([\d][\d.,]*)`)

	// "from £25" - an open-ended range; the single number is the
	// lower bound.
	fromRe = regexp.MustCompile(`(?i)^\s*from\s+(.+)$`)

	// Tax inclusion phrases.
	incTaxRe = regexp.MustCompile(`(?i)\b(?:inc|incl|including|inclusive of)\.?\s*(?:of\s+)?(?:vat|tax|gst)\b`)
	excTaxRe = regexp.MustCompile(`(?i)(?:\b(?:ex|exc|excl|excluding|exclusive of|plus)\.?\s*(?:of\s+)?(?:vat|tax|gst)\b|\+\s*(?:vat|tax|gst)\b)`)

	// First numeric token with optional separators.
	numberRe = regexp.MustCompile(`\d+(?:[.,\s]\d+)*`)

	// Bare ISO currency code token.
	isoCodeRe = regexp.MustCompile(`\b([A-Z]{3})\b`)
)

// ParsePrice normalizes free-text price strings. currencyHint, when
// non-empty, is a currency code extracted separately (e.g. from
// structured data) and wins over symbols found in the text.
//
// Unparsable text yields a nil Amount, never a guessed value, so
// consumers can distinguish "free" from "unknown".
func ParsePrice(text, currencyHint string) shopcrawl.Price {
	price := shopcrawl.Price{Currency: normalizeCurrencyCode(currencyHint)}
	text = strings.TrimSpace(text)
	if text == "" {
		return price
	}

	// Tax phrases apply to the whole string, before any trimming.
	if incTaxRe.MatchString(text) {
		t := true
		price.IncludesTax = &t
	} else if excTaxRe.MatchString(text) {
		f := false
		price.IncludesTax = &f
	}

	if price.Currency == "" {
		price.Currency = detectCurrency(text)
	}

	// Discount patterns: keep the "now" side only.
	if m := wasNowRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	// Range patterns: mark the range and keep the lower bound.
	if m := rangeRe.FindStringSubmatch(text); m != nil {
		low := parseAmount(m[1])
		high := parseAmount(m[2])
		if low != nil && high != nil && *high >= *low {
			price.IsRange = true
			price.Amount = low
			return price
		}
	}
	if m := fromRe.FindStringSubmatch(text); m != nil {
		if amount := parseAmount(m[1]); amount != nil {
			price.IsRange = true
			price.Amount = amount
			return price
		}
	}

	price.Amount = parseAmount(text)
	return price
}

// detectCurrency finds a currency symbol or ISO code in the text.
func detectCurrency(text string) string {
	for _, cs := range currencySymbols {
		if strings.Contains(text, cs.symbol) {
			return cs.code
		}
	}
	for _, m := range isoCodeRe.FindAllStringSubmatch(text, -1) {
		if code := normalizeCurrencyCode(m[1]); code != "" {
			return code
		}
	}
	return ""
}

// normalizeCurrencyCode validates a candidate ISO 4217 code.
// Returns "" for anything unrecognized.
func normalizeCurrencyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return ""
	}
	return unit.String()
}

// parseAmount extracts the first numeric token and parses it with
// locale-aware separator handling. Returns nil when no parsable number
// exists.
func parseAmount(text string) *float64 {
	token := numberRe.FindString(text)
	if token == "" {
		return nil
	}
	normalized, ok := normalizeSeparators(token)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil
	}
	return &v
}

// normalizeSeparators converts a numeric token to canonical dot-decimal
// form. Both "1,299.99" and "1.299,99" styles are handled: when both
// separators appear the last one is the decimal mark; a lone separator
// followed by exactly two digits is a decimal mark, by exactly three a
// thousands separator.
func normalizeSeparators(token string) (string, bool) {
	token = strings.ReplaceAll(token, " ", "")
	lastComma := strings.LastIndex(token, ",")
	lastDot := strings.LastIndex(token, ".")

	switch {
	case lastComma == -1 && lastDot == -1:
		return token, true
	case lastComma != -1 && lastDot != -1:
		if lastDot > lastComma {
			// 1,299.99
			return strings.ReplaceAll(token, ",", ""), true
		}
		// 1.299,99
		token = strings.ReplaceAll(token, ".", "")
		return strings.Replace(token, ",", ".", 1), true
	default:
		sep := ","
		last := lastComma
		if lastDot != -1 {
			sep, last = ".", lastDot
		}
		digitsAfter := len(token) - last - 1
		if strings.Count(token, sep) > 1 || digitsAfter == 3 {
			// Thousands separators: 1,299 or 1.299.000.
			return strings.ReplaceAll(token, sep, ""), true
		}
		if digitsAfter == 0 {
			return "", false
		}
		// Decimal mark: 19,99 or 19.99.
		return strings.Replace(token, sep, ".", 1), true
	}
}
