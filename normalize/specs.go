package normalize

import (
	"strings"

	"github.com/fwojciec/shopcrawl"
)

// maxSpecKeyLen rejects candidate keys longer than a plausible
// attribute label, filtering prose that happens to contain a colon.
const maxSpecKeyLen = 40

// ParseSpecs parses "Key: Value" lines into an ordered specification
// list. Raw values may carry multiple newline-separated lines each.
// Keys are deduplicated keeping the first occurrence.
func ParseSpecs(values []string) []shopcrawl.Specification {
	var specs []shopcrawl.Specification
	seen := map[string]bool{}

	for _, value := range values {
		for _, line := range strings.Split(value, "\n") {
			key, val, ok := splitSpecLine(line)
			if !ok {
				continue
			}
			lower := strings.ToLower(key)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			specs = append(specs, shopcrawl.Specification{Name: key, Value: val})
		}
	}

	return specs
}

// splitSpecLine splits a single "Key: Value" line, rejecting noise:
// overlong keys, empty values, and URL-like text where the colon
// belongs to a scheme.
func splitSpecLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}

	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])

	if key == "" || value == "" {
		return "", "", false
	}
	if len(key) > maxSpecKeyLen {
		return "", "", false
	}
	if strings.HasPrefix(value, "//") {
		// "https://example.com" splits into ("https", "//example.com").
		return "", "", false
	}
	return key, value, true
}
