package normalize

import (
	"strings"

	"github.com/fwojciec/shopcrawl"
)

// Glyphs stripped from product names: trademark and registration marks
// and their textual variants.
var glyphReplacer = strings.NewReplacer("™", "", "®", "", "©", "", "(TM)", "", "(R)", "", "(C)", "")

// Separator characters left over from title-concatenation patterns
// ("Blue Widget | Example Shop", "Blue Widget - ").
const trailingSeparators = "-–—|•·:,/\\"

// CleanName normalizes a raw product name: whitespace runs collapse to
// single spaces, trademark glyphs are stripped, and leftover trailing
// separators are trimmed. Empty input is an explicit failure - a
// record without a name is not a product.
func CleanName(raw string) (string, error) {
	name := glyphReplacer.Replace(raw)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, trailingSeparators+" ")

	if name == "" {
		return "", shopcrawl.Errorf(shopcrawl.EINVALID, "product name required")
	}
	return name, nil
}
