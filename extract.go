package shopcrawl

import "context"

// ExtractionMethod identifies which strategy produced an extraction
// result.
type ExtractionMethod string

// Extraction strategies in priority order, most reliable first.
const (
	MethodLearnedPattern ExtractionMethod = "learned_pattern"
	MethodStructuredData ExtractionMethod = "structured_data"
	MethodMicrodata      ExtractionMethod = "microdata"
	MethodDOMHeuristic   ExtractionMethod = "dom_heuristic"
)

// Well-known field names shared by all strategies. Strategies may emit
// additional fields; the normalizer ignores what it doesn't recognize.
const (
	FieldName         = "name"
	FieldPrice        = "price"
	FieldSKU          = "sku"
	FieldAvailability = "availability"
	FieldDescription  = "description"
	FieldImage        = "image"
	FieldSpec         = "spec"
	FieldURL          = "url"
	FieldVariant      = "variant"
	FieldCurrency     = "currency"
)

// FieldSet holds raw extracted values for one product keyed by field
// name. Multi-valued fields (images, specs, variants) carry more than
// one entry.
type FieldSet map[string][]string

// Add appends a non-empty value to the field.
func (f FieldSet) Add(field, value string) {
	if value == "" {
		return
	}
	f[field] = append(f[field], value)
}

// First returns the first value for the field, or "" if absent.
func (f FieldSet) First(field string) string {
	if vs := f[field]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// ExtractionResult is the transient outcome of running one strategy
// against one page. Listing pages yield one FieldSet per product card;
// product pages yield exactly one.
type ExtractionResult struct {
	// Items holds the extracted field sets, one per product.
	Items []FieldSet

	// Method is the strategy that produced the result.
	Method ExtractionMethod

	// Confidence is the strategy's self-assessed reliability in [0,1].
	Confidence float64

	// Provenance maps field names to the selector expression that
	// located them, so the learner can derive reusable rules. Fields
	// are never merged across strategies, keeping provenance
	// unambiguous.
	Provenance map[string]string

	// Errors collects non-fatal per-strategy failures encountered
	// while producing the result.
	Errors []string
}

// Usable reports whether the result satisfies the minimum required
// field set: at least one item with a non-empty name.
func (r *ExtractionResult) Usable() bool {
	if r == nil {
		return false
	}
	for _, item := range r.Items {
		if item.First(FieldName) != "" {
			return true
		}
	}
	return false
}

// PageContext carries per-page classification into extraction.
type PageContext struct {
	Domain    string
	Detection Detection
}

// Strategy is a single extraction approach. Attempt returns (nil, nil)
// when the strategy simply doesn't apply to the page; errors indicate
// the strategy matched but failed (e.g. malformed structured data) and
// are caught by the chain, never propagated to the caller.
type Strategy interface {
	Method() ExtractionMethod
	Attempt(page RawPage, pctx PageContext) (*ExtractionResult, error)
}

// Extractor runs the strategy chain against a page. It never returns an
// error for per-strategy failures; a page where every strategy comes up
// empty yields a result with no items and the accumulated errors.
type Extractor interface {
	Extract(ctx context.Context, page RawPage, pctx PageContext) *ExtractionResult
}

// Learner records how a successful non-learned extraction located its
// fields, creating or reinforcing a stored pattern for the domain.
// Learn failures are non-fatal to the pipeline.
type Learner interface {
	Learn(ctx context.Context, domain string, platform Platform, result *ExtractionResult) error
}
