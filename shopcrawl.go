// Package shopcrawl provides an adaptive product-extraction pipeline for
// e-commerce sites. It classifies fetched pages, extracts product data
// through a chain of strategies of decreasing reliability (learned
// selector patterns, structured data, microdata, DOM heuristics),
// normalizes the results into canonical product records, and crawls
// paginated listings with deduplication and failure isolation.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package shopcrawl
