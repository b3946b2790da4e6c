// Package ezweb classifies and extracts structured information from
// arbitrary HTML pages without site-specific adapters. Given a URL it decides
// whether the page is a homepage, an article or a product page, and pulls out
// the canonical title, main image, price, specification table, topic path and
// a ranked list of links worth following.
//
// This package contains domain types, interfaces and the pure decision
// helpers shared by the heuristics. Implementations live in subdirectories
// named after their primary dependency (e.g., goquery/, sqlite/, trafilatura/).
package ezweb
