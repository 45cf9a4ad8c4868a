// Package immodiag grounds a French real-estate listing for report
// generation. It fetches a listing page, recovers its factual attributes
// (price, surface, rooms, energy grades, location, year) from embedded
// structured data, meta tags and text heuristics, and compacts them with an
// excerpt of the page text into a bounded context for a language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gjson/, sqlite/, openai/).
package immodiag
