// Package alias resolves the names found in a collection record (display
// names, renamed products, legacy exporter spellings) to canonical bundle
// SKUs and item ids.
//
// The alias Table is reference data: it is versioned with the catalog and
// validated when loaded. The Resolver combines it with the catalog's
// display-name indexes and never guesses: a name that could mean several
// things comes back ambiguous and is left for the caller to report.
package alias
