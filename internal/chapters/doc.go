// Package chapters converts chapter lists into ffmetadata chapter blocks.
//
// A run reads an ordered list of (timestamp, title) records from either a
// pipe-delimited text file or a CSV table, converts each HH:MM:SS timestamp to
// milliseconds, and stitches the records into chapter boundaries: every
// chapter ends where the next one starts, and the final chapter receives a
// one millisecond window because nothing follows it. Two stitching policies
// exist (see Policy) because the delimited and CSV inputs historically
// disagreed on how the first start and the intermediate ends are derived.
//
// Reading finishes before any boundary is built and the metadata document is
// appended to in a single write, so a malformed record never leaves partial
// chapter blocks behind.
//
// Timestamps are assumed to be non-decreasing and are never checked. Out of
// order or repeated starts produce chapters whose end precedes their start,
// e.g. END=-1 for the first tabular chapter when the second starts at zero.
//
// Titles are written verbatim. A title containing a newline corrupts the
// ffmetadata document; callers that accept untrusted titles must filter them.
package chapters
