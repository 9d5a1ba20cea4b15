// Package recommend turns a free-text movie preference into resolved movies.
//
// A Service renders the prompt, calls the language model once, and hands the
// reply to a Resolver. The Resolver splits the reply into suggestion lines,
// normalizes each into a search query, looks it up through the metadata
// layer, applies the year mentioned in the original request (if any), and
// picks the newest surviving candidate. Every non-empty line yields exactly
// one Outcome, in input order; lines without a surviving candidate are
// reported as explicit no-matches rather than dropped.
//
// Only a language model failure surfaces as an error, and it does so before
// any outcome is produced.
package recommend
