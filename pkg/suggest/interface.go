// Package suggest filters candidate lists down to the suggestions shown for a
// token, and keeps ordered candidate catalogs indexed in a patricia trie.
package suggest

// Candidate is a suggestion value. DisplayText is matched against the token
// and rendered; InsertText is spliced into the buffer on selection.
type Candidate interface {
	DisplayText() string
	InsertText() string
}

// Provider produces the suggestion set for a stripped token.
type Provider interface {
	// Suggest returns up to limit candidates containing query, in source order.
	// Catalogs hold each display text once, so repeated entries of the
	// source list appear a single time.
	Suggest(query string, limit int) []Candidate

	// Len returns the number of candidates held.
	Len() int

	// Stats returns counters about the provider.
	Stats() map[string]int
}
