package domain

// excludedIdentifiers is the fixed set of internal and test identifiers whose
// activity must never reach the output tables. The identifiers are phone
// numbers, which double as PostHog distinct ids for mobile sessions.
var excludedIdentifiers = []string{
	"+18323900558",
	"+18323875995",
	"+18323787163",
	"+11111111111",
	"+15126437937",
	"+15125577162",
	"+12146865810",
	"+15126530534",
}

// ExcludedIdentifiers returns the identifiers excluded from processing.
func ExcludedIdentifiers() []string {
	out := make([]string, len(excludedIdentifiers))
	copy(out, excludedIdentifiers)

	return out
}

// ExcludedSet returns the exclusion list as a lookup set. The set is built
// once per run and read-only afterwards.
func ExcludedSet() map[string]bool {
	set := make(map[string]bool, len(excludedIdentifiers))
	for _, id := range excludedIdentifiers {
		set[id] = true
	}

	return set
}
