package slice

import "strings"

// FindIndex returns the first index of the ref that matches ref t
func FindIndex(vs []string, t string) int {
	for i, v := range vs {
		if v == t {
			return i
		}
	}

	return -1
}

// Contains returns true if the string exists in the slice and false otherwise
func Contains(vs []string, t string) bool {
	return FindIndex(vs, t) > -1
}

// ContainsAny returns true if the slice vs contains any of the strings in ts
func ContainsAny(vs []string, ts []string) bool {
	for _, t := range ts {
		if FindIndex(vs, t) > -1 {
			return true
		}
	}

	return false
}

// ContainsFold returns true if any string in the slice contains all the given
// substrings, case insensitively.
func ContainsFold(vs []string, subs ...string) bool {
	for _, v := range vs {
		lower := strings.ToLower(v)

		matched := true

		for _, sub := range subs {
			if !strings.Contains(lower, sub) {
				matched = false
				break
			}
		}

		if matched {
			return true
		}
	}

	return false
}
