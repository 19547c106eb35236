// Package identity reconciles raw user records into canonical identities.
//
// The raw user table is not unique per natural identity: several records may
// share a phone number. The resolver ranks records by completeness, keeps the
// most complete record per phone number (or per raw id when no phone is
// present), and exposes a single raw-id to canonical-id mapping that every
// downstream stage reuses.
package identity

import (
	"sort"

	"github.com/brandon841/posthog-etl/etl/domain"
)

// Resolver holds the canonical user lookup and the raw to canonical mapping
// for one run. It is immutable once built and safe for concurrent reads.
type Resolver struct {
	canonical []domain.User

	byPhone     map[string]int
	byID        map[string]int
	canonicalOf map[string]string
	rawIDs      map[string]bool
}

// NewResolver builds the canonical lookup from the raw user table.
//
// Records are ranked by completeness (email presence, then username, then
// creation date) with a stable sort, partitioned by phone presence, and
// deduplicated keeping the highest ranked record per phone number or raw id.
// Non-canonical records that share a phone number with a canonical record map
// to that record's id; the promotion is single hop, transitive chains across
// different phone numbers are intentionally not merged.
func NewResolver(users []domain.User) *Resolver {
	ranked := make([]domain.User, len(users))
	copy(ranked, users)

	sort.SliceStable(ranked, func(i, j int) bool {
		return completeness(ranked[i]) > completeness(ranked[j])
	})

	r := &Resolver{
		byPhone:     make(map[string]int),
		byID:        make(map[string]int),
		canonicalOf: make(map[string]string),
		rawIDs:      make(map[string]bool, len(users)),
	}

	for _, u := range users {
		r.rawIDs[u.UserID] = true
	}

	// Records with a phone number deduplicate by phone, keeping the highest
	// ranked record per phone value.
	seenID := make(map[string]bool)

	for _, u := range ranked {
		if !u.PhoneNumber.Valid {
			continue
		}

		if _, ok := r.byPhone[u.PhoneNumber.StringVal]; ok {
			continue
		}

		r.canonical = append(r.canonical, u)
		r.byPhone[u.PhoneNumber.StringVal] = len(r.canonical) - 1
		r.byID[u.UserID] = len(r.canonical) - 1
	}

	// Records without a phone number deduplicate by raw id.
	for _, u := range ranked {
		if u.PhoneNumber.Valid || seenID[u.UserID] {
			continue
		}

		seenID[u.UserID] = true

		if _, ok := r.byID[u.UserID]; ok {
			continue
		}

		r.canonical = append(r.canonical, u)
		r.byID[u.UserID] = len(r.canonical) - 1
	}

	// Canonical records map to themselves; every dropped duplicate maps to
	// the canonical record of its phone number.
	for _, u := range r.canonical {
		r.canonicalOf[u.UserID] = u.UserID
	}

	for _, u := range users {
		if _, ok := r.canonicalOf[u.UserID]; ok {
			continue
		}

		if !u.PhoneNumber.Valid {
			continue
		}

		if idx, ok := r.byPhone[u.PhoneNumber.StringVal]; ok {
			r.canonicalOf[u.UserID] = r.canonical[idx].UserID
		}
	}

	return r
}

// completeness scores a record by the presence of its identity fields. A
// record with an email outranks one without regardless of the other fields,
// then username, then creation date.
func completeness(u domain.User) int {
	score := 0

	if u.Email.Valid {
		score += 4
	}

	if u.Username.Valid {
		score += 2
	}

	if u.CreatedAt.Valid {
		score += 1
	}

	return score
}

// Canonical returns the deduplicated user lookup, one record per canonical
// identity, in rank order.
func (r *Resolver) Canonical() []domain.User {
	return r.canonical
}

// CanonicalID maps a raw user id to its canonical id. Raw ids that share
// neither canonical identity nor phone number keep their own id.
func (r *Resolver) CanonicalID(rawID string) string {
	if id, ok := r.canonicalOf[rawID]; ok {
		return id
	}

	return rawID
}

// LookupByID returns the canonical record of a canonical user id.
func (r *Resolver) LookupByID(id string) (*domain.User, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, false
	}

	return &r.canonical[idx], true
}

// Resolve maps a raw actor identifier to a canonical user record. The
// identifier is matched against canonical phone numbers first, then against
// raw user ids. It returns false when no identity can be resolved.
func (r *Resolver) Resolve(distinctID string) (*domain.User, bool) {
	if idx, ok := r.byPhone[distinctID]; ok {
		return &r.canonical[idx], true
	}

	if !r.rawIDs[distinctID] {
		return nil, false
	}

	return r.LookupByID(r.CanonicalID(distinctID))
}
