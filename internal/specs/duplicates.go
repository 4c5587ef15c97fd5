package specs

import "strings"

// Duplicates reports which rows carry a colliding key: the key is normalized
// by trimming and lower-casing, and any normalized key shared by two or more
// rows flags all of them. The empty normalized key never collides, so two
// whitespace-only keys are not duplicates of each other.
//
// This is derived state. Callers recompute it after every mutation rather
// than caching it, so a key that becomes unique clears its flag in the same
// synchronous update.
func Duplicates(rows []Row) map[string]bool {
	byKey := map[string][]string{}
	for _, r := range rows {
		k := strings.ToLower(strings.TrimSpace(r.Key))
		if k == "" {
			continue
		}
		byKey[k] = append(byKey[k], r.ID)
	}

	out := map[string]bool{}
	for _, ids := range byKey {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			out[id] = true
		}
	}
	return out
}

// HasDuplicates reports whether any row carries a colliding key.
func HasDuplicates(rows []Row) bool {
	seen := map[string]bool{}
	for _, r := range rows {
		k := strings.ToLower(strings.TrimSpace(r.Key))
		if k == "" {
			continue
		}
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}
