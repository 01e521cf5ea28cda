package widget

import "math/rand"

// Sample returns up to limit elements of links in uniformly random order.
// links is copied, never reordered in place.
func Sample[T any](links []T, limit int) []T {
	if limit <= 0 {
		return []T{}
	}

	shuffled := make([]T, len(links))
	copy(shuffled, links)

	// Fisher-Yates, last index down to 1.
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if limit < len(shuffled) {
		shuffled = shuffled[:limit]
	}
	return shuffled
}
