package redis

const (
	// KeyRenders counts successful widget renders.
	KeyRenders = "webring:renders"
	// KeyCategories is a sorted set of category -> impressions.
	KeyCategories = "webring:categories"
	// KeyPrefixLinks prefixes the per-category hash of url -> impressions.
	KeyPrefixLinks = "webring:links:"
)

// LinksKey returns the Redis key holding link counters for a category.
func LinksKey(category string) string {
	return KeyPrefixLinks + category
}
