package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Key prefixes for the Instagram cache namespaces.
const (
	EmbedPrefix      = "instagram_embed_"
	ValidationPrefix = "instagram_validation_"
	PostDataPrefix   = "instagram_post_data_"
)

// Cache TTLs. Failed embeds are kept briefly so repeated lookups of a
// broken post are rate-limited but retried soon.
const (
	EmbedTTL      = 24 * time.Hour
	EmbedErrorTTL = 5 * time.Minute
	ValidationTTL = 30 * time.Minute
	PostDataTTL   = 2 * time.Hour
)

func urlHash(postURL string) string {
	sum := md5.Sum([]byte(postURL))
	return hex.EncodeToString(sum[:])
}

// EmbedKey returns the cache key for embed data of a post URL.
func EmbedKey(postURL string) string {
	return EmbedPrefix + urlHash(postURL)
}

// ValidationKey returns the cache key for a URL validation result.
func ValidationKey(postURL string) string {
	return ValidationPrefix + urlHash(postURL)
}

// PostDataKey returns the cache key for a post metadata snapshot.
func PostDataKey(postID int64) string {
	return fmt.Sprintf("%s%d", PostDataPrefix, postID)
}
