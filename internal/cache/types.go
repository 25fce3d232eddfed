package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity.
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheClosed is returned after Close.
	ErrCacheClosed = errors.New("cache is closed")
)

// Stats holds cache counters.
type Stats struct {
	Capacity  int64 // bytes on disk
	Size      int64 // bytes on disk
	RawSize   int64 // bytes before compression
	ItemCount int64
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64

	LastAccess time.Time
	LastEvict  time.Time
}

// Key derives the storage key for a narration line.
func Key(text, voice string) string {
	hash := sha256.Sum256([]byte(text + "|" + voice))
	return hex.EncodeToString(hash[:16])
}
