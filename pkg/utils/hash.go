package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// CacheKey builds a stable hashed key from its parts, e.g. a keyword set
// plus locale and region.
func CacheKey(parts ...string) string {
	return HashString(strings.Join(parts, "|"))
}
