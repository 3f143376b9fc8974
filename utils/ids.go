package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
	"time"
)

const storedNameSuffixMax = 1_000_000_000

// StoredFilename builds a collision-resistant storage name: <unix millis>-<random suffix><ext>.
// The client supplied name only contributes its lowercased extension.
func StoredFilename(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	return fmt.Sprintf("%d-%d%s", now.UnixMilli(), randomSuffix(), ext)
}

func randomSuffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(storedNameSuffixMax))
	if err != nil {
		// fall back to the clock; the O_EXCL create still refuses an overwrite
		return time.Now().UnixNano() % storedNameSuffixMax
	}
	return n.Int64()
}
