// Package itemname derives store item names from model key values.
package itemname

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// Pair is a key field and its rendered value.
type Pair struct {
	Field string
	Value string
}

// Name computes the item name for a storage name and key values already in
// field-name order. The digest input is "<storageName>+<v1>-<v2>-...".
func Name(storageName string, values []string) string {
	h := sha1.New()
	h.Write([]byte(storageName))
	h.Write([]byte("+"))
	h.Write([]byte(strings.Join(values, "-")))
	return hex.EncodeToString(h.Sum(nil))
}

// FromPairs sorts pairs by field name and computes the item name.
// The input slice is not modified.
func FromPairs(storageName string, pairs []Pair) string {
	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Field < sorted[j].Field })

	values := make([]string, len(sorted))
	for i, p := range sorted {
		values[i] = p.Value
	}
	return Name(storageName, values)
}
