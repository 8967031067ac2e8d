package engine

import (
	"strconv"
	"strings"

	"github.com/quillform/quillform/internal/schema"
)

// GenerateID returns prefix unchanged if it is not already taken, else
// prefix-N where N is one greater than the highest existing numeric suffix
// among ids matching prefix-<digits> exactly. Gaps in the numbering are
// tolerated; only the maximum matters. IDs like "prefix-extra" are not
// numeric suffixes and never count as collisions for the -N scheme.
//
// Fully deterministic: the same prefix and existing-ID set always yield the
// same result. Undo/redo and reproducible tests depend on this.
func GenerateID(prefix string, existing map[string]struct{}) string {
	if prefix == "" {
		prefix = "field"
	}
	if _, taken := existing[prefix]; !taken {
		return prefix
	}

	max := 0
	for id := range existing {
		rest, ok := strings.CutPrefix(id, prefix+"-")
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || strconv.Itoa(n) != rest {
			// Not a pure numeric suffix (leading zeros, signs, text).
			continue
		}
		if n > max {
			max = n
		}
	}
	return prefix + "-" + strconv.Itoa(max+1)
}

// FieldIDPrefix derives the generation prefix for a new field: the field
// type name (or "field" when empty), prepended with the parent's ID when
// the field is created inside a container.
func FieldIDPrefix(t schema.FieldType, parentID string) string {
	prefix := string(t)
	if prefix == "" {
		prefix = "field"
	}
	if parentID != "" {
		prefix = parentID + "-" + prefix
	}
	return prefix
}

// Item ID suffixes per list kind.
const (
	optionSuffix = "option"
	rowSuffix    = "row"
	colSuffix    = "col"
)

// ItemIDPrefix derives the generation prefix for an option, row, or column
// belonging to fieldID. With no owning field ID the bare suffix is used.
func ItemIDPrefix(fieldID, suffix string) string {
	if fieldID == "" {
		return suffix
	}
	return fieldID + "-" + suffix
}

// itemIDSet collects the IDs of an item list for collision checking.
func itemIDSet(items []schema.Item) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, it := range items {
		ids[it.ID] = struct{}{}
	}
	return ids
}
