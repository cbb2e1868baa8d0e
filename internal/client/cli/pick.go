package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bibliotube/internal/common"
)

// pick resolves ref against items: a 1-based index into the last listing,
// an id prefix, or an exact (case-insensitive) name when name is given.
func pick[T any](items []T, ref string, id func(T) string, name func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%w: nothing selected", common.ErrValidation)
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], nil
	}

	var found []T
	for _, it := range items {
		if strings.HasPrefix(id(it), ref) || (name != nil && strings.EqualFold(name(it), ref)) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%q: %w", ref, common.ErrNotFound)
	case 1:
		return found[0], nil
	}
	return zero, fmt.Errorf("%w: %q matches %d items", common.ErrValidation, ref, len(found))
}
