package core

import (
	"strings"

	"github.com/aman-cerp/hmrcore/internal/hmrerrors"
)

// ValidateQuery enforces the InvalidQuery boundary behaviors from §7/§8:
// empty text, an unsupported filter kind, or an out-of-range k_override.
func ValidateQuery(q *Query) error {
	if q == nil {
		return hmrerrors.InvalidQuery("query is nil")
	}
	if strings.TrimSpace(q.Text) == "" {
		return hmrerrors.InvalidQuery("query text is empty")
	}
	if q.KOverride != nil {
		if *q.KOverride <= 0 {
			return hmrerrors.InvalidQuery("k_override must be positive")
		}
		if *q.KOverride > MaxKOverride {
			return hmrerrors.InvalidQuery("k_override exceeds the maximum of 200")
		}
	}
	if q.Filters != nil && q.Filters.Kind != "" {
		switch q.Filters.Kind {
		case "function", "class", "file", "chunk":
		default:
			return hmrerrors.InvalidQuery("unsupported filter kind: " + q.Filters.Kind)
		}
	}
	return nil
}
