// README: Record identifiers shared by every module.
package types

import "github.com/google/uuid"

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// ValidID reports whether v looks like an id produced by NewID or by the
// identity provider (alphanumeric uids up to 128 chars).
func ValidID(v string) bool {
	if v == "" {
		return false
	}
	if _, err := uuid.Parse(v); err == nil {
		return true
	}
	if len(v) > 128 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}
