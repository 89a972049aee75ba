package sanitizer

import "strings"

// Email trims and lowercases an address. The local part is otherwise kept
// as typed; providers look customers up by the exact string.
func Email(email string) string {
	return TrimToLower(RemoveControlChars(email))
}

// MaskEmail keeps the domain and the first character of the local part.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" {
		return email
	}
	return local[:1] + strings.Repeat("*", len(local)-1) + "@" + domain
}
