package billing

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EmailVariants returns the casings tried when looking a customer up by email:
// as given, lowercase, uppercase and title case. Duplicates are dropped while
// keeping the order.
func EmailVariants(email string) []string {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	return dedupe(
		email,
		strings.ToLower(email),
		strings.ToUpper(email),
		cases.Title(language.Und).String(email),
	)
}

// CouponVariants returns the casings tried when resolving a coupon code:
// as given, lowercase and uppercase.
func CouponVariants(code string) []string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	return dedupe(code, strings.ToLower(code), strings.ToUpper(code))
}

func dedupe(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
