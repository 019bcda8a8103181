package utils

import (
	"strings"
	"unicode"
)

// DefaultPaymentMethod is the revenue payment method used when a transition
// carries no payment-type reference.
const DefaultPaymentMethod = "cash"

// NormalizePaymentMethod derives the revenue ledger's payment method slug
// from a payment-type display name: lowercased, trimmed, inner whitespace and
// punctuation collapsed to single underscores ("Credit Card" -> "credit_card").
// If the name has no sluggable characters at all, the name itself is returned
// so the ledger never stores an empty method.
func NormalizePaymentMethod(name string) string {
	trimmed := strings.TrimSpace(name)
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(trimmed) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && b.Len() > 0:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		return trimmed
	}
	return slug
}
