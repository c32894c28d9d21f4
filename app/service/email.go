package service

import "strings"

// CanonicalizeEmail returns the key accounts are unique on: the trimmed,
// lowercased address. Nothing else is folded, so provider aliases such as
// "jane.doe+work@gmail.com" and "janedoe@gmail.com" are distinct accounts.
func CanonicalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
