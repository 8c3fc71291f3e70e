package domain

import (
	"strings"
	"time"
	"unicode"
)

// Account is an identity-provider credential record. PasswordHash is empty
// for accounts created through an OAuth provider.
type Account struct {
	UID          string
	Email        string
	PasswordHash string
	DisplayName  string
	AuthProvider string // "password", "google" or "github"
	Subject      string // provider-side unique id, empty for password accounts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what the identity provider hands back after a successful
// sign-in. It carries no credential material.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// UserProfile is the document-store record keyed by the identity UID.
// It exists once signup or profile completion has succeeded. Email and
// CreatedAt are set at creation and never edited; Note is read-only.
type UserProfile struct {
	UID       string
	Email     string
	FirstName string
	LastName  string
	Username  string
	Note      string
	CreatedAt time.Time
}

// Initials returns the avatar placeholder initials, empty unless both
// names are present.
func Initials(firstName, lastName string) string {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return ""
	}
	f := []rune(firstName)
	l := []rune(lastName)
	return string([]rune{unicode.ToUpper(f[0]), unicode.ToUpper(l[0])})
}
