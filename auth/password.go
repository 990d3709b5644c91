package auth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const minPasswordLength = 8

// maxSimilarity is the character-overlap score at which a password counts as
// too close to a user attribute.
const maxSimilarity = 0.7

var (
	nonWord         = regexp.MustCompile(`\W+`)
	commonPasswords = map[string]struct{}{}
)

func init() {
	for _, p := range strings.Fields(`
		password password1 password12 password123 passw0rd 12345678 123456789
		1234567890 qwerty123 qwertyuiop 11111111 00000000 abc12345 abcd1234
		iloveyou sunshine princess football baseball welcome welcome1
		letmein1 trustno1 superman starwars dragon123 monkey123 master123
		changeme administrator qazwsxedc 1q2w3e4r 1qaz2wsx zaq12wsx
	`) {
		commonPasswords[p] = struct{}{}
	}
}

// ValidatePassword applies the signup password policy and returns every
// violated rule's message, or nil.
func ValidatePassword(password, username, email string) []string {
	var problems []string

	if attr, ok := similarAttribute(password, username, email); ok {
		problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr))
	}
	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}

func similarAttribute(password, username, email string) (string, bool) {
	pw := strings.ToLower(password)
	local, _, _ := strings.Cut(email, "@")
	attributes := []struct{ name, value string }{
		{"username", username},
		{"email address", email},
		{"email address", local},
	}
	for _, a := range attributes {
		value := strings.ToLower(a.value)
		if value == "" {
			continue
		}
		for _, part := range append(nonWord.Split(value, -1), value) {
			if tooSimilar(pw, part) {
				return a.name, true
			}
		}
	}
	return "", false
}

// tooSimilar scores the shared characters of password and value, counted with
// multiplicity, as 2*shared/(len(password)+len(value)). A password ten times
// longer than a short value is never compared.
func tooSimilar(password, value string) bool {
	pw, v := []rune(password), []rune(value)
	if len(pw) == 0 || len(v) == 0 {
		return false
	}
	if len(pw) >= 10*len(v) && float64(len(v)) < maxSimilarity/2*float64(len(pw)) {
		return false
	}

	avail := make(map[rune]int, len(v))
	for _, r := range v {
		avail[r]++
	}
	shared := 0
	for _, r := range pw {
		if avail[r] > 0 {
			avail[r]--
			shared++
		}
	}
	return 2*float64(shared)/float64(len(pw)+len(v)) >= maxSimilarity
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
