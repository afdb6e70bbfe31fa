package entity

import (
	"regexp"

	"golang.org/x/text/language"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail performs a syntactic check of an address.
func IsValidEmail(email string) bool {
	return emailRE.MatchString(email)
}

// IsValidLang accepts BCP 47 tags ("fr-FR") and POSIX-style
// locale names ("fr_FR").
func IsValidLang(lang string) bool {
	_, err := language.Parse(NormalizeLang(lang))
	return err == nil
}

// NormalizeLang converts "fr_FR" to "fr-FR".
func NormalizeLang(lang string) string {
	out := []byte(lang)
	for i, c := range out {
		if c == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}
