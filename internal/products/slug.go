package products

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugify lowercases title and collapses every run of non-alphanumerics into one hyphen.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return "cake"
	}
	return b.String()
}

// candidate returns base for the first attempt and base-N after that (base-2, base-3, ...).
func candidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(attempt+1)
}
