package hreflang

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/rohmanhakim/hreflang-audit/pkg/urlutil"
)

/*
Validation Rules
- "x-default" is valid as-is
- Otherwise the code is language or language-region:
    - language: two letters, ISO 639-1
    - region: two letters, ISO 3166-1 alpha-2
- Matching is case-insensitive
- More than two dash-separated parts is invalid

Script subtags (en-Latn-US) and UN M.49 numeric regions (es-419) are
rejected: search engines only document language and language-region
codes for hreflang, and the audit flags anything outside that set.
*/

const xDefault = "x-default"

// ValidCode reports whether code is a well-formed hreflang value.
func ValidCode(code string) bool {
	code = strings.TrimSpace(code)
	if strings.EqualFold(code, xDefault) {
		return true
	}

	parts := strings.Split(code, "-")
	if len(parts) > 2 {
		return false
	}

	if !validLanguage(parts[0]) {
		return false
	}
	if len(parts) == 2 && !validRegion(parts[1]) {
		return false
	}
	return true
}

func validLanguage(part string) bool {
	if len(part) != 2 {
		return false
	}
	_, err := language.ParseBase(part)
	return err == nil
}

func validRegion(part string) bool {
	if len(part) != 2 {
		return false
	}
	region, err := language.ParseRegion(part)
	if err != nil {
		return false
	}
	// ParseRegion accepts well-formed but unassigned codes.
	return region.IsCountry()
}

// URLsMatch reports whether two URLs point at the same page once
// scheme and host casing, a www prefix, query strings, fragments and a
// trailing slash are ignored.
func URLsMatch(rawA string, rawB string) bool {
	a, errA := url.Parse(strings.TrimSpace(rawA))
	b, errB := url.Parse(strings.TrimSpace(rawB))
	if errA != nil || errB != nil {
		return false
	}
	return urlutil.EquivalentKey(*a) == urlutil.EquivalentKey(*b)
}
