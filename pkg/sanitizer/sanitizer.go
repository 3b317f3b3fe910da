package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// DefaultRegions are tried in order when a phone number has no country prefix.
var DefaultRegions = []string{"US", "GB", "IL"}

var (
	reIdentifier = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)
)

func collapseSpaces(s string) string {
	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return b.String()
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// GuestName removes control characters, collapses whitespace runs (tabs and
// newlines included) to one space and trims. Case is preserved.
func GuestName(input string) string {
	return Pipeline{
		stripControl,
		collapseSpaces,
		strings.TrimSpace,
	}.Apply(input)
}

func Email(input string) string {
	return Pipeline{
		strings.TrimSpace,
		strings.ToLower,
	}.Apply(input)
}

// Phone formats a number as E.164. Numbers that no default region can parse
// are returned trimmed so the validator reports them.
func Phone(input string) string {
	phone := strings.TrimSpace(input)
	if phone == "" {
		return ""
	}

	for _, region := range DefaultRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return phone
}

// Identifier keeps letters, digits, '-' and '_' and upper-cases the result.
// Used for booking and room references.
func Identifier(input string) string {
	return Pipeline{
		strings.TrimSpace,
		func(s string) string { return reIdentifier.ReplaceAllString(s, "") },
		strings.ToUpper,
	}.Apply(input)
}

// Note trims free-text audit notes and caps them at max runes.
func Note(input string, max int) string {
	s := collapseSpaces(stripControl(strings.TrimSpace(input)))
	if max > 0 {
		runes := []rune(s)
		if len(runes) > max {
			s = strings.TrimSpace(string(runes[:max]))
		}
	}
	return s
}
