package news

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidText indicates a name or term that is empty after normalization.
var ErrInvalidText = errors.New("text is empty after normalization")

// MinTermLength is the shortest normalized term that can be stored or matched.
const MinTermLength = 2

// maxListLiteral bounds the input size handed to the list literal decoder.
const maxListLiteral = 4096

var separatorRun = regexp.MustCompile(`[-_]+`)

// Normalize canonicalizes a raw title, description or entity name.
// It returns "" when the text is too short or has no letter or digit.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	s := strings.TrimFunc(text, isSpace)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		if first, ok := firstListElement(s); ok {
			s = first
		}
	}

	s = strings.TrimFunc(s, isWrapping)
	s = separatorRun.ReplaceAllString(s, " ")
	s = strings.Join(strings.FieldsFunc(s, isSpace), " ")
	s = strings.TrimFunc(s, isWrapping)

	if utf8.RuneCountInString(s) < MinTermLength || !hasAlphanumeric(s) {
		return ""
	}
	return s
}

// isSpace extends unicode.IsSpace with the ASCII information separators
// U+001C to U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Key returns the lower-cased normalized form used for case-insensitive
// uniqueness and token matching.
func Key(text string) string {
	return strings.ToLower(Normalize(text))
}

// SearchBuffer builds the padded, lower-cased text that whole-token
// matching runs against.
func SearchBuffer(title, description string) string {
	return " " + strings.ToLower(Normalize(title)+" "+Normalize(description)) + " "
}

// ContainsToken reports whether term occurs in buffer as a whole token.
// buffer must come from SearchBuffer.
func ContainsToken(buffer, term string) bool {
	key := Key(term)
	if utf8.RuneCountInString(key) < MinTermLength {
		return false
	}
	return strings.Contains(buffer, " "+key+" ")
}

// firstListElement decodes a serialized single-element list such as
// "['AI']" and returns its first scalar element.
func firstListElement(s string) (string, bool) {
	if len(s) > maxListLiteral {
		return "", false
	}
	var items []any
	if err := yaml.Unmarshal([]byte(s), &items); err != nil || len(items) == 0 {
		return "", false
	}
	switch v := items[0].(type) {
	case string:
		return v, true
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func isWrapping(r rune) bool {
	switch r {
	case '[', ']', '\'', '"':
		return true
	}
	return isSpace(r)
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
