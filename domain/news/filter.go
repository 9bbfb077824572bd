package news

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeRange is returned for an unrecognized time range value.
var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange restricts articles by publication time.
type TimeRange string

// TimeRange values.
const (
	RangeAll   TimeRange = "all"
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

// ParseTimeRange parses a user supplied range. The empty string means all.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(strings.ToLower(strings.TrimSpace(s))) {
	case "", RangeAll:
		return RangeAll, nil
	case RangeToday:
		return RangeToday, nil
	case RangeWeek:
		return RangeWeek, nil
	case RangeMonth:
		return RangeMonth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
}

// Since returns the lower publication bound relative to now. The bool is
// false when the range is unbounded.
func (r TimeRange) Since(now time.Time) (time.Time, bool) {
	switch r {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, 0, -30), true
	}
	return time.Time{}, false
}

// Predicate is a composed article filter. The industry and keyword
// criteria are ANDed together; each is a disjunction of link and text
// matches. Terms that do not survive normalization are dropped.
type Predicate struct {
	industry      string
	industryTerms []string
	keywords      []string
	timeRange     TimeRange
	since         time.Time
	bounded       bool
}

// NewPredicate builds a predicate. now anchors the time range.
func NewPredicate(industry string, keywords []string, r TimeRange, now time.Time) Predicate {
	p := Predicate{
		industry:  Normalize(industry),
		timeRange: r,
	}
	seen := make(map[string]struct{}, len(keywords))
	for _, raw := range keywords {
		text := Normalize(raw)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		p.keywords = append(p.keywords, text)
	}
	if r == "" {
		p.timeRange = RangeAll
	}
	p.since, p.bounded = p.timeRange.Since(now)
	if p.bounded {
		p.since = p.since.UTC()
	}
	return p
}

// HasIndustry reports whether an industry criterion applies.
func (p Predicate) HasIndustry() bool { return p.industry != "" }

// Industry returns the normalized industry name.
func (p Predicate) Industry() string { return p.industry }

// IndustryKey returns the lower-cased industry name.
func (p Predicate) IndustryKey() string { return strings.ToLower(p.industry) }

// WithIndustryTerms returns a copy whose industry criterion also matches
// articles containing any of the given keyword texts.
func (p Predicate) WithIndustryTerms(terms []string) Predicate {
	p.industryTerms = dedupeKeys(terms)
	return p
}

// IndustryTerms returns the lower-cased keyword texts of the industry.
func (p Predicate) IndustryTerms() []string {
	out := make([]string, len(p.industryTerms))
	copy(out, p.industryTerms)
	return out
}

// HasKeywords reports whether a keyword criterion applies.
func (p Predicate) HasKeywords() bool { return len(p.keywords) > 0 }

// Keywords returns the normalized, de-duplicated keyword terms.
func (p Predicate) Keywords() []string {
	out := make([]string, len(p.keywords))
	copy(out, p.keywords)
	return out
}

// KeywordKeys returns the lower-cased keyword terms.
func (p Predicate) KeywordKeys() []string {
	out := make([]string, len(p.keywords))
	for i, k := range p.keywords {
		out[i] = strings.ToLower(k)
	}
	return out
}

// TimeRange returns the requested range.
func (p Predicate) TimeRange() TimeRange { return p.timeRange }

// Since returns the UTC lower publication bound, if any.
func (p Predicate) Since() (time.Time, bool) { return p.since, p.bounded }

// IsEmpty reports whether the predicate matches every article.
func (p Predicate) IsEmpty() bool {
	return !p.HasIndustry() && !p.HasKeywords() && !p.bounded
}

func dedupeKeys(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	var out []string
	for _, t := range terms {
		key := Key(t)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
