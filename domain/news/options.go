package news

import (
	"strings"

	"github.com/helixml/newsdesk/domain/repository"
)

// WithNameKey filters industries by case-insensitive name.
func WithNameKey(name string) repository.Option {
	return repository.WithCondition("name_key", Key(name))
}

// WithNameKeyIn filters industries by any of the given names.
func WithNameKeyIn(names []string) repository.Option {
	return repository.WithConditionIn("name_key", keys(names))
}

// WithTextKey filters keywords by case-insensitive text.
func WithTextKey(text string) repository.Option {
	return repository.WithCondition("text_key", Key(text))
}

// WithTextKeyIn filters keywords by any of the given texts.
func WithTextKeyIn(texts []string) repository.Option {
	return repository.WithConditionIn("text_key", keys(texts))
}

// WithTextContaining filters keywords whose text contains fragment.
func WithTextContaining(fragment string) repository.Option {
	pattern := "%" + EscapeLike(strings.ToLower(strings.TrimSpace(fragment))) + "%"
	return repository.WithWhere(`text_key LIKE ? ESCAPE '\'`, pattern)
}

// WithIndustryID filters keywords by owning industry.
func WithIndustryID(id int64) repository.Option {
	return repository.WithCondition("industry_id", id)
}

// WithIndustryIDIn filters keywords owned by any of the given industries.
func WithIndustryIDIn(ids []int64) repository.Option {
	return repository.WithConditionIn("industry_id", ids)
}

// WithURL filters articles by URL.
func WithURL(url string) repository.Option {
	return repository.WithCondition("url", url)
}

// WithNewestFirst orders articles by publication time, unknown last.
func WithNewestFirst() repository.Option {
	return func(q repository.Query) repository.Query {
		q = repository.WithOrderAsc("CASE WHEN published_at IS NULL THEN 1 ELSE 0 END")(q)
		q = repository.WithOrderDesc("published_at")(q)
		return repository.WithOrderDesc("id")(q)
	}
}

// WithNameOrder orders industries by name.
func WithNameOrder() repository.Option {
	return repository.WithOrderAsc("name_key")
}

// WithTextOrder orders keywords by text.
func WithTextOrder() repository.Option {
	return repository.WithOrderAsc("text_key")
}

// EscapeLike escapes LIKE wildcards using backslash as the escape character.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// TokenPattern returns the LIKE pattern that matches key as a whole token
// inside a search buffer.
func TokenPattern(key string) string {
	return "% " + EscapeLike(key) + " %"
}

func keys(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if k := Key(t); k != "" {
			out = append(out, k)
		}
	}
	return out
}
