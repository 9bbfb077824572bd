package persistence

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/helixml/newsdesk/domain/news"
)

const tokenLike = `articles.search_text LIKE ? ESCAPE '\'`

// predicateCondition translates a news.Predicate into a WHERE clause over
// the articles table. ok is false when the predicate matches everything.
func predicateCondition(p news.Predicate) (sql string, args []any, ok bool, err error) {
	var and sq.And

	if since, bounded := p.Since(); bounded {
		and = append(and, sq.GtOrEq{"articles.published_at": since})
	}

	if p.HasIndustry() {
		key := p.IndustryKey()
		linked, err := articleIDsIn(sq.Select("ai.article_id").
			From("article_industries ai").
			Join("industries i ON i.id = ai.industry_id").
			Where(sq.Eq{"i.name_key": key}))
		if err != nil {
			return "", nil, false, err
		}
		viaKeyword, err := articleIDsIn(sq.Select("ak.article_id").
			From("article_keywords ak").
			Join("keywords k ON k.id = ak.keyword_id").
			Join("industries i ON i.id = k.industry_id").
			Where(sq.Eq{"i.name_key": key}))
		if err != nil {
			return "", nil, false, err
		}

		branches := sq.Or{linked, tokenMatch(key), viaKeyword}
		for _, term := range p.IndustryTerms() {
			branches = append(branches, tokenMatch(term))
		}
		and = append(and, branches)
	}

	if p.HasKeywords() {
		keys := p.KeywordKeys()
		linked, err := articleIDsIn(sq.Select("ak.article_id").
			From("article_keywords ak").
			Join("keywords k ON k.id = ak.keyword_id").
			Where(sq.Eq{"k.text_key": keys}))
		if err != nil {
			return "", nil, false, err
		}

		branches := sq.Or{linked}
		for _, key := range keys {
			branches = append(branches, tokenMatch(key))
		}
		and = append(and, branches)
	}

	if len(and) == 0 {
		return "", nil, false, nil
	}
	sql, args, err = and.ToSql()
	if err != nil {
		return "", nil, false, err
	}
	return sql, args, true, nil
}

func tokenMatch(key string) sq.Sqlizer {
	return sq.Expr(tokenLike, news.TokenPattern(key))
}

func articleIDsIn(sub sq.SelectBuilder) (sq.Sqlizer, error) {
	sql, args, err := sub.ToSql()
	if err != nil {
		return nil, err
	}
	return sq.Expr("articles.id IN ("+sql+")", args...), nil
}
