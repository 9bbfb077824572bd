package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/internal/config"
)

// FetchFailure records a search term whose fetch failed.
type FetchFailure struct {
	Keyword string
	Err     error
}

// Message returns the user facing failure message.
func (f FetchFailure) Message() string { return f.Err.Error() }

// FetchReport summarizes a fetch run.
type FetchReport struct {
	Terms    []string
	Created  int
	Failures []FetchFailure
	Notices  []string
}

// Summary returns a one line description of the outcome.
func (r FetchReport) Summary() string {
	if r.Created > 0 {
		return fmt.Sprintf("fetched %d new articles", r.Created)
	}
	return "no new articles found"
}

// Messages returns notices, failure messages and the summary, in order.
func (r FetchReport) Messages() []string {
	out := make([]string, 0, len(r.Notices)+len(r.Failures)+1)
	out = append(out, r.Notices...)
	for _, f := range r.Failures {
		out = append(out, f.Message())
	}
	return append(out, r.Summary())
}

// Selection picks the keywords a batch fetch searches for.
type Selection struct {
	// KeywordContains matches keywords whose text contains the fragment.
	KeywordContains string
	// Industry adds every keyword of the named industry.
	Industry string
}

// IsEmpty reports whether no selector is set.
func (s Selection) IsEmpty() bool {
	return s.KeywordContains == "" && s.Industry == ""
}

// RefreshRequest asks for live articles about an industry and keywords.
type RefreshRequest struct {
	Industry string
	Keywords []string
	Limit    int
}

// IngestOption configures an Ingest service.
type IngestOption func(*Ingest)

// WithFetchConcurrency bounds the number of terms fetched at once.
func WithFetchConcurrency(n int) IngestOption {
	return func(s *Ingest) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithFetchLimit sets the default number of articles requested per term.
func WithFetchLimit(n int) IngestOption {
	return func(s *Ingest) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Ingest stores fetched articles and keeps their links current.
type Ingest struct {
	articles    news.ArticleStore
	entities    *Entities
	linker      *Linker
	source      news.Source
	logger      *slog.Logger
	concurrency int
	limit       int
}

// NewIngest creates a new Ingest service. source may be nil when only
// local ingestion is needed.
func NewIngest(
	articles news.ArticleStore,
	entities *Entities,
	linker *Linker,
	source news.Source,
	logger *slog.Logger,
	opts ...IngestOption,
) *Ingest {
	s := &Ingest{
		articles:    articles,
		entities:    entities,
		linker:      linker,
		source:      source,
		logger:      logger,
		concurrency: config.DefaultFetchConcurrency,
		limit:       config.DefaultFetchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store persists an article unless its URL is already known. The bool
// reports whether it was created. Existing articles are not modified.
func (s *Ingest) Store(ctx context.Context, article news.Article) (news.Article, bool, error) {
	if err := article.Validate(); err != nil {
		return news.Article{}, false, err
	}
	return s.articles.Ensure(ctx, article)
}

// Save stores an article and relinks it when it was created.
func (s *Ingest) Save(ctx context.Context, article news.Article) (news.Article, bool, error) {
	stored, created, err := s.Store(ctx, article)
	if err != nil {
		return news.Article{}, false, err
	}
	if !created {
		return stored, false, nil
	}
	if _, err := s.linker.Relink(ctx, stored); err != nil {
		return news.Article{}, false, fmt.Errorf("relink article %d: %w", stored.ID(), err)
	}
	return stored, true, nil
}

// IngestAll saves a batch and returns how many articles were new.
// Invalid articles are skipped.
func (s *Ingest) IngestAll(ctx context.Context, articles []news.Article) (int, error) {
	created := 0
	for _, article := range articles {
		_, isNew, err := s.Save(ctx, article)
		if errors.Is(err, news.ErrInvalidArticle) {
			s.logger.Warn("skipping invalid article",
				slog.String("url", article.URL()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}
	return created, nil
}

// Fetch searches the source for each distinct term and ingests the
// results. A failing term is recorded in the report and never stops the
// others. The error is non-nil only when ctx is done.
func (s *Ingest) Fetch(ctx context.Context, terms []string, limit int) (FetchReport, error) {
	if s.source == nil {
		return FetchReport{}, errors.New("no news source configured")
	}
	if limit <= 0 {
		limit = s.limit
	}

	report := FetchReport{Terms: distinctTerms(terms)}
	failures := make([]error, len(report.Terms))
	var (
		mu      sync.Mutex
		created int
	)

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, term := range report.Terms {
		g.Go(func() error {
			n, err := s.fetchTerm(ctx, term, limit)
			mu.Lock()
			defer mu.Unlock()
			created += n
			failures[i] = err
			return nil
		})
	}
	_ = g.Wait()

	report.Created = created
	for i, err := range failures {
		if err == nil {
			continue
		}
		s.logger.Warn("fetch failed",
			slog.String("keyword", report.Terms[i]),
			slog.String("error", err.Error()),
		)
		report.Failures = append(report.Failures, FetchFailure{Keyword: report.Terms[i], Err: err})
	}

	s.logger.Info("fetch complete",
		slog.Int("terms", len(report.Terms)),
		slog.Int("created", report.Created),
		slog.Int("failures", len(report.Failures)),
	)
	return report, ctx.Err()
}

func (s *Ingest) fetchTerm(ctx context.Context, term string, limit int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	articles, err := s.source.Search(ctx, term, limit)
	if err != nil {
		return 0, err
	}
	created, err := s.IngestAll(ctx, articles)
	if err != nil {
		return created, fmt.Errorf("store articles for keyword %s: %w", term, err)
	}
	s.logger.Debug("keyword fetched",
		slog.String("keyword", term),
		slog.Int("results", len(articles)),
		slog.Int("created", created),
	)
	return created, nil
}

// SelectKeywords resolves a batch fetch selection. Keywords containing
// the fragment are unioned with the keywords of the named industry; an
// empty selection means every keyword.
func (s *Ingest) SelectKeywords(ctx context.Context, sel Selection) ([]news.Keyword, error) {
	if sel.IsEmpty() {
		return s.entities.Keywords(ctx, "")
	}

	var selected []news.Keyword
	seen := map[int64]struct{}{}
	add := func(keywords []news.Keyword) {
		for _, k := range keywords {
			if _, ok := seen[k.ID()]; ok {
				continue
			}
			seen[k.ID()] = struct{}{}
			selected = append(selected, k)
		}
	}

	if sel.KeywordContains != "" {
		matched, err := s.entities.KeywordsContaining(ctx, sel.KeywordContains)
		if err != nil {
			return nil, err
		}
		add(matched)
	}
	if sel.Industry != "" {
		owned, err := s.entities.Keywords(ctx, sel.Industry)
		if err != nil {
			return nil, err
		}
		add(owned)
	}
	return selected, nil
}

// FetchSelection fetches every keyword chosen by sel.
func (s *Ingest) FetchSelection(ctx context.Context, sel Selection, limit int) (FetchReport, error) {
	keywords, err := s.SelectKeywords(ctx, sel)
	if err != nil {
		return FetchReport{}, err
	}
	if len(keywords) == 0 {
		return FetchReport{}, ErrNothingToFetch
	}
	terms := make([]string, len(keywords))
	for i, k := range keywords {
		terms[i] = k.Text()
	}
	return s.Fetch(ctx, terms, limit)
}

// Refresh fetches live articles for an interactive filter request.
//
// A named industry contributes its keywords. An unknown industry is
// created together with a keyword of the same text, which is searched
// instead. Every listed keyword is searched and created when missing,
// scoped to the named industry.
func (s *Ingest) Refresh(ctx context.Context, req RefreshRequest) (FetchReport, error) {
	var (
		terms      []string
		notices    []string
		industryID int64
	)

	if req.Industry != "" {
		industry, err := s.entities.FindIndustry(ctx, req.Industry)
		switch {
		case err == nil:
			industryID = industry.ID()
			owned, err := s.entities.Keywords(ctx, industry.Name())
			if err != nil {
				return FetchReport{}, err
			}
			for _, k := range owned {
				terms = append(terms, k.Text())
			}
		case errors.Is(err, ErrIndustryNotFound):
			created, ok, err := s.entities.Industry(ctx, req.Industry)
			if err != nil {
				return FetchReport{}, err
			}
			if ok {
				industryID = created.ID()
				if _, _, err := s.entities.Keyword(ctx, created.Name(), industryID); err != nil {
					return FetchReport{}, err
				}
				terms = append(terms, created.Name())
				notices = append(notices, "added industry "+created.Name())
			}
		default:
			return FetchReport{}, err
		}
	}

	for _, raw := range req.Keywords {
		text := news.Normalize(raw)
		if text == "" {
			continue
		}
		terms = append(terms, text)
		exists, err := s.entities.HasKeyword(ctx, text)
		if err != nil {
			return FetchReport{}, err
		}
		if exists {
			continue
		}
		if _, ok, err := s.entities.Keyword(ctx, text, industryID); err != nil {
			return FetchReport{}, err
		} else if ok {
			notices = append(notices, "added keyword "+text)
		}
	}

	if len(distinctTerms(terms)) == 0 {
		return FetchReport{Notices: notices}, ErrNothingToFetch
	}

	report, err := s.Fetch(ctx, terms, req.Limit)
	report.Notices = append(notices, report.Notices...)
	return report, err
}

// distinctTerms normalizes terms and drops duplicates and invalid ones,
// keeping first occurrence order.
func distinctTerms(terms []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		text := news.Normalize(t)
		if text == "" {
			continue
		}
		key := news.Key(text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, text)
	}
	return out
}
