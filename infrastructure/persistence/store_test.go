package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/domain/repository"
	"github.com/helixml/newsdesk/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a migrated in-memory SQLite database for testing.
// Cannot use testdb package here due to import cycle (testdb imports persistence).
func newTestDB(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIndustryStore_EnsureIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := NewIndustryStore(newTestDB(t))

	first, err := store.Ensure(ctx, news.NewIndustry("AI Chips"))
	require.NoError(t, err)
	second, err := store.Ensure(ctx, news.NewIndustry(" ai-chips "))
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, "AI Chips", second.Name())
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIndustryStore_EnsureRejectsInvalidName(t *testing.T) {
	store := NewIndustryStore(newTestDB(t))

	_, err := store.Ensure(context.Background(), news.NewIndustry("x"))
	assert.ErrorIs(t, err, news.ErrInvalidText)
}

func TestIndustryStore_SaveDescription(t *testing.T) {
	ctx := context.Background()
	store := NewIndustryStore(newTestDB(t))

	ind, err := store.Ensure(ctx, news.NewIndustry("金融"))
	require.NoError(t, err)
	_, err = store.Save(ctx, ind.WithDescription("金融產業相關新聞"))
	require.NoError(t, err)

	got, err := store.FindOne(ctx, news.WithNameKey("金融"))
	require.NoError(t, err)
	assert.Equal(t, "金融產業相關新聞", got.Description())
}

func TestKeywordStore_EnsureBackfillsIndustry(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	industries := NewIndustryStore(db)
	keywords := NewKeywordStore(db)

	tech, err := industries.Ensure(ctx, news.NewIndustry("科技"))
	require.NoError(t, err)
	finance, err := industries.Ensure(ctx, news.NewIndustry("金融"))
	require.NoError(t, err)

	orphan, err := keywords.Ensure(ctx, news.NewKeyword("AI", 0))
	require.NoError(t, err)
	assert.False(t, orphan.HasIndustry())

	adopted, err := keywords.Ensure(ctx, news.NewKeyword("ai", tech.ID()))
	require.NoError(t, err)
	assert.Equal(t, orphan.ID(), adopted.ID())
	assert.Equal(t, tech.ID(), adopted.IndustryID())

	kept, err := keywords.Ensure(ctx, news.NewKeyword("AI", finance.ID()))
	require.NoError(t, err)
	assert.Equal(t, tech.ID(), kept.IndustryID())
}

func TestKeywordStore_EnsureConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewKeywordStore(newTestDB(t))

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kw, err := store.Ensure(ctx, news.NewKeyword("5G", 0))
			ids[i], errs[i] = kw.ID(), err
		}(i)
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	count, err := store.Count(ctx, news.WithTextKey("5g"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestKeywordStore_TextContaining(t *testing.T) {
	ctx := context.Background()
	store := NewKeywordStore(newTestDB(t))

	for _, text := range []string{"電動車", "電池技術", "太陽能", "100%_pure"} {
		_, err := store.Ensure(ctx, news.NewKeyword(text, 0))
		require.NoError(t, err)
	}

	got, err := store.Find(ctx, news.WithTextContaining("電"), news.WithTextOrder())
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = store.Find(ctx, news.WithTextContaining("0%"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% pure", got[0].Text())
}

func TestIndustryStore_DeleteDetachesKeywords(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	industries := NewIndustryStore(db)
	keywords := NewKeywordStore(db)
	articles := NewArticleStore(db)

	tech, err := industries.Ensure(ctx, news.NewIndustry("科技"))
	require.NoError(t, err)
	ai, err := keywords.Ensure(ctx, news.NewKeyword("AI", tech.ID()))
	require.NoError(t, err)
	article, _, err := articles.Ensure(ctx, news.NewArticle("AI 科技", "", "https://example.com/1", "Example", time.Time{}))
	require.NoError(t, err)
	require.NoError(t, articles.LinkIndustries(ctx, article.ID(), []int64{tech.ID()}))

	require.NoError(t, industries.Delete(ctx, tech))

	kw, err := keywords.FindOne(ctx, repository.WithID(ai.ID()))
	require.NoError(t, err)
	assert.False(t, kw.HasIndustry())

	links, err := articles.Links(ctx, article.ID())
	require.NoError(t, err)
	assert.Empty(t, links.Industries)

	err = industries.Delete(ctx, tech)
	assert.True(t, IsNotFound(err))
}

func TestArticleStore_EnsureDeduplicatesByURL(t *testing.T) {
	ctx := context.Background()
	store := NewArticleStore(newTestDB(t))
	published := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

	first, created, err := store.Ensure(ctx, news.NewArticle("Original", "desc", "https://example.com/a", "Example", published))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := store.Ensure(ctx, news.NewArticle("Changed", "", "https://example.com/a", "Other", time.Time{}))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, "Original", second.Title())
	assert.Equal(t, "desc", second.Description())
	assert.True(t, second.PublishedAt().Equal(published))
}

func TestArticleStore_LinkSets(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	industries := NewIndustryStore(db)
	keywords := NewKeywordStore(db)
	articles := NewArticleStore(db)

	tech, err := industries.Ensure(ctx, news.NewIndustry("科技"))
	require.NoError(t, err)
	finance, err := industries.Ensure(ctx, news.NewIndustry("金融"))
	require.NoError(t, err)
	ai, err := keywords.Ensure(ctx, news.NewKeyword("AI", tech.ID()))
	require.NoError(t, err)
	cloud, err := keywords.Ensure(ctx, news.NewKeyword("Cloud", tech.ID()))
	require.NoError(t, err)
	article, _, err := articles.Ensure(ctx, news.NewArticle("AI cloud", "", "https://example.com/1", "Example", time.Time{}))
	require.NoError(t, err)

	require.NoError(t, articles.LinkIndustries(ctx, article.ID(), []int64{tech.ID(), finance.ID()}))
	require.NoError(t, articles.LinkIndustries(ctx, article.ID(), []int64{tech.ID()}))
	require.NoError(t, articles.UnlinkIndustries(ctx, article.ID(), []int64{finance.ID()}))
	require.NoError(t, articles.ReplaceKeywords(ctx, article.ID(), []int64{ai.ID(), cloud.ID()}))
	require.NoError(t, articles.ReplaceKeywords(ctx, article.ID(), []int64{cloud.ID()}))

	links, err := articles.Links(ctx, article.ID())
	require.NoError(t, err)
	assert.Equal(t, []int64{tech.ID()}, links.IndustryIDs())
	assert.Equal(t, []int64{cloud.ID()}, links.KeywordIDs())

	require.NoError(t, articles.ReplaceKeywords(ctx, article.ID(), nil))
	links, err = articles.Links(ctx, article.ID())
	require.NoError(t, err)
	assert.Empty(t, links.Keywords)
}

func TestArticleStore_LinkKeywordMatches(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	keywords := NewKeywordStore(db)
	articles := NewArticleStore(db)

	ai, err := keywords.Ensure(ctx, news.NewKeyword("AI", 0))
	require.NoError(t, err)
	hit, _, err := articles.Ensure(ctx, news.NewArticle("AI drives cloud growth", "", "https://example.com/1", "Example", time.Time{}))
	require.NoError(t, err)
	_, _, err = articles.Ensure(ctx, news.NewArticle("SAID the CEO", "", "https://example.com/2", "Example", time.Time{}))
	require.NoError(t, err)

	linked, err := articles.LinkKeywordMatches(ctx, ai)
	require.NoError(t, err)
	assert.Equal(t, int64(1), linked)

	linked, err = articles.LinkKeywordMatches(ctx, ai)
	require.NoError(t, err)
	assert.Equal(t, int64(0), linked)

	links, err := articles.Links(ctx, hit.ID())
	require.NoError(t, err)
	assert.Equal(t, []int64{ai.ID()}, links.KeywordIDs())
}

func TestArticleStore_Match(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	industries := NewIndustryStore(db)
	keywords := NewKeywordStore(db)
	articles := NewArticleStore(db)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tech, err := industries.Ensure(ctx, news.NewIndustry("科技"))
	require.NoError(t, err)
	chips, err := keywords.Ensure(ctx, news.NewKeyword("chips", tech.ID()))
	require.NoError(t, err)

	save := func(title, url string, published time.Time) news.Article {
		a, _, err := articles.Ensure(ctx, news.NewArticle(title, "", url, "Example", published))
		require.NoError(t, err)
		return a
	}
	midnight := save("Market open", "https://example.com/midnight", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	undated := save("AI undated", "https://example.com/undated", time.Time{})
	named := save("科技 news", "https://example.com/named", now.AddDate(0, 0, -3))
	linkedOnly := save("Quarterly results", "https://example.com/linked", now.AddDate(0, 0, -10))
	viaKeyword := save("Weekly roundup", "https://example.com/keyword", now.AddDate(0, 0, -1))
	aiText := save("AI boom", "https://example.com/ai", now.AddDate(0, 0, -2))

	require.NoError(t, articles.LinkIndustries(ctx, linkedOnly.ID(), []int64{tech.ID()}))
	require.NoError(t, articles.ReplaceKeywords(ctx, viaKeyword.ID(), []int64{chips.ID()}))

	ids := func(p news.Predicate) []int64 {
		t.Helper()
		got, err := articles.Match(ctx, p)
		require.NoError(t, err)
		out := make([]int64, len(got))
		for i, a := range got {
			out[i] = a.ID()
		}
		total, err := articles.CountMatching(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(len(got)), total)
		return out
	}

	t.Run("all orders newest first with undated last", func(t *testing.T) {
		got := ids(news.NewPredicate("", nil, news.RangeAll, now))
		assert.Equal(t, []int64{midnight.ID(), viaKeyword.ID(), aiText.ID(), named.ID(), linkedOnly.ID(), undated.ID()}, got)
	})

	t.Run("today includes midnight and excludes undated", func(t *testing.T) {
		got := ids(news.NewPredicate("", nil, news.RangeToday, now))
		assert.Equal(t, []int64{midnight.ID()}, got)
	})

	t.Run("week", func(t *testing.T) {
		got := ids(news.NewPredicate("", nil, news.RangeWeek, now))
		assert.Equal(t, []int64{midnight.ID(), viaKeyword.ID(), aiText.ID(), named.ID()}, got)
	})

	t.Run("industry branches", func(t *testing.T) {
		got := ids(news.NewPredicate("科技", nil, news.RangeAll, now))
		assert.Equal(t, []int64{viaKeyword.ID(), named.ID(), linkedOnly.ID()}, got)
	})

	t.Run("industry terms add text branches", func(t *testing.T) {
		p := news.NewPredicate("科技", nil, news.RangeAll, now).WithIndustryTerms([]string{"AI"})
		got := ids(p)
		assert.Equal(t, []int64{viaKeyword.ID(), aiText.ID(), named.ID(), linkedOnly.ID(), undated.ID()}, got)
	})

	t.Run("keywords are ored", func(t *testing.T) {
		got := ids(news.NewPredicate("", []string{"ai", "chips"}, news.RangeAll, now))
		assert.Equal(t, []int64{viaKeyword.ID(), aiText.ID(), undated.ID()}, got)
	})

	t.Run("industry and keywords are anded", func(t *testing.T) {
		got := ids(news.NewPredicate("科技", []string{"AI"}, news.RangeAll, now))
		assert.Empty(t, got)

		got = ids(news.NewPredicate("科技", []string{"chips"}, news.RangeAll, now))
		assert.Equal(t, []int64{viaKeyword.ID()}, got)
	})

	t.Run("paginates", func(t *testing.T) {
		got, err := articles.Match(ctx, news.NewPredicate("", nil, news.RangeAll, now), repository.WithPagination(2, 2)...)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, aiText.ID(), got[0].ID())
	})
}
