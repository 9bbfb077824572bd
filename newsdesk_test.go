package newsdesk_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/newsdesk"
	"github.com/helixml/newsdesk/application/service"
	"github.com/helixml/newsdesk/domain/news"
)

type stubSource map[string][]news.Article

func (s stubSource) Search(_ context.Context, term string, _ int) ([]news.Article, error) {
	return s[term], nil
}

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := newsdesk.New()
	assert.ErrorIs(t, err, newsdesk.ErrNoDatabase)
}

func TestNew_WithSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "newsdesk.db")

	client, err := newsdesk.New(newsdesk.WithSQLite(dbPath))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, client.Close())
	}()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, 10, client.PageSize())
}

func TestClient_Close_Idempotent(t *testing.T) {
	client, err := newsdesk.New(newsdesk.WithSQLite(filepath.Join(t.TempDir(), "newsdesk.db")))
	require.NoError(t, err)

	assert.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), newsdesk.ErrClientClosed)
}

func TestClient_SeedFetchFilter(t *testing.T) {
	ctx := context.Background()
	published := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	source := stubSource{
		"AI": {news.NewArticle("科技 AI 晶片 熱賣", "<b>AI</b> demand", "https://example.com/ai", "wire", published)},
		"銀行": {news.NewArticle("銀行 升息", "", "https://example.com/bank", "wire", published.Add(-time.Hour))},
	}

	client, err := newsdesk.New(
		newsdesk.WithSQLite(filepath.Join(t.TempDir(), "newsdesk.db")),
		newsdesk.WithSource(source),
		newsdesk.WithClock(func() time.Time { return published.Add(2 * time.Hour) }),
		newsdesk.WithPageSize(20),
	)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	taxonomy, err := service.DefaultTaxonomy()
	require.NoError(t, err)
	_, err = client.Seeder.Seed(ctx, taxonomy)
	require.NoError(t, err)

	report, err := client.Ingest.FetchSelection(ctx, service.Selection{Industry: "科技"}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Empty(t, report.Failures)

	predicate, err := client.Filter.BuildPredicate("科技", nil, "today")
	require.NoError(t, err)
	result, err := client.Filter.Query(ctx, predicate)
	require.NoError(t, err)
	require.Len(t, result.Articles, 1)
	assert.Equal(t, "https://example.com/ai", result.Articles[0].URL())
	assert.Equal(t, 20, client.PageSize())
}
