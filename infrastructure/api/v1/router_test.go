package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/helixml/newsdesk"
	"github.com/helixml/newsdesk/domain/news"
	v1 "github.com/helixml/newsdesk/infrastructure/api/v1"
)

var published = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

type mapSource map[string][]news.Article

func (s mapSource) Search(_ context.Context, term string, _ int) ([]news.Article, error) {
	if term == "fail" {
		return nil, fmt.Errorf("fetch keyword %s failed, status 500", term)
	}
	return s[term], nil
}

type document struct {
	Data     json.RawMessage   `json:"data"`
	Meta     map[string]any    `json:"meta"`
	Links    map[string]string `json:"links"`
	Included []json.RawMessage `json:"included"`
	Errors   []struct {
		Status string `json:"status"`
	} `json:"errors"`
}

type resource struct {
	Type          string                     `json:"type"`
	ID            string                     `json:"id"`
	Attributes    map[string]any             `json:"attributes"`
	Relationships map[string]json.RawMessage `json:"relationships"`
}

func newRouter(t *testing.T, source news.Source) (http.Handler, *newsdesk.Client) {
	t.Helper()
	client, err := newsdesk.New(
		newsdesk.WithSQLite(filepath.Join(t.TempDir(), "newsdesk.db")),
		newsdesk.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		newsdesk.WithSource(source),
		newsdesk.WithClock(func() time.Time { return published.Add(time.Hour) }),
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	router := chi.NewRouter()
	router.Mount("/articles", v1.NewArticlesRouter(client).Routes())
	router.Mount("/industries", v1.NewIndustriesRouter(client).Routes())
	router.Mount("/keywords", v1.NewKeywordsRouter(client).Routes())
	return router, client
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, document) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var doc document
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w.Code, doc
}

func resources(t *testing.T, doc document) []resource {
	t.Helper()
	var out []resource
	if err := json.Unmarshal(doc.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

func single(t *testing.T, doc document) resource {
	t.Helper()
	var out resource
	if err := json.Unmarshal(doc.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

func seed(t *testing.T, client *newsdesk.Client, titles ...string) {
	t.Helper()
	ctx := context.Background()
	for i, title := range titles {
		article := news.NewArticle(title, "", fmt.Sprintf("https://example.com/%d", i), "wire", published.Add(-time.Duration(i)*time.Minute))
		if _, _, err := client.Ingest.Save(ctx, article); err != nil {
			t.Fatalf("save article: %v", err)
		}
	}
}

func TestIndustriesRouter(t *testing.T) {
	h, _ := newRouter(t, mapSource{})

	code, doc := do(t, h, http.MethodPost, "/industries", `{"name":"科技","description":"technology"}`)
	if code != http.StatusOK {
		t.Fatalf("create status = %d", code)
	}
	created := single(t, doc)
	if created.Attributes["name"] != "科技" || created.Attributes["description"] != "technology" {
		t.Errorf("attributes = %v", created.Attributes)
	}

	code, doc = do(t, h, http.MethodPost, "/industries", `{"name":"科技"}`)
	if code != http.StatusOK || single(t, doc).ID != created.ID {
		t.Errorf("second create should return the existing industry")
	}

	code, _ = do(t, h, http.MethodPost, "/industries", `{"name":" - "}`)
	if code != http.StatusBadRequest {
		t.Errorf("invalid name status = %d, want 400", code)
	}

	code, _ = do(t, h, http.MethodPost, "/industries", `{"name":`)
	if code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", code)
	}

	code, doc = do(t, h, http.MethodGet, "/industries", "")
	if code != http.StatusOK || len(resources(t, doc)) != 1 {
		t.Errorf("list status = %d, items = %d", code, len(resources(t, doc)))
	}

	code, _ = do(t, h, http.MethodDelete, "/industries/"+created.ID, "")
	if code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", code)
	}
	code, _ = do(t, h, http.MethodDelete, "/industries/"+created.ID, "")
	if code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", code)
	}
	code, _ = do(t, h, http.MethodDelete, "/industries/abc", "")
	if code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", code)
	}
}

func TestKeywordsRouter(t *testing.T) {
	h, _ := newRouter(t, mapSource{})

	code, doc := do(t, h, http.MethodPost, "/keywords", `{"text":"AI","industry":"科技"}`)
	if code != http.StatusOK {
		t.Fatalf("create status = %d", code)
	}
	if single(t, doc).Attributes["industry_id"] == nil {
		t.Error("keyword should belong to the industry")
	}
	do(t, h, http.MethodPost, "/keywords", `{"text":"rally"}`)

	code, doc = do(t, h, http.MethodGet, "/keywords?industry=科技", "")
	if code != http.StatusOK || len(resources(t, doc)) != 1 {
		t.Errorf("filtered list status = %d", code)
	}
	code, doc = do(t, h, http.MethodGet, "/keywords", "")
	if code != http.StatusOK || len(resources(t, doc)) != 2 {
		t.Errorf("list status = %d", code)
	}

	code, _ = do(t, h, http.MethodGet, "/keywords?industry=missing", "")
	if code != http.StatusNotFound {
		t.Errorf("unknown industry status = %d, want 404", code)
	}
	code, _ = do(t, h, http.MethodPost, "/keywords", `{"text":"A"}`)
	if code != http.StatusBadRequest {
		t.Errorf("short keyword status = %d, want 400", code)
	}
}

func TestArticlesRouter_List(t *testing.T) {
	h, client := newRouter(t, mapSource{})
	do(t, h, http.MethodPost, "/keywords", `{"text":"AI","industry":"科技"}`)
	seed(t, client, "AI drives cloud growth", "Weather report", "5G towers", "AI chips")

	code, doc := do(t, h, http.MethodGet, "/articles?industry=科技", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	items := resources(t, doc)
	if len(items) != 2 || items[0].Attributes["title"] != "AI drives cloud growth" {
		t.Errorf("items = %v", items)
	}

	code, doc = do(t, h, http.MethodGet, "/articles?keywords=5G,weather&page_size=1&page=2", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	items = resources(t, doc)
	if len(items) != 1 || items[0].Attributes["title"] != "5G towers" {
		t.Errorf("items = %v", items)
	}
	if doc.Meta["total_count"] != float64(2) || doc.Meta["total_pages"] != float64(2) {
		t.Errorf("meta = %v", doc.Meta)
	}
	if doc.Links["prev"] == "" || doc.Links["next"] != "" {
		t.Errorf("links = %v", doc.Links)
	}

	code, _ = do(t, h, http.MethodGet, "/articles?time_range=decade", "")
	if code != http.StatusBadRequest {
		t.Errorf("bad range status = %d, want 400", code)
	}
}

func TestArticlesRouter_SearchWithFetch(t *testing.T) {
	source := mapSource{
		"半導體": {news.NewArticle("半導體 出口 成長", "", "https://example.com/chip", "wire", published)},
	}
	h, _ := newRouter(t, source)

	code, doc := do(t, h, http.MethodPost, "/articles/search",
		`{"industry":"半導體","keywords":["出口","fail"],"time_range":"today","fetch_new":true}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	messages, _ := doc.Meta["messages"].([]any)
	want := []string{
		"added industry 半導體",
		"added keyword 出口",
		"added keyword fail",
		"fetch keyword fail failed, status 500",
		"fetched 1 new articles",
	}
	if len(messages) != len(want) {
		t.Fatalf("messages = %v", messages)
	}
	for i, m := range want {
		if messages[i] != m {
			t.Errorf("message %d = %v, want %q", i, messages[i], m)
		}
	}

	items := resources(t, doc)
	if len(items) != 1 || items[0].Attributes["url"] != "https://example.com/chip" {
		t.Errorf("items = %v", items)
	}

	code, _ = do(t, h, http.MethodPost, "/articles/search", `{"fetch_new":true}`)
	if code != http.StatusBadRequest {
		t.Errorf("empty fetch status = %d, want 400", code)
	}
}

func TestArticlesRouter_SearchWithOnlyInvalidTerms(t *testing.T) {
	h, client := newRouter(t, mapSource{})
	seed(t, client, "Weather report", "AI chips")

	code, doc := do(t, h, http.MethodPost, "/articles/search", `{"keywords":["a"," "],"fetch_new":true}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, errors = %v", code, doc.Errors)
	}
	messages, _ := doc.Meta["messages"].([]any)
	if len(messages) != 1 || messages[0] != "select at least one industry or keyword to fetch" {
		t.Errorf("messages = %v", messages)
	}
	if items := resources(t, doc); len(items) != 2 {
		t.Errorf("items = %d, want every article", len(items))
	}
	if doc.Meta["total_count"] != float64(2) {
		t.Errorf("meta = %v", doc.Meta)
	}
}

func TestArticlesRouter_GetAndRelink(t *testing.T) {
	h, client := newRouter(t, mapSource{})
	seed(t, client, "科技 AI chips")

	code, doc := do(t, h, http.MethodGet, "/articles/1", "")
	if code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if len(doc.Included) != 0 {
		t.Errorf("article should have no links yet, included = %d", len(doc.Included))
	}

	do(t, h, http.MethodPost, "/keywords", `{"text":"AI","industry":"科技"}`)

	code, doc = do(t, h, http.MethodPost, "/articles/1/relink", "")
	if code != http.StatusOK {
		t.Fatalf("relink status = %d", code)
	}
	if len(doc.Included) != 2 {
		t.Errorf("included = %d, want industry and keyword", len(doc.Included))
	}
	article := single(t, doc)
	if _, ok := article.Relationships["keywords"]; !ok {
		t.Error("keywords relationship missing")
	}

	code, _ = do(t, h, http.MethodGet, "/articles/99", "")
	if code != http.StatusNotFound {
		t.Errorf("missing article status = %d, want 404", code)
	}
}
