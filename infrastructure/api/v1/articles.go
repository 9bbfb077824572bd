package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/helixml/newsdesk"
	"github.com/helixml/newsdesk/application/service"
	"github.com/helixml/newsdesk/infrastructure/api/jsonapi"
	"github.com/helixml/newsdesk/infrastructure/api/middleware"
	"github.com/helixml/newsdesk/internal/config"
)

// SearchRequest is the body of POST /api/v1/articles/search.
type SearchRequest struct {
	Industry  string   `json:"industry"`
	Keywords  []string `json:"keywords"`
	TimeRange string   `json:"time_range"`
	FetchNew  bool     `json:"fetch_new"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
}

// ArticlesRouter handles article endpoints.
type ArticlesRouter struct {
	client *newsdesk.Client
	logger *slog.Logger
}

// NewArticlesRouter creates a new ArticlesRouter.
func NewArticlesRouter(client *newsdesk.Client) *ArticlesRouter {
	return &ArticlesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for article endpoints.
func (r *ArticlesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/search", r.Search)
	router.Get("/{id}", r.Get)
	router.Post("/{id}/relink", r.Relink)

	return router
}

// List handles GET /api/v1/articles.
func (r *ArticlesRouter) List(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	var keywords []string
	for _, v := range q["keywords"] {
		keywords = append(keywords, config.ParseList(v)...)
	}

	params := ParsePagination(req, r.client.PageSize())
	r.respond(w, req, q.Get("industry"), keywords, q.Get("time_range"), params, nil)
}

// Search handles POST /api/v1/articles/search. With fetch_new it first
// refreshes from the news source and reports the outcome in meta.messages.
// The filter runs whether or not the refresh found anything.
func (r *ArticlesRouter) Search(w http.ResponseWriter, req *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	params := NewPaginationParams(r.client.PageSize()).WithPage(body.Page)
	if body.PageSize > 0 {
		params = params.WithPageSize(body.PageSize)
	}

	var messages []string
	if body.FetchNew {
		if strings.TrimSpace(body.Industry) == "" && len(body.Keywords) == 0 {
			middleware.WriteError(w, req, middleware.NewValidationError("select at least one industry or keyword to fetch"), r.logger)
			return
		}
		report, err := r.client.Ingest.Refresh(req.Context(), service.RefreshRequest{
			Industry: body.Industry,
			Keywords: body.Keywords,
		})
		switch {
		case errors.Is(err, service.ErrNothingToFetch):
			messages = append(report.Notices, "select at least one industry or keyword to fetch")
		case err != nil:
			middleware.WriteError(w, req, err, r.logger)
			return
		default:
			messages = report.Messages()
		}
	}

	r.respond(w, req, body.Industry, body.Keywords, body.TimeRange, params, messages)
}

func (r *ArticlesRouter) respond(
	w http.ResponseWriter,
	req *http.Request,
	industry string,
	keywords []string,
	timeRange string,
	params PaginationParams,
	messages []string,
) {
	predicate, err := r.client.Filter.BuildPredicate(industry, keywords, timeRange)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	result, err := r.client.Filter.Query(req.Context(), predicate, params.Options()...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	doc := jsonapi.NewListResponse(jsonapi.ArticleResources(result.Articles))
	doc.Meta = PaginationMeta(params, result.Total)
	if messages != nil {
		(*doc.Meta)["messages"] = messages
	}
	doc.Links = PaginationLinks(req, params, result.Total)
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Get handles GET /api/v1/articles/{id}.
func (r *ArticlesRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, ok := r.parseID(w, req)
	if !ok {
		return
	}
	article, links, err := r.client.Filter.Article(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.ArticleWithLinks(article, links))
}

// Relink handles POST /api/v1/articles/{id}/relink.
func (r *ArticlesRouter) Relink(w http.ResponseWriter, req *http.Request) {
	id, ok := r.parseID(w, req)
	if !ok {
		return
	}
	article, links, err := r.client.Linker.RelinkID(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.ArticleWithLinks(article, links))
}

func (r *ArticlesRouter) parseID(w http.ResponseWriter, req *http.Request) (int64, bool) {
	return parseID(w, req, r.logger)
}

func parseID(w http.ResponseWriter, req *http.Request, logger *slog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, req, middleware.NewValidationError("invalid id"), logger)
		return 0, false
	}
	return id, true
}
