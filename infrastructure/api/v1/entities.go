package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helixml/newsdesk"
	"github.com/helixml/newsdesk/infrastructure/api/jsonapi"
	"github.com/helixml/newsdesk/infrastructure/api/middleware"
)

// IndustryRequest is the body of POST /api/v1/industries.
type IndustryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// KeywordRequest is the body of POST /api/v1/keywords.
type KeywordRequest struct {
	Text     string `json:"text"`
	Industry string `json:"industry"`
}

// IndustriesRouter handles industry endpoints.
type IndustriesRouter struct {
	client *newsdesk.Client
	logger *slog.Logger
}

// NewIndustriesRouter creates a new IndustriesRouter.
func NewIndustriesRouter(client *newsdesk.Client) *IndustriesRouter {
	return &IndustriesRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for industry endpoints.
func (r *IndustriesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Delete("/{id}", r.Delete)

	return router
}

// List handles GET /api/v1/industries.
func (r *IndustriesRouter) List(w http.ResponseWriter, req *http.Request) {
	industries, err := r.client.Entities.Industries(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(jsonapi.IndustryResources(industries)))
}

// Create handles POST /api/v1/industries. An existing industry with the
// same name is returned instead of a duplicate.
func (r *IndustriesRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body IndustryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	industry, ok, err := r.client.Entities.DescribeIndustry(req.Context(), body.Name, body.Description)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if !ok {
		middleware.WriteError(w, req, middleware.NewValidationError("industry name must contain at least two characters and a letter or digit"), r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(jsonapi.IndustryResource(industry)))
}

// Delete handles DELETE /api/v1/industries/{id}.
func (r *IndustriesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id, ok := parseID(w, req, r.logger)
	if !ok {
		return
	}
	if err := r.client.Entities.DeleteIndustry(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// KeywordsRouter handles keyword endpoints.
type KeywordsRouter struct {
	client *newsdesk.Client
	logger *slog.Logger
}

// NewKeywordsRouter creates a new KeywordsRouter.
func NewKeywordsRouter(client *newsdesk.Client) *KeywordsRouter {
	return &KeywordsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for keyword endpoints.
func (r *KeywordsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)

	return router
}

// List handles GET /api/v1/keywords, optionally filtered by ?industry=.
func (r *KeywordsRouter) List(w http.ResponseWriter, req *http.Request) {
	keywords, err := r.client.Entities.Keywords(req.Context(), req.URL.Query().Get("industry"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(jsonapi.KeywordResources(keywords)))
}

// Create handles POST /api/v1/keywords.
func (r *KeywordsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body KeywordRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	keyword, ok, err := r.client.Entities.KeywordFor(req.Context(), body.Text, body.Industry)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if !ok {
		middleware.WriteError(w, req, middleware.NewValidationError("keyword must contain at least two characters and a letter or digit"), r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(jsonapi.KeywordResource(keyword)))
}
