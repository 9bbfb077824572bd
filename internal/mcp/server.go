// Package mcp exposes the article filter over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/helixml/newsdesk/application/service"
	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/domain/repository"
	"github.com/helixml/newsdesk/internal/config"
	"github.com/helixml/newsdesk/internal/database"
)

// EntityLister lists the stored taxonomy.
type EntityLister interface {
	Industries(ctx context.Context) ([]news.Industry, error)
	Keywords(ctx context.Context, industryName string) ([]news.Keyword, error)
}

// ArticleFilter composes and runs article queries.
type ArticleFilter interface {
	BuildPredicate(industry string, keywords []string, timeRange string) (news.Predicate, error)
	Query(ctx context.Context, predicate news.Predicate, options ...repository.Option) (service.FilterResult, error)
	Article(ctx context.Context, id int64) (news.Article, news.Links, error)
}

// Server wraps the MCP server with newsdesk tools.
type Server struct {
	mcpServer *server.MCPServer
	entities  EntityLister
	filter    ArticleFilter
	pageSize  int
	version   string
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(entities EntityLister, filter ArticleFilter, pageSize int, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}

	s := &Server{
		entities: entities,
		filter:   filter,
		pageSize: pageSize,
		version:  version,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		"newsdesk",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("get_version",
		mcp.WithDescription("Get the newsdesk server version"),
	), s.handleVersion)

	mcpServer.AddTool(mcp.NewTool("list_industries",
		mcp.WithDescription("List the tracked industries"),
	), s.handleListIndustries)

	mcpServer.AddTool(mcp.NewTool("list_keywords",
		mcp.WithDescription("List the tracked keywords, optionally for one industry"),
		mcp.WithString("industry",
			mcp.Description("Industry name (case-insensitive)"),
		),
	), s.handleListKeywords)

	mcpServer.AddTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Filter stored news articles by industry, keywords and recency"),
		mcp.WithString("industry",
			mcp.Description("Industry name; matches linked articles and articles mentioning the industry or its keywords"),
		),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated keywords; an article matching any of them qualifies"),
		),
		mcp.WithString("time_range",
			mcp.Description("One of all, today, week, month (default: all)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number starting at 1 (default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description(fmt.Sprintf("Articles per page (default: %d, max: %d)", config.DefaultPageSize, config.MaxPageSize)),
		),
	), s.handleSearchArticles)

	mcpServer.AddTool(mcp.NewTool("get_article",
		mcp.WithDescription("Get an article with its linked industries and keywords"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The numeric article ID"),
		),
	), s.handleGetArticle)
}

type industryResult struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type keywordResult struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	IndustryID int64  `json:"industry_id,omitempty"`
}

type articleResult struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Source      string          `json:"source"`
	PublishedAt *time.Time      `json:"published_at"`
	Industries  []string        `json:"industries,omitempty"`
	Keywords    []keywordResult `json:"keywords,omitempty"`
}

func (s *Server) handleVersion(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.version), nil
}

func (s *Server) handleListIndustries(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	industries, err := s.entities.Industries(ctx)
	if err != nil {
		s.logger.Error("list industries failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("list industries failed: %v", err)), nil
	}

	results := make([]industryResult, len(industries))
	for i, ind := range industries {
		results[i] = industryResult{ID: ind.ID(), Name: ind.Name(), Description: ind.Description()}
	}
	return jsonResult(results)
}

func (s *Server) handleListKeywords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	industry := request.GetString("industry", "")
	keywords, err := s.entities.Keywords(ctx, industry)
	if errors.Is(err, service.ErrIndustryNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("industry not found: %s", industry)), nil
	}
	if err != nil {
		s.logger.Error("list keywords failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("list keywords failed: %v", err)), nil
	}
	return jsonResult(keywordResults(keywords))
}

func (s *Server) handleSearchArticles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	predicate, err := s.filter.BuildPredicate(
		request.GetString("industry", ""),
		config.ParseList(request.GetString("keywords", "")),
		request.GetString("time_range", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page := max(request.GetInt("page", 1), 1)
	pageSize := request.GetInt("page_size", s.pageSize)
	if pageSize <= 0 || pageSize > config.MaxPageSize {
		pageSize = s.pageSize
	}

	result, err := s.filter.Query(ctx, predicate, repository.WithPagination(pageSize, (page-1)*pageSize)...)
	if err != nil {
		s.logger.Error("search articles failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("search articles failed: %v", err)), nil
	}

	type searchResult struct {
		Total    int64           `json:"total"`
		Page     int             `json:"page"`
		PageSize int             `json:"page_size"`
		Articles []articleResult `json:"articles"`
	}

	out := searchResult{
		Total:    result.Total,
		Page:     page,
		PageSize: pageSize,
		Articles: make([]articleResult, len(result.Articles)),
	}
	for i, a := range result.Articles {
		out.Articles[i] = toArticleResult(a, news.Links{})
	}
	return jsonResult(out)
}

func (s *Server) handleGetArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id: %s", idStr)), nil
	}

	article, links, err := s.filter.Article(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("article not found: %d", id)), nil
	}
	if err != nil {
		s.logger.Error("failed to get article", slog.Int64("id", id), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to get article: %v", err)), nil
	}
	return jsonResult(toArticleResult(article, links))
}

func toArticleResult(a news.Article, links news.Links) articleResult {
	r := articleResult{
		ID:          a.ID(),
		Title:       a.Title(),
		Description: a.Description(),
		URL:         a.URL(),
		Source:      a.Source(),
		Keywords:    keywordResults(links.Keywords),
	}
	if a.HasPublishedAt() {
		published := a.PublishedAt()
		r.PublishedAt = &published
	}
	for _, ind := range links.Industries {
		r.Industries = append(r.Industries, ind.Name())
	}
	return r
}

func keywordResults(keywords []news.Keyword) []keywordResult {
	if len(keywords) == 0 {
		return nil
	}
	results := make([]keywordResult, len(keywords))
	for i, kw := range keywords {
		results[i] = keywordResult{ID: kw.ID(), Text: kw.Text(), IndustryID: kw.IndustryID()}
	}
	return results
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
