package jsonapi

import (
	"strconv"

	"github.com/helixml/newsdesk/domain/news"
)

// Resource types.
const (
	TypeArticle  = "article"
	TypeIndustry = "industry"
	TypeKeyword  = "keyword"
)

// IndustryAttributes are the attributes of an industry resource.
type IndustryAttributes struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	CreatedAt   DateTime `json:"created_at"`
	UpdatedAt   DateTime `json:"updated_at"`
}

// KeywordAttributes are the attributes of a keyword resource.
type KeywordAttributes struct {
	Text       string   `json:"text"`
	IndustryID *int64   `json:"industry_id"`
	CreatedAt  DateTime `json:"created_at"`
	UpdatedAt  DateTime `json:"updated_at"`
}

// ArticleAttributes are the attributes of an article resource.
type ArticleAttributes struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	PublishedAt DateTime `json:"published_at"`
	CreatedAt   DateTime `json:"created_at"`
}

// ID renders a numeric ID.
func ID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// IndustryResource serializes an industry.
func IndustryResource(i news.Industry) *Resource {
	attrs := IndustryAttributes{
		Name:      i.Name(),
		CreatedAt: DateTime(i.CreatedAt()),
		UpdatedAt: DateTime(i.UpdatedAt()),
	}
	if d := i.Description(); d != "" {
		attrs.Description = &d
	}
	return NewResource(TypeIndustry, ID(i.ID()), attrs)
}

// IndustryResources serializes a list of industries.
func IndustryResources(industries []news.Industry) []*Resource {
	out := make([]*Resource, len(industries))
	for i, industry := range industries {
		out[i] = IndustryResource(industry)
	}
	return out
}

// KeywordResource serializes a keyword.
func KeywordResource(k news.Keyword) *Resource {
	attrs := KeywordAttributes{
		Text:      k.Text(),
		CreatedAt: DateTime(k.CreatedAt()),
		UpdatedAt: DateTime(k.UpdatedAt()),
	}
	var rel *Relationship
	if k.HasIndustry() {
		id := k.IndustryID()
		attrs.IndustryID = &id
		rel = &Relationship{Data: ResourceIdentifier{Type: TypeIndustry, ID: ID(id)}}
	} else {
		rel = &Relationship{}
	}
	r := NewResource(TypeKeyword, ID(k.ID()), attrs)
	r.Relationships = Relationships{"industry": rel}
	return r
}

// KeywordResources serializes a list of keywords.
func KeywordResources(keywords []news.Keyword) []*Resource {
	out := make([]*Resource, len(keywords))
	for i, k := range keywords {
		out[i] = KeywordResource(k)
	}
	return out
}

// ArticleResource serializes an article without relationships.
func ArticleResource(a news.Article) *Resource {
	attrs := ArticleAttributes{
		Title:       a.Title(),
		URL:         a.URL(),
		Source:      a.Source(),
		PublishedAt: DateTime(a.PublishedAt()),
		CreatedAt:   DateTime(a.CreatedAt()),
	}
	if d := a.Description(); d != "" {
		attrs.Description = &d
	}
	return NewResource(TypeArticle, ID(a.ID()), attrs)
}

// ArticleResources serializes a list of articles.
func ArticleResources(articles []news.Article) []*Resource {
	out := make([]*Resource, len(articles))
	for i, a := range articles {
		out[i] = ArticleResource(a)
	}
	return out
}

// ArticleWithLinks serializes an article with its industry and keyword
// relationships, and the linked entities as included resources.
func ArticleWithLinks(a news.Article, links news.Links) *Document {
	r := ArticleResource(a)

	industries := make([]ResourceIdentifier, len(links.Industries))
	included := make([]any, 0, len(links.Industries)+len(links.Keywords))
	for i, industry := range links.Industries {
		industries[i] = ResourceIdentifier{Type: TypeIndustry, ID: ID(industry.ID())}
		included = append(included, IndustryResource(industry))
	}
	keywords := make([]ResourceIdentifier, len(links.Keywords))
	for i, k := range links.Keywords {
		keywords[i] = ResourceIdentifier{Type: TypeKeyword, ID: ID(k.ID())}
		included = append(included, KeywordResource(k))
	}
	r.Relationships = Relationships{
		"industries": {Data: industries},
		"keywords":   {Data: keywords},
	}

	doc := NewSingleResponse(r)
	doc.Included = included
	return doc
}
