package service

import (
	"errors"

	"github.com/helixml/newsdesk/domain/news"
)

var (
	// ErrIndustryNotFound indicates a named industry does not exist.
	ErrIndustryNotFound = errors.New("industry not found")
	// ErrNothingToFetch indicates a fetch request resolved to no search terms.
	ErrNothingToFetch = errors.New("no industry or keywords to fetch")
	// ErrInvalidTimeRange indicates an unrecognized time range value.
	ErrInvalidTimeRange = news.ErrInvalidTimeRange
)
