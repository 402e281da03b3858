package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sejmlex/internal/logging"
	"sejmlex/internal/sejm"
)

// SearchRequest describes one act search. Keyword terms combine with AND
// semantics upstream. The DateFrom/DateTo pair constrains the entry into
// force; PubDateFrom/PubDateTo constrain the publication date.
type SearchRequest struct {
	Keywords    []string
	Title       string
	Type        string
	Publisher   string
	Year        int
	DateFrom    string
	DateTo      string
	PubDateFrom string
	PubDateTo   string
	InForce     bool
	Limit       int
	Offset      int
	Detail      string
}

// SearchResult is a normalised act list with its provenance.
type SearchResult struct {
	Acts       []map[string]any
	TotalCount int
	Query      string
}

// SearchService runs registry searches, year browsing and change tracking.
type SearchService struct {
	client    *sejm.Client
	searchTTL time.Duration
	browseTTL time.Duration
	logger    logging.Logger
}

// NewSearchService builds the service with per-operation cache TTLs.
func NewSearchService(client *sejm.Client, searchTTL, browseTTL time.Duration, logger logging.Logger) *SearchService {
	return &SearchService{
		client:    client,
		searchTTL: searchTTL,
		browseTTL: browseTTL,
		logger:    logging.OrNop(logger),
	}
}

// Search runs the registry search endpoint and normalises the results.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	params, summary := buildSearchParams(req)
	response, err := s.client.SearchActs(ctx, params, s.searchTTL)
	if err != nil {
		return nil, err
	}

	detail := normalizeDetail(req.Detail)
	acts := FormatActs(itemsOf(response), detail)
	result := &SearchResult{
		Acts:       acts,
		TotalCount: totalCountOf(response),
		Query:      summary,
	}
	s.logger.Info("search %q matched %d acts", summary, result.TotalCount)
	return result, nil
}

// buildSearchParams maps a request onto the registry query parameters and
// builds a human-readable query summary for result set descriptions.
func buildSearchParams(req SearchRequest) (map[string]string, string) {
	params := map[string]string{}
	var parts []string

	if len(req.Keywords) > 0 {
		params["keyword"] = strings.Join(req.Keywords, ",")
		parts = append(parts, "keywords="+strings.Join(req.Keywords, "+"))
	}
	if req.Title != "" {
		params["title"] = req.Title
		parts = append(parts, fmt.Sprintf("title=%q", req.Title))
	}
	if req.Type != "" {
		params["type"] = req.Type
		parts = append(parts, "type="+req.Type)
	}
	if req.Publisher != "" {
		params["publisher"] = req.Publisher
		parts = append(parts, "publisher="+req.Publisher)
	}
	if req.Year != 0 {
		params["year"] = strconv.Itoa(req.Year)
		parts = append(parts, "year="+strconv.Itoa(req.Year))
	}
	if req.DateFrom != "" {
		params["dateEffectFrom"] = req.DateFrom
		parts = append(parts, "effective>="+req.DateFrom)
	}
	if req.DateTo != "" {
		params["dateEffectTo"] = req.DateTo
		parts = append(parts, "effective<="+req.DateTo)
	}
	if req.PubDateFrom != "" {
		params["dateFrom"] = req.PubDateFrom
		parts = append(parts, "published>="+req.PubDateFrom)
	}
	if req.PubDateTo != "" {
		params["dateTo"] = req.PubDateTo
		parts = append(parts, "published<="+req.PubDateTo)
	}
	if req.InForce {
		params["inForce"] = "1"
		parts = append(parts, "in_force")
	}
	if req.Limit > 0 {
		params["limit"] = strconv.Itoa(req.Limit)
	}
	if req.Offset > 0 {
		params["offset"] = strconv.Itoa(req.Offset)
	}

	summary := "search: " + strings.Join(parts, ", ")
	if len(parts) == 0 {
		summary = "search: (no criteria)"
	}
	return params, summary
}

// Browse lists the acts of one publisher and year.
func (s *SearchService) Browse(ctx context.Context, publisher string, year int, detail string) (*SearchResult, error) {
	response, err := s.client.BrowseActs(ctx, publisher, year, s.browseTTL)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Acts:       FormatActs(itemsOf(response), normalizeDetail(detail)),
		TotalCount: totalCountOf(response),
		Query:      fmt.Sprintf("browse: %s %d", publisher, year),
	}, nil
}
