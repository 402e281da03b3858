package service

import (
	"context"
	"fmt"
	"time"

	"sejmlex/internal/logging"
	"sejmlex/internal/sejm"
)

// ChangesService reports acts published in a date window. The registry's
// dedicated change feed sits behind an aggressive WAF, so the window is
// resolved through the ordinary search endpoint with a publication date
// range instead.
type ChangesService struct {
	client *sejm.Client
	ttl    time.Duration
	logger logging.Logger

	today func() string
}

// NewChangesService builds the service; ttl is deliberately short since the
// feed is time-sensitive.
func NewChangesService(client *sejm.Client, ttl time.Duration, logger logging.Logger) *ChangesService {
	return &ChangesService{
		client: client,
		ttl:    ttl,
		logger: logging.OrNop(logger),
		today:  func() string { return time.Now().Format("2006-01-02") },
	}
}

// Recent lists acts published between from and to (inclusive, ISO dates).
// An empty to defaults to today. An empty from is invalid.
func (s *ChangesService) Recent(ctx context.Context, from, to, publisher string, keywords []string, limit int) (*SearchResult, error) {
	if from == "" {
		return nil, &InvalidArgumentError{Field: "date_from", Reason: "required"}
	}
	if to == "" {
		to = s.today()
	}

	req := SearchRequest{
		PubDateFrom: from,
		PubDateTo:   to,
		Publisher:   publisher,
		Keywords:    keywords,
		Limit:       limit,
		Detail:      DetailStandard,
	}
	params, _ := buildSearchParams(req)

	response, err := s.client.SearchActs(ctx, params, s.ttl)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{
		Acts:       FormatActs(itemsOf(response), DetailStandard),
		TotalCount: totalCountOf(response),
		Query:      fmt.Sprintf("changes: %s..%s", from, to),
	}
	s.logger.Info("changes %s..%s matched %d acts", from, to, result.TotalCount)
	return result, nil
}
