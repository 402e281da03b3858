package service

import (
	"context"
	"time"

	"sejmlex/internal/logging"
	"sejmlex/internal/sejm"
)

// metadataEndpoints maps a dictionary category to its registry endpoint.
// The publisher list lives under the bare acts endpoint.
var metadataEndpoints = map[string]string{
	"keywords":     "keywords",
	"publishers":   "acts",
	"statuses":     "statuses",
	"types":        "types",
	"institutions": "institutions",
}

// MetadataCategories lists the accepted categories, "all" included.
func MetadataCategories() []string {
	return []string{"keywords", "publishers", "statuses", "types", "institutions", "all"}
}

// MetadataService serves the registry dictionaries used to build precise
// search queries.
type MetadataService struct {
	client *sejm.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewMetadataService builds the service; ttl is how long dictionary
// responses stay cached.
func NewMetadataService(client *sejm.Client, ttl time.Duration, logger logging.Logger) *MetadataService {
	return &MetadataService{client: client, ttl: ttl, logger: logging.OrNop(logger)}
}

// Get returns one dictionary, or all of them under their category names.
// In the fan-out case a failing category degrades to an empty list instead
// of failing the whole call.
func (s *MetadataService) Get(ctx context.Context, category string) (map[string]any, error) {
	if category == "all" {
		out := make(map[string]any, len(metadataEndpoints))
		for cat := range metadataEndpoints {
			values, err := s.fetch(ctx, cat)
			if err != nil {
				s.logger.Warn("metadata category %s failed: %v", cat, err)
				values = []any{}
			}
			out[cat] = values
		}
		return out, nil
	}

	if _, ok := metadataEndpoints[category]; !ok {
		return nil, &InvalidArgumentError{Field: "category", Reason: category}
	}
	values, err := s.fetch(ctx, category)
	if err != nil {
		return nil, err
	}
	return map[string]any{category: values}, nil
}

func (s *MetadataService) fetch(ctx context.Context, category string) (any, error) {
	decoded, err := s.client.GetMetadata(ctx, metadataEndpoints[category], s.ttl)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
