package store

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"sejmlex/internal/logging"
)

// ResultSetStoreConfig bounds the result set store.
type ResultSetStoreConfig struct {
	MaxSets int
	TTL     time.Duration
}

// DefaultResultSetStoreConfig returns the production limits.
func DefaultResultSetStoreConfig() ResultSetStoreConfig {
	return ResultSetStoreConfig{MaxSets: 20, TTL: time.Hour}
}

// ResultSet is a remembered list of act records from a prior search, browse
// or filter, addressable by id in later tool calls.
type ResultSet struct {
	ID          string
	Description string
	Results     []map[string]any
	CreatedAt   time.Time

	lastAccessed time.Time
}

// ResultSetSummary describes one stored set for listings.
type ResultSetSummary struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter describes one pass over a stored result set. Stages apply in a
// fixed order: exact matches, pattern, date range, sort, limit.
type Filter struct {
	Type   string
	Status string
	Year   int

	Pattern string
	Field   string

	DateFrom  string
	DateTo    string
	DateField string

	SortBy    string
	SortOrder string

	Limit int
}

// ResultSetStore keeps recent result lists so follow-up calls can narrow
// them without re-querying the registry. Sets expire when unread for the
// TTL; storing past capacity drops the least recently accessed set.
type ResultSetStore struct {
	mu     sync.Mutex
	sets   map[string]*ResultSet
	order  []string
	nextID int
	config ResultSetStoreConfig
	logger logging.Logger

	now func() time.Time
}

// NewResultSetStore creates an empty store. Non-positive config fields fall
// back to the defaults.
func NewResultSetStore(config ResultSetStoreConfig, logger logging.Logger) *ResultSetStore {
	defaults := DefaultResultSetStoreConfig()
	if config.MaxSets <= 0 {
		config.MaxSets = defaults.MaxSets
	}
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	return &ResultSetStore{
		sets:   make(map[string]*ResultSet),
		nextID: 1,
		config: config,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// Store remembers a result list and returns its id. Ids are monotonic
// (rs_1, rs_2, ...) and never reused within a session.
func (s *ResultSetStore) Store(results []map[string]any, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	for len(s.order) >= s.config.MaxSets {
		s.dropOldestLocked()
	}

	id := fmt.Sprintf("rs_%d", s.nextID)
	s.nextID++
	now := s.now()
	s.sets[id] = &ResultSet{
		ID:           id,
		Description:  description,
		Results:      results,
		CreatedAt:    now,
		lastAccessed: now,
	}
	s.order = append(s.order, id)
	s.logger.Debug("stored %s (%d results): %s", id, len(results), description)
	return id
}

// Get returns a live result set and refreshes its access time.
func (s *ResultSetStore) Get(id string) (*ResultSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	set, ok := s.sets[id]
	if !ok {
		return nil, &ResultSetNotFoundError{ID: id}
	}
	set.lastAccessed = s.now()
	return set, nil
}

// List returns summaries of all live sets, oldest first.
func (s *ResultSetStore) List() []ResultSetSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	summaries := make([]ResultSetSummary, 0, len(s.order))
	for _, id := range s.order {
		set := s.sets[id]
		summaries = append(summaries, ResultSetSummary{
			ID:          set.ID,
			Description: set.Description,
			Count:       len(set.Results),
			CreatedAt:   set.CreatedAt,
		})
	}
	return summaries
}

func (s *ResultSetStore) sweepLocked() {
	now := s.now()
	live := s.order[:0]
	for _, id := range s.order {
		set := s.sets[id]
		if set == nil {
			continue
		}
		if now.Sub(set.lastAccessed) > s.config.TTL {
			delete(s.sets, id)
			continue
		}
		live = append(live, id)
	}
	s.order = live
}

func (s *ResultSetStore) dropOldestLocked() {
	if len(s.order) == 0 {
		return
	}
	oldest := -1
	for i, id := range s.order {
		if oldest < 0 || s.sets[id].lastAccessed.Before(s.sets[s.order[oldest]].lastAccessed) {
			oldest = i
		}
	}
	id := s.order[oldest]
	s.order = append(s.order[:oldest], s.order[oldest+1:]...)
	delete(s.sets, id)
	s.logger.Debug("dropped least recently used result set: %s", id)
}

// Apply runs the filter pipeline over a result list and returns the
// filtered copy. The input list is never mutated.
func (f Filter) Apply(results []map[string]any) ([]map[string]any, error) {
	out := make([]map[string]any, len(results))
	copy(out, results)

	out = filterExact(out, f.Type, f.Status, f.Year)

	if f.Pattern != "" {
		matched, err := filterPattern(out, f.Pattern, f.Field)
		if err != nil {
			return nil, err
		}
		out = matched
	}

	if dateFields[f.DateField] && (f.DateFrom != "" || f.DateTo != "") {
		out = filterDateRange(out, f.DateField, f.DateFrom, f.DateTo)
	}

	if f.SortBy != "" {
		sortResults(out, f.SortBy, f.SortOrder)
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func filterExact(results []map[string]any, actType, status string, year int) []map[string]any {
	out := results[:0]
	for _, r := range results {
		if actType != "" && stringField(r, "type") != actType {
			continue
		}
		if status != "" && stringField(r, "status") != status {
			continue
		}
		if year != 0 && intField(r, "year") != year {
			continue
		}
		out = append(out, r)
	}
	return out
}

// patternFields are the fields a pattern filter may target. Anything else
// falls back to the title.
var patternFields = map[string]bool{
	"title":     true,
	"eli":       true,
	"status":    true,
	"type":      true,
	"publisher": true,
}

func filterPattern(results []map[string]any, pattern, field string) ([]map[string]any, error) {
	if !patternFields[field] {
		field = "title"
	}
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return nil, &InvalidFilterError{Reason: fmt.Sprintf("bad pattern %q: %v", pattern, err)}
	}

	out := results[:0]
	for _, r := range results {
		if re.MatchString(stringField(r, field)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// dateFields are the fields a date range may target. The date stage only
// runs when one of them is named; an absent or unknown field is a no-op.
var dateFields = map[string]bool{
	"promulgation_date": true,
	"effective_date":    true,
}

func filterDateRange(results []map[string]any, field, from, to string) []map[string]any {
	out := results[:0]
	for _, r := range results {
		// ISO dates compare correctly as strings. Records without the
		// field drop out of a date-constrained filter.
		value := stringField(r, field)
		if value == "" {
			continue
		}
		if from != "" && value < from {
			continue
		}
		if to != "" && value > to {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sortFields are the recognised sort keys. Numeric ones sort as numbers,
// the rest lexicographically. An unrecognised key leaves the order alone.
var sortFields = map[string]bool{
	"title":             true,
	"eli":               true,
	"status":            true,
	"type":              true,
	"publisher":         true,
	"promulgation_date": true,
	"effective_date":    true,
	"year":              true,
	"pos":               true,
}

func sortResults(results []map[string]any, field, order string) {
	if !sortFields[field] {
		return
	}
	descending := strings.EqualFold(order, "desc")

	numeric := field == "year" || field == "pos"
	sort.SliceStable(results, func(i, j int) bool {
		if numeric {
			a, b := intField(results[i], field), intField(results[j], field)
			if descending {
				return a > b
			}
			return a < b
		}
		a, b := stringField(results[i], field), stringField(results[j], field)
		if descending {
			return a > b
		}
		return a < b
	})
}

func stringField(r map[string]any, field string) string {
	switch v := r[field].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func intField(r map[string]any, field string) int {
	switch v := r[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
