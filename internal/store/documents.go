// Package store holds the session-scoped state of the gateway: loaded act
// texts and remembered result sets.
package store

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"sejmlex/internal/content"
	"sejmlex/internal/logging"
)

// DocumentStoreConfig bounds the document store.
type DocumentStoreConfig struct {
	MaxDocuments int
	MaxSizeBytes int
	TTL          time.Duration
}

// DefaultDocumentStoreConfig returns the production limits.
func DefaultDocumentStoreConfig() DocumentStoreConfig {
	return DocumentStoreConfig{
		MaxDocuments: 10,
		MaxSizeBytes: 5 << 20,
		TTL:          2 * time.Hour,
	}
}

// LoadedDocument is one act text held in memory: the markdown rendition and
// its section index.
type LoadedDocument struct {
	ELI      string
	Title    string
	Source   string
	Markdown string
	Sections []content.Section
	LoadedAt time.Time

	lastAccessed time.Time
}

// SizeBytes returns the markdown size.
func (d *LoadedDocument) SizeBytes() int { return len(d.Markdown) }

// DocumentSummary describes one loaded document for listings.
type DocumentSummary struct {
	ELI          string    `json:"eli"`
	Title        string    `json:"title"`
	Source       string    `json:"source"`
	SizeBytes    int       `json:"size_bytes"`
	SectionCount int       `json:"section_count"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// SearchMatch is one occurrence of a searched phrase inside a loaded
// document, with the byte span of the match and the enclosing section.
type SearchMatch struct {
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
	MatchStart   int    `json:"match_start"`
	MatchEnd     int    `json:"match_end"`
	Context      string `json:"context"`
}

// DocumentStore keeps a bounded set of loaded act texts. Documents expire
// when unread for the configured TTL; loading past capacity evicts the least
// recently accessed document.
type DocumentStore struct {
	mu     sync.Mutex
	docs   map[string]*LoadedDocument
	config DocumentStoreConfig
	logger logging.Logger

	now func() time.Time
}

// NewDocumentStore creates an empty store. Non-positive config fields fall
// back to the defaults.
func NewDocumentStore(config DocumentStoreConfig, logger logging.Logger) *DocumentStore {
	defaults := DefaultDocumentStoreConfig()
	if config.MaxDocuments <= 0 {
		config.MaxDocuments = defaults.MaxDocuments
	}
	if config.MaxSizeBytes <= 0 {
		config.MaxSizeBytes = defaults.MaxSizeBytes
	}
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	return &DocumentStore{
		docs:   make(map[string]*LoadedDocument),
		config: config,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// Load installs a document under its ELI. Oversized markdown is truncated to
// the size limit and sections that start past the truncation point are
// dropped; surviving section spans are clamped. Loading an ELI already
// present replaces it in place.
func (s *DocumentStore) Load(eli, title, source, markdown string, sections []content.Section) *LoadedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if len(markdown) > s.config.MaxSizeBytes {
		s.logger.Warn("truncating %s from %d to %d bytes", eli, len(markdown), s.config.MaxSizeBytes)
		markdown = markdown[:s.config.MaxSizeBytes]
	}
	kept := make([]content.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.StartPos >= len(markdown) {
			continue
		}
		if sec.EndPos > len(markdown) {
			sec.EndPos = len(markdown)
		}
		kept = append(kept, sec)
	}

	if _, exists := s.docs[eli]; !exists && len(s.docs) >= s.config.MaxDocuments {
		s.evictOldestLocked()
	}

	doc := &LoadedDocument{
		ELI:          eli,
		Title:        title,
		Source:       source,
		Markdown:     markdown,
		Sections:     kept,
		LoadedAt:     now,
		lastAccessed: now,
	}
	s.docs[eli] = doc
	s.logger.Info("loaded %s (%d bytes, %d sections)", eli, len(markdown), len(kept))
	return doc
}

func (s *DocumentStore) sweepLocked(now time.Time) {
	for eli, doc := range s.docs {
		if now.Sub(doc.lastAccessed) > s.config.TTL {
			delete(s.docs, eli)
			s.logger.Debug("document expired: %s", eli)
		}
	}
}

func (s *DocumentStore) evictOldestLocked() {
	var oldest string
	var oldestAt time.Time
	for eli, doc := range s.docs {
		if oldest == "" || doc.lastAccessed.Before(oldestAt) {
			oldest = eli
			oldestAt = doc.lastAccessed
		}
	}
	if oldest != "" {
		delete(s.docs, oldest)
		s.logger.Debug("evicted least recently used document: %s", oldest)
	}
}

// getLocked returns a live document and refreshes its access time.
func (s *DocumentStore) getLocked(eli string) (*LoadedDocument, error) {
	doc, ok := s.docs[eli]
	if !ok {
		return nil, &DocumentNotLoadedError{ELI: eli}
	}
	now := s.now()
	if now.Sub(doc.lastAccessed) > s.config.TTL {
		delete(s.docs, eli)
		return nil, &DocumentNotLoadedError{ELI: eli}
	}
	doc.lastAccessed = now
	return doc, nil
}

// IsLoaded reports whether the act text is present and not expired. It does
// not refresh the access time.
func (s *DocumentStore) IsLoaded(eli string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[eli]
	if !ok {
		return false
	}
	return s.now().Sub(doc.lastAccessed) <= s.config.TTL
}

// TOC returns the section index of a loaded document.
func (s *DocumentStore) TOC(eli string) ([]content.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.getLocked(eli)
	if err != nil {
		return nil, err
	}
	return doc.Sections, nil
}

var artQuery = regexp.MustCompile(`(?i)^art[._\s]*(\d+[a-z]?)`)
var artTitle = regexp.MustCompile(`(?i)^art\.?\s*(\d+[a-z]?)`)

// GetSection resolves a section reference and returns the section with its
// text. Resolution tries, in order: exact id match (case-insensitive, spaces
// treated as underscores), title prefix match, and article number match so
// that "Art. 5", "art. 5" and "art_5" all address the same section.
func (s *DocumentStore) GetSection(eli, ref string) (*content.Section, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.getLocked(eli)
	if err != nil {
		return nil, "", err
	}

	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(ref), " ", "_"))
	for i := range doc.Sections {
		if strings.ToLower(doc.Sections[i].ID) == normalized {
			return &doc.Sections[i], doc.sectionText(&doc.Sections[i]), nil
		}
	}

	lowerRef := strings.ToLower(strings.TrimSpace(ref))
	for i := range doc.Sections {
		if strings.HasPrefix(strings.ToLower(doc.Sections[i].Title), lowerRef) {
			return &doc.Sections[i], doc.sectionText(&doc.Sections[i]), nil
		}
	}

	if m := artQuery.FindStringSubmatch(strings.TrimSpace(ref)); m != nil {
		want := strings.ToLower(m[1])
		for i := range doc.Sections {
			if tm := artTitle.FindStringSubmatch(doc.Sections[i].Title); tm != nil && strings.ToLower(tm[1]) == want {
				return &doc.Sections[i], doc.sectionText(&doc.Sections[i]), nil
			}
		}
	}

	return nil, "", &SectionNotFoundError{ELI: eli, Ref: ref}
}

func (d *LoadedDocument) sectionText(sec *content.Section) string {
	start, end := sec.StartPos, sec.EndPos
	if start < 0 {
		start = 0
	}
	if end > len(d.Markdown) {
		end = len(d.Markdown)
	}
	if start >= end {
		return ""
	}
	return strings.TrimSpace(d.Markdown[start:end])
}

// Search finds literal occurrences of query in the document text, case
// insensitively, and returns each with its byte span, surrounding context
// and the enclosing section ("unknown" when the match precedes the first
// section).
func (s *DocumentStore) Search(eli, query string, contextChars int) ([]SearchMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.getLocked(eli)
	if err != nil {
		return nil, err
	}
	if contextChars < 0 {
		contextChars = 0
	}

	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(query))
	if err != nil {
		return nil, &InvalidFilterError{Reason: err.Error()}
	}

	var matches []SearchMatch
	for _, loc := range pattern.FindAllStringIndex(doc.Markdown, -1) {
		start := loc[0] - contextChars
		if start < 0 {
			start = 0
		}
		end := loc[1] + contextChars
		if end > len(doc.Markdown) {
			end = len(doc.Markdown)
		}
		match := SearchMatch{
			SectionID:    "unknown",
			SectionTitle: "unknown",
			MatchStart:   loc[0],
			MatchEnd:     loc[1],
			Context:      doc.Markdown[start:end],
		}
		if sec := doc.enclosingSection(loc[0]); sec != nil {
			match.SectionID = sec.ID
			match.SectionTitle = sec.Title
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (d *LoadedDocument) enclosingSection(pos int) *content.Section {
	var enclosing *content.Section
	for i := range d.Sections {
		if d.Sections[i].StartPos <= pos && pos < d.Sections[i].EndPos {
			enclosing = &d.Sections[i]
		}
	}
	return enclosing
}

// List returns summaries of all live documents, most recently loaded first.
func (s *DocumentStore) List() []DocumentSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(s.now())

	summaries := make([]DocumentSummary, 0, len(s.docs))
	for _, doc := range s.docs {
		summaries = append(summaries, DocumentSummary{
			ELI:          doc.ELI,
			Title:        doc.Title,
			Source:       doc.Source,
			SizeBytes:    doc.SizeBytes(),
			SectionCount: len(doc.Sections),
			LoadedAt:     doc.LoadedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LoadedAt.After(summaries[j].LoadedAt)
	})
	return summaries
}

// Evict removes a document if present.
func (s *DocumentStore) Evict(eli string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, eli)
}

// Len returns the live document count.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
