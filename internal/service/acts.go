package service

import (
	"context"
	"fmt"
	"time"

	"sejmlex/internal/content"
	"sejmlex/internal/logging"
	"sejmlex/internal/sejm"
	"sejmlex/internal/store"
)

// ActService serves single-act operations: the detail view, text loading
// into the document store, and the reference graph.
type ActService struct {
	client     *sejm.Client
	docs       *store.DocumentStore
	detailsTTL time.Duration
	logger     logging.Logger
}

// NewActService builds the service around the shared document store.
func NewActService(client *sejm.Client, docs *store.DocumentStore, detailsTTL time.Duration, logger logging.Logger) *ActService {
	return &ActService{
		client:     client,
		docs:       docs,
		detailsTTL: detailsTTL,
		logger:     logging.OrNop(logger),
	}
}

// ActDetails is the detail view of one act.
type ActDetails struct {
	ELI           string
	Act           map[string]any
	TOC           any
	HasHTML       bool
	HasPDF        bool
	IsLoaded      bool
	ContentSource string
}

// Details fetches the act record and, when requested, loads its text into
// the document store. The structural table of contents is best effort; a
// failed text load degrades to IsLoaded=false rather than failing the call.
func (s *ActService) Details(ctx context.Context, publisher string, year, position int, loadContent bool) (*ActDetails, error) {
	raw, err := s.client.GetAct(ctx, publisher, year, position, s.detailsTTL)
	if err != nil {
		return nil, err
	}

	eli := fmt.Sprintf("%s/%d/%d", publisher, year, position)
	details := &ActDetails{
		ELI:     eli,
		Act:     FormatAct(raw, DetailFull),
		HasHTML: hasText(raw, "textHTML"),
		HasPDF:  hasText(raw, "textPDF"),
	}

	if toc, err := s.client.GetActStructure(ctx, publisher, year, position, s.detailsTTL); err == nil {
		details.TOC = toc
	} else {
		s.logger.Debug("structure unavailable for %s: %v", eli, err)
	}

	details.IsLoaded = s.docs.IsLoaded(eli)
	if loadContent && !details.IsLoaded {
		title, _ := details.Act["title"].(string)
		source, err := s.LoadContent(ctx, publisher, year, position, title, details.HasHTML, details.HasPDF)
		if err != nil {
			s.logger.Warn("loading text of %s failed: %v", eli, err)
		} else {
			details.IsLoaded = true
			details.ContentSource = source
		}
	}
	return details, nil
}

// hasText reports whether a registry act record advertises the given text
// rendition. The field arrives as a bool or as a non-empty filename.
func hasText(raw map[string]any, field string) bool {
	switch v := raw[field].(type) {
	case bool:
		return v
	case string:
		return v != ""
	default:
		return false
	}
}

// LoadContent fetches the act text and installs it in the document store.
// HTML is preferred; a PDF whose extraction yields nothing degrades to a
// pointer at the source file. Returns the source used: "html", "pdf" or
// "pdf_link".
func (s *ActService) LoadContent(ctx context.Context, publisher string, year, position int, title string, hasHTML, hasPDF bool) (string, error) {
	eli := fmt.Sprintf("%s/%d/%d", publisher, year, position)

	if !hasHTML && !hasPDF {
		return "", &ContentNotAvailableError{ELI: eli}
	}

	if hasHTML {
		html, err := s.client.GetActHTML(ctx, publisher, year, position)
		if err == nil {
			if markdown, err := content.HTMLToMarkdown(html); err == nil && markdown != "" {
				s.docs.Load(eli, title, "html", markdown, content.IndexSections(markdown))
				return "html", nil
			}
		} else {
			s.logger.Warn("HTML text of %s unavailable: %v", eli, err)
		}
		if !hasPDF {
			return "", &ContentNotAvailableError{ELI: eli}
		}
	}

	data, err := s.client.GetActPDF(ctx, publisher, year, position)
	if err != nil {
		return "", err
	}
	if text := content.PDFToText(data); text != "" {
		s.docs.Load(eli, title, "pdf", text, content.IndexSections(text))
		return "pdf", nil
	}

	// Scanned or otherwise unextractable PDF: keep a pointer so section
	// listing and search degrade gracefully instead of erroring.
	note := fmt.Sprintf("Treść aktu dostępna w pliku PDF: %s", s.client.ActPDFURL(publisher, year, position))
	s.docs.Load(eli, title, "pdf_link", note, nil)
	return "pdf_link", nil
}

// Relationships fetches the reference graph of an act: which acts it
// amends, which amend it, its legal bases and so on, as named by the
// registry.
func (s *ActService) Relationships(ctx context.Context, publisher string, year, position int) (map[string]any, map[string]int, error) {
	refs, err := s.client.GetActReferences(ctx, publisher, year, position, s.detailsTTL)
	if err != nil {
		return nil, nil, err
	}

	references := make(map[string]any, len(refs))
	counts := make(map[string]int, len(refs))
	for category, value := range refs {
		items, ok := value.([]any)
		if !ok {
			continue
		}
		entries := make([]map[string]any, 0, len(items))
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			entries = append(entries, formatReference(entry))
		}
		references[category] = entries
		counts[category] = len(entries)
	}
	return references, counts, nil
}

// formatReference flattens one reference entry. The registry nests the
// referenced act under "act" with the relation date alongside.
func formatReference(entry map[string]any) map[string]any {
	out := map[string]any{}
	if act, ok := entry["act"].(map[string]any); ok {
		out["eli"] = actELI(act)
		out["title"] = act["title"]
		out["type"] = act["type"]
	} else {
		out["eli"] = actELI(entry)
		out["title"] = entry["title"]
	}
	if date, ok := entry["date"]; ok {
		out["date"] = date
	}
	if art, ok := entry["art"]; ok {
		out["art"] = art
	}
	return out
}
