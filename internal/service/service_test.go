package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sejmlex/internal/breaker"
	"sejmlex/internal/cache"
	"sejmlex/internal/sejm"
	"sejmlex/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) *sejm.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return sejm.NewClient(sejm.Config{BaseURL: server.URL}, breaker.New(breaker.Config{}, nil), cache.New(100, nil), nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestMetadataSingleCategory(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(t, w, []string{"podatek", "vat"})
	}))
	svc := NewMetadataService(client, time.Minute, nil)

	out, err := svc.Get(context.Background(), "keywords")
	require.NoError(t, err)
	assert.Equal(t, "/keywords", path)
	assert.Equal(t, []any{"podatek", "vat"}, out["keywords"])
}

func TestMetadataPublishersUseActsEndpoint(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(t, w, []map[string]any{{"code": "DU"}})
	}))
	svc := NewMetadataService(client, time.Minute, nil)

	_, err := svc.Get(context.Background(), "publishers")
	require.NoError(t, err)
	assert.Equal(t, "/acts", path)
}

func TestMetadataInvalidCategory(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	svc := NewMetadataService(client, time.Minute, nil)

	_, err := svc.Get(context.Background(), "bogus")
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "category", invalid.Field)
}

func TestMetadataAllIsolatesFailures(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/statuses" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, []string{"x"})
	}))
	svc := NewMetadataService(client, time.Minute, nil)

	out, err := svc.Get(context.Background(), "all")
	require.NoError(t, err)
	assert.Len(t, out, 5)
	assert.Equal(t, []any{}, out["statuses"], "failed category degrades to empty list")
	assert.Equal(t, []any{"x"}, out["keywords"])
}

func searchFixture() map[string]any {
	return map[string]any{
		"items": []any{
			map[string]any{
				"ELI": "DU/2023/100", "title": "Ustawa o VAT", "status": "obowiązujący",
				"publisher": "DU", "year": float64(2023), "pos": float64(100),
				"type": "Ustawa", "promulgation": "2023-01-10", "entryIntoForce": "2023-02-01",
				"inForce": "IN_FORCE", "keywords": []any{"podatek", "vat"},
			},
		},
		"totalCount": float64(137),
	}
}

func TestSearchMapsParams(t *testing.T) {
	var query url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(t, w, searchFixture())
	}))
	svc := NewSearchService(client, time.Minute, time.Minute, nil)

	result, err := svc.Search(context.Background(), SearchRequest{
		Keywords:    []string{"podatek", "VAT"},
		Title:       "ustawa",
		Type:        "Ustawa",
		DateFrom:    "2023-01-01",
		DateTo:      "2023-12-31",
		PubDateFrom: "2022-06-01",
		PubDateTo:   "2022-12-31",
		InForce:     true,
		Limit:       20,
		Offset:      40,
	})
	require.NoError(t, err)

	assert.Equal(t, "podatek,VAT", query.Get("keyword"))
	assert.Equal(t, "ustawa", query.Get("title"))
	assert.Equal(t, "Ustawa", query.Get("type"))
	assert.Equal(t, "2023-01-01", query.Get("dateEffectFrom"))
	assert.Equal(t, "2023-12-31", query.Get("dateEffectTo"))
	assert.Equal(t, "2022-06-01", query.Get("dateFrom"))
	assert.Equal(t, "2022-12-31", query.Get("dateTo"))
	assert.Equal(t, "1", query.Get("inForce"))
	assert.Equal(t, "20", query.Get("limit"))
	assert.Equal(t, "40", query.Get("offset"))

	assert.Equal(t, 137, result.TotalCount)
	assert.Contains(t, result.Query, "keywords=podatek+VAT")
}

func TestSearchFormatsActsAtStandardDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchFixture())
	}))
	svc := NewSearchService(client, time.Minute, time.Minute, nil)

	result, err := svc.Search(context.Background(), SearchRequest{Title: "vat"})
	require.NoError(t, err)
	require.Len(t, result.Acts, 1)

	act := result.Acts[0]
	assert.Equal(t, "DU/2023/100", act["eli"])
	assert.Equal(t, "Ustawa o VAT", act["title"])
	assert.Equal(t, "Ustawa", act["type"])
	assert.Equal(t, "2023-01-10", act["promulgation_date"])
	assert.Equal(t, "2023-02-01", act["effective_date"])
	_, hasKeywords := act["keywords"]
	assert.False(t, hasKeywords, "standard detail omits keywords")
}

func TestSearchMinimalDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchFixture())
	}))
	svc := NewSearchService(client, time.Minute, time.Minute, nil)

	result, err := svc.Search(context.Background(), SearchRequest{Title: "vat", Detail: "minimal"})
	require.NoError(t, err)
	require.Len(t, result.Acts, 1)

	act := result.Acts[0]
	assert.Equal(t, "DU/2023/100", act["eli"])
	_, hasType := act["type"]
	assert.False(t, hasType, "minimal detail omits the type")
}

func TestBrowse(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(t, w, searchFixture())
	}))
	svc := NewSearchService(client, time.Minute, time.Minute, nil)

	result, err := svc.Browse(context.Background(), "DU", 2023, "")
	require.NoError(t, err)
	assert.Equal(t, "/acts/DU/2023", path)
	assert.Equal(t, 137, result.TotalCount)
	assert.Equal(t, "browse: DU 2023", result.Query)
}

func TestChangesWindowAndDefaults(t *testing.T) {
	var query url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(t, w, searchFixture())
	}))
	svc := NewChangesService(client, time.Minute, nil)
	svc.today = func() string { return "2025-06-01" }

	result, err := svc.Recent(context.Background(), "2025-05-01", "", "DU", []string{"podatek"}, 50)
	require.NoError(t, err)

	assert.Equal(t, "2025-05-01", query.Get("dateFrom"))
	assert.Equal(t, "2025-06-01", query.Get("dateTo"), "empty date_to defaults to today")
	assert.Equal(t, "DU", query.Get("publisher"))
	assert.Equal(t, "podatek", query.Get("keyword"))
	assert.Equal(t, "50", query.Get("limit"))
	assert.Equal(t, "changes: 2025-05-01..2025-06-01", result.Query)
}

func TestChangesRequiresDateFrom(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	svc := NewChangesService(client, time.Minute, nil)

	_, err := svc.Recent(context.Background(), "", "", "", nil, 0)
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "date_from", invalid.Field)
}

func actFixture() map[string]any {
	return map[string]any{
		"ELI": "DU/2023/100", "title": "Ustawa o VAT", "status": "obowiązujący",
		"publisher": "DU", "year": float64(2023), "pos": float64(100),
		"type": "Ustawa", "promulgation": "2023-01-10", "entryIntoForce": "2023-02-01",
		"inForce": "IN_FORCE", "textHTML": true, "textPDF": "D20230100.pdf",
		"keywords": []any{"podatek", "vat"},
	}
}

func newActBackend(t *testing.T, html string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acts/DU/2023/100":
			writeJSON(t, w, actFixture())
		case "/acts/DU/2023/100/struct":
			writeJSON(t, w, []map[string]any{{"id": "part_1", "title": "Rozdział 1"}})
		case "/acts/DU/2023/100/text.html":
			_, _ = w.Write([]byte(html))
		case "/acts/DU/2023/100/references":
			writeJSON(t, w, map[string]any{
				"Akty zmieniające": []any{
					map[string]any{"act": map[string]any{"ELI": "DU/2024/5", "title": "Nowelizacja", "type": "Ustawa"}, "date": "2024-01-15"},
				},
				"Podstawa prawna": []any{},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestActDetailsWithoutContent(t *testing.T) {
	client := newTestClient(t, newActBackend(t, ""))
	docs := store.NewDocumentStore(store.DocumentStoreConfig{}, nil)
	svc := NewActService(client, docs, time.Minute, nil)

	details, err := svc.Details(context.Background(), "DU", 2023, 100, false)
	require.NoError(t, err)

	assert.Equal(t, "DU/2023/100", details.ELI)
	assert.Equal(t, "Ustawa o VAT", details.Act["title"])
	assert.True(t, details.HasHTML)
	assert.True(t, details.HasPDF)
	assert.False(t, details.IsLoaded)
	assert.NotNil(t, details.TOC)
	assert.Equal(t, []any{"podatek", "vat"}, details.Act["keywords"], "details use full formatting")
}

func TestActDetailsLoadsContent(t *testing.T) {
	html := `<html><body><h1>Ustawa o VAT</h1><p>Art. 1. Podatek wynosi 23 procent.</p></body></html>`
	client := newTestClient(t, newActBackend(t, html))
	docs := store.NewDocumentStore(store.DocumentStoreConfig{}, nil)
	svc := NewActService(client, docs, time.Minute, nil)

	details, err := svc.Details(context.Background(), "DU", 2023, 100, true)
	require.NoError(t, err)

	assert.True(t, details.IsLoaded)
	assert.Equal(t, "html", details.ContentSource)
	assert.True(t, docs.IsLoaded("DU/2023/100"))

	matches, err := docs.Search("DU/2023/100", "23 procent", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestActDetailsDegradesWhenLoadFails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acts/DU/2023/100":
			fixture := actFixture()
			fixture["textPDF"] = ""
			writeJSON(t, w, fixture)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	docs := store.NewDocumentStore(store.DocumentStoreConfig{}, nil)
	svc := NewActService(client, docs, time.Minute, nil)

	details, err := svc.Details(context.Background(), "DU", 2023, 100, true)
	require.NoError(t, err, "a failed text load must not fail the detail call")
	assert.False(t, details.IsLoaded)
	assert.Empty(t, details.ContentSource)
}

func TestLoadContentWithoutAnyText(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	docs := store.NewDocumentStore(store.DocumentStoreConfig{}, nil)
	svc := NewActService(client, docs, time.Minute, nil)

	_, err := svc.LoadContent(context.Background(), "DU", 2023, 100, "t", false, false)
	var unavailable *ContentNotAvailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "DU/2023/100", unavailable.ELI)
}

func TestLoadContentPDFLinkFallback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/acts/DU/2023/100/text.pdf" {
			_, _ = w.Write([]byte("garbage, not a real pdf"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	docs := store.NewDocumentStore(store.DocumentStoreConfig{}, nil)
	svc := NewActService(client, docs, time.Minute, nil)

	source, err := svc.LoadContent(context.Background(), "DU", 2023, 100, "t", false, true)
	require.NoError(t, err)
	assert.Equal(t, "pdf_link", source)

	matches, err := docs.Search("DU/2023/100", "text.pdf", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "the stored note points at the source PDF")
}

func TestRelationships(t *testing.T) {
	client := newTestClient(t, newActBackend(t, ""))
	svc := NewActService(client, store.NewDocumentStore(store.DocumentStoreConfig{}, nil), time.Minute, nil)

	refs, counts, err := svc.Relationships(context.Background(), "DU", 2023, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, counts["Akty zmieniające"])
	assert.Equal(t, 0, counts["Podstawa prawna"])

	entries, ok := refs["Akty zmieniające"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "DU/2024/5", entries[0]["eli"])
	assert.Equal(t, "Nowelizacja", entries[0]["title"])
	assert.Equal(t, "2024-01-15", entries[0]["date"])
}
