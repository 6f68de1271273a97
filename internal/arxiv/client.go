// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agustif/llm-arxiv/internal/httputil"
	"github.com/agustif/llm-arxiv/pkg/types"
)

// Base URLs. Declared as vars so tests can substitute httptest servers.
var (
	apiBase = "https://export.arxiv.org/api/query"
	absBase = "https://arxiv.org/abs/"
	pdfBase = "https://arxiv.org/pdf/"
)

// SortKey selects the catalog's ordering for search results. The catalog's
// own semantics apply; results are returned descending and never re-sorted
// here.
type SortKey string

const (
	SortRelevance   SortKey = "relevance"
	SortLastUpdated SortKey = "last-updated"
	SortSubmitted   SortKey = "submitted"
)

// apiValue maps a SortKey to the arXiv API's sortBy parameter.
func (k SortKey) apiValue() (string, error) {
	switch k {
	case SortRelevance, "":
		return "relevance", nil
	case SortLastUpdated:
		return "lastUpdatedDate", nil
	case SortSubmitted:
		return "submittedDate", nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want relevance, last-updated, or submitted)", string(k))
	}
}

// FetchError wraps a network or catalog failure for a single paper.
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching paper %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client talks to the arXiv export API.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a client from HTTP settings. A zero timeout disables
// the client-side deadline; arXiv imposes none of its own here.
func NewClient(cfg types.HTTPConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
	}
}

// Metadata fetches catalog metadata for a single paper.
func (c *Client) Metadata(ctx context.Context, id Identifier) (*types.Paper, error) {
	query := fmt.Sprintf("%s?id_list=%s&max_results=1", apiBase, url.QueryEscape(id.String()))

	feed, err := c.getFeed(ctx, query)
	if err != nil {
		return nil, &FetchError{ID: id.String(), Err: err}
	}
	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].Title) == "" {
		return nil, &FetchError{ID: id.String(), Err: fmt.Errorf("no paper found")}
	}

	paper := entryToPaper(feed.Entries[0])
	paper.ID = id.String()
	paper.SourceURL = id.AbsURL()
	if paper.PDFURL == "" {
		paper.PDFURL = id.PDFURL()
	}
	return &paper, nil
}

// PDF downloads the paper's PDF bytes.
func (c *Client) PDF(ctx context.Context, id Identifier) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id.PDFURL(), nil)
	if err != nil {
		return nil, &FetchError{ID: id.String(), Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, &FetchError{ID: id.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{ID: id.String(), Err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, id.PDFURL())}
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{ID: id.String(), Err: fmt.Errorf("reading PDF body: %w", err)}
	}

	log.Debug().Str("id", id.String()).Int("bytes", len(pdf)).Msg("downloaded PDF")
	return pdf, nil
}

// Search queries the catalog and returns results in the catalog's own order.
func (c *Client) Search(ctx context.Context, query string, sort SortKey, maxResults int) ([]types.SearchResult, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty search query")
	}
	sortBy, err := sort.apiValue()
	if err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	searchQuery := "all:" + url.QueryEscape(strings.Join(terms, " "))
	apiURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=%s&sortOrder=descending",
		apiBase, searchQuery, maxResults, sortBy)

	feed, err := c.getFeed(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("searching arXiv: %w", err)
	}

	results := make([]types.SearchResult, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		id := extractEntryID(entry.ID)
		if id == "" {
			continue
		}
		paper := entryToPaper(entry)
		results = append(results, types.SearchResult{
			ID:         id,
			Title:      paper.Title,
			Authors:    paper.Authors,
			Abstract:   paper.Abstract,
			Categories: paper.Categories,
			Published:  paper.Published,
			Updated:    paper.Updated,
			PDFURL:     paper.PDFURL,
		})
	}
	return results, nil
}

// getFeed performs a GET and decodes the Atom response.
func (c *Client) getFeed(ctx context.Context, apiURL string) (*atomFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// entryToPaper maps an Atom entry onto paper metadata.
func entryToPaper(entry atomEntry) types.Paper {
	p := types.Paper{
		Title:    strings.TrimSpace(entry.Title),
		Abstract: strings.TrimSpace(entry.Summary),
	}

	for _, a := range entry.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	for _, cat := range entry.Categories {
		if cat.Term != "" {
			p.Categories = append(p.Categories, cat.Term)
		}
	}
	for _, l := range entry.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			p.PDFURL = l.Href
			break
		}
	}

	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		p.Published = t
	}
	if t, err := time.Parse(time.RFC3339, entry.Updated); err == nil {
		p.Updated = t
	}
	return p
}

// extractEntryID pulls the arXiv ID from an entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractEntryID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
