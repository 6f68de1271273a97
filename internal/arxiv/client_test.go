// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agustif/llm-arxiv/pkg/types"
)

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2310.06825v1</id>
    <title>Mistral 7B</title>
    <summary>We introduce Mistral 7B, a 7-billion-parameter language model.</summary>
    <published>2023-10-10T17:54:02Z</published>
    <updated>2023-10-11T08:12:00Z</updated>
    <author><name>Albert Q. Jiang</name></author>
    <author><name>Alexandre Sablayrolles</name></author>
    <category term="cs.CL"/>
    <category term="cs.AI"/>
    <link title="pdf" href="http://arxiv.org/pdf/2310.06825v1" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2106.09685v2</id>
    <title>LoRA: Low-Rank Adaptation</title>
    <summary>Low-rank adaptation of large language models.</summary>
    <published>2021-06-17T17:37:18Z</published>
    <updated>2021-10-16T18:01:00Z</updated>
    <author><name>Edward J. Hu</name></author>
    <category term="cs.CL"/>
    <link title="pdf" href="http://arxiv.org/pdf/2106.09685v2" type="application/pdf"/>
  </entry>
</feed>`

const emptyFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"></feed>`

// withAPIBase points the package at a test server for the test's duration.
func withAPIBase(t *testing.T, url string) {
	t.Helper()
	orig := apiBase
	apiBase = url
	t.Cleanup(func() { apiBase = orig })
}

func withPDFBase(t *testing.T, url string) {
	t.Helper()
	orig := pdfBase
	pdfBase = url
	t.Cleanup(func() { pdfBase = orig })
}

func testClient() *Client {
	return NewClient(types.HTTPConfig{UserAgent: "llm-arxiv-test"})
}

func TestMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_list"); got != "2310.06825" {
			t.Errorf("id_list = %q, want 2310.06825", got)
		}
		fmt.Fprint(w, atomFixture)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	id, err := ParseIdentifier("2310.06825")
	if err != nil {
		t.Fatal(err)
	}
	paper, err := testClient().Metadata(context.Background(), id)
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}

	if paper.ID != "2310.06825" {
		t.Errorf("ID = %q", paper.ID)
	}
	if paper.Title != "Mistral 7B" {
		t.Errorf("Title = %q", paper.Title)
	}
	if len(paper.Authors) != 2 || paper.Authors[0] != "Albert Q. Jiang" {
		t.Errorf("Authors = %v", paper.Authors)
	}
	if len(paper.Categories) != 2 || paper.Categories[0] != "cs.CL" {
		t.Errorf("Categories = %v", paper.Categories)
	}
	if paper.PDFURL != "http://arxiv.org/pdf/2310.06825v1" {
		t.Errorf("PDFURL = %q", paper.PDFURL)
	}
	if paper.SourceURL != "https://arxiv.org/abs/2310.06825" {
		t.Errorf("SourceURL = %q", paper.SourceURL)
	}
	if paper.Published.IsZero() || paper.Updated.IsZero() {
		t.Errorf("dates not parsed: published %v, updated %v", paper.Published, paper.Updated)
	}
}

func TestMetadataNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, emptyFeedFixture)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	id, _ := ParseIdentifier("1234.56789")
	_, err := testClient().Metadata(context.Background(), id)
	if err == nil {
		t.Fatal("Metadata() succeeded for unknown paper")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if fetchErr.ID != "1234.56789" {
		t.Errorf("FetchError.ID = %q", fetchErr.ID)
	}
}

func TestMetadataServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	id, _ := ParseIdentifier("2310.06825")
	_, err := testClient().Metadata(context.Background(), id)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
}

func TestPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2310.06825" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("%PDF-1.5 fake"))
	}))
	defer srv.Close()
	withPDFBase(t, srv.URL+"/")

	id, _ := ParseIdentifier("2310.06825")
	pdf, err := testClient().PDF(context.Background(), id)
	if err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if string(pdf) != "%PDF-1.5 fake" {
		t.Errorf("PDF() = %q", pdf)
	}
}

func TestPDFNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	withPDFBase(t, srv.URL+"/")

	id, _ := ParseIdentifier("2310.06825")
	_, err := testClient().PDF(context.Background(), id)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
}

func TestSearch(t *testing.T) {
	var gotQuery, gotSort string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotSort = r.URL.Query().Get("sortBy")
		fmt.Fprint(w, atomFixture)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	results, err := testClient().Search(context.Background(), "language models", SortLastUpdated, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotQuery != "all:language+models" && gotQuery != "all:language models" {
		t.Errorf("search_query = %q", gotQuery)
	}
	if gotSort != "lastUpdatedDate" {
		t.Errorf("sortBy = %q, want lastUpdatedDate", gotSort)
	}

	// Catalog order preserved.
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ID != "2310.06825" || results[1].ID != "2106.09685" {
		t.Errorf("result order = %q, %q", results[0].ID, results[1].ID)
	}
	if results[0].Title != "Mistral 7B" {
		t.Errorf("Title = %q", results[0].Title)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if _, err := testClient().Search(context.Background(), "   ", SortRelevance, 10); err == nil {
		t.Error("Search() with blank query succeeded, want error")
	}
}

func TestSortKeyAPIValue(t *testing.T) {
	tests := []struct {
		key     SortKey
		want    string
		wantErr bool
	}{
		{SortRelevance, "relevance", false},
		{SortKey(""), "relevance", false},
		{SortLastUpdated, "lastUpdatedDate", false},
		{SortSubmitted, "submittedDate", false},
		{SortKey("citations"), "", true},
	}
	for _, tt := range tests {
		got, err := tt.key.apiValue()
		if (err != nil) != tt.wantErr {
			t.Errorf("apiValue(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("apiValue(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
