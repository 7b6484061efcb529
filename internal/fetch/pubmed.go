// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// pubmedAPIBase is the NCBI E-utilities endpoint prefix. Declared as a var
// so tests can substitute an httptest server.
var pubmedAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// PubMedAdapter queries PubMed through the NCBI E-utilities two-step
// esearch/efetch protocol.
type PubMedAdapter struct {
	Client    *http.Client
	UserAgent string
	// APIKey raises NCBI's rate limit when present.
	APIKey string
	// Email is sent per NCBI etiquette guidelines.
	Email string
}

// Name returns the adapter identifier.
func (a *PubMedAdapter) Name() string { return "pubmed" }

// Fetch queries PubMed and returns normalized records. esearch resolves the
// query to PMIDs, efetch retrieves the article metadata.
func (a *PubMedAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.PaperRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}
	if limit <= 0 {
		limit = 20
	}

	ids, err := a.esearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	return a.efetch(ctx, ids)
}

// esearch resolves the query text to a list of PMIDs.
func (a *PubMedAdapter) esearch(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {strconv.Itoa(limit)},
		"retmode": {"json"},
		"sort":    {"relevance"},
		"tool":    {"litreview"},
	}
	a.etiquette(params)

	resp, err := a.get(ctx, pubmedAPIBase+"/esearch.fcgi?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("PubMed esearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed esearch returned HTTP %d", resp.StatusCode)
	}

	var parsed esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing PubMed esearch response: %w", err)
	}
	return parsed.Result.IDList, nil
}

// efetch retrieves article metadata for the given PMIDs.
func (a *PubMedAdapter) efetch(ctx context.Context, ids []string) ([]types.PaperRecord, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
		"tool":    {"litreview"},
	}
	a.etiquette(params)

	resp, err := a.get(ctx, pubmedAPIBase+"/efetch.fcgi?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed efetch response: %w", err)
	}

	var records []types.PaperRecord
	for _, article := range set.Articles {
		pmid := strings.TrimSpace(article.Citation.PMID)
		if pmid == "" {
			continue
		}

		r := types.PaperRecord{
			Identifier: pmid,
			Source:     "pubmed",
			Title:      strings.TrimSpace(article.Citation.Article.Title),
			Abstract:   strings.TrimSpace(strings.Join(article.Citation.Article.Abstract.Texts, " ")),
			URL:        "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
		}

		for _, au := range article.Citation.Article.AuthorList.Authors {
			switch {
			case au.ForeName != "" && au.LastName != "":
				r.Authors = append(r.Authors, au.ForeName+" "+au.LastName)
			case au.LastName != "":
				r.Authors = append(r.Authors, au.LastName)
			}
		}

		if y, convErr := strconv.Atoi(article.Citation.Article.Journal.PubDate.Year); convErr == nil {
			r.Year = y
		}

		records = append(records, r)
	}
	return records, nil
}

// etiquette appends the optional NCBI identification parameters.
func (a *PubMedAdapter) etiquette(params url.Values) {
	if a.Email != "" {
		params.Set("email", a.Email)
	}
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}
}

func (a *PubMedAdapter) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.UserAgent)

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	return httputil.DoWithRetry(ctx, client, req, 0)
}

// NCBI E-utilities response structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	IDList []string `json:"idlist"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation pubmedCitation `xml:"MedlineCitation"`
}

type pubmedCitation struct {
	PMID    string           `xml:"PMID"`
	Article pubmedArticleRec `xml:"Article"`
}

type pubmedArticleRec struct {
	Title      string           `xml:"ArticleTitle"`
	Abstract   pubmedAbstract   `xml:"Abstract"`
	AuthorList pubmedAuthorList `xml:"AuthorList"`
	Journal    pubmedJournal    `xml:"Journal"`
}

type pubmedAbstract struct {
	Texts []string `xml:"AbstractText"`
}

type pubmedAuthorList struct {
	Authors []pubmedAuthor `xml:"Author"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type pubmedJournal struct {
	PubDate pubmedPubDate `xml:"JournalIssue>PubDate"`
}

type pubmedPubDate struct {
	Year string `xml:"Year"`
}
