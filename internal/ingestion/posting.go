// Package ingestion turns a job posting URL into the structured record the
// tracker caches. It fetches the page, reduces it to clean text, and pulls
// out the role title and company name.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/fetch"
	"github.com/jonathan/application-tracker/internal/llm"
)

var (
	// ErrFetchFailed is returned when the posting page cannot be retrieved.
	ErrFetchFailed = errors.New("posting fetch failed")
	// ErrEmptyPosting is returned when no readable text survives extraction.
	ErrEmptyPosting = errors.New("posting has no readable content")
)

// Ingestor fetches posting pages and assembles create inputs for the posting
// cache. The generative-text client is optional; without it field extraction
// falls back to page-title heuristics.
type Ingestor struct {
	fetcher *fetch.Fetcher
	client  llm.Client
	verbose bool
}

// NewIngestor creates an Ingestor. client may be nil.
func NewIngestor(fetcher *fetch.Fetcher, client llm.Client) *Ingestor {
	return &Ingestor{fetcher: fetcher, client: client}
}

// SetVerbose enables progress logging.
func (i *Ingestor) SetVerbose(v bool) { i.verbose = v }

// Ingest fetches the posting at urlStr and returns an upsert input carrying
// its cleaned text, detected platform, and extracted fields.
func (i *Ingestor) Ingest(ctx context.Context, urlStr string) (*db.JobPostingCreateInput, error) {
	platform := fetch.DetectPlatform(urlStr)
	if i.verbose {
		log.Printf("[INGEST] %s (platform: %s)", urlStr, platform)
	}

	page, err := i.fetcher.Posting(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	cleaned := CleanText(page.Text)
	if cleaned == "" {
		return nil, ErrEmptyPosting
	}
	if i.verbose {
		log.Printf("[INGEST] %d chars of cleaned text (rendered: %v)", len(cleaned), page.Rendered)
	}

	fields := i.extractFields(ctx, page.HTML, cleaned)

	input := &db.JobPostingCreateInput{
		URL:         urlStr,
		CleanedText: &cleaned,
		HTTPStatus:  &page.StatusCode,
	}
	if platform != fetch.PlatformUnknown {
		p := string(platform)
		input.Platform = &p
	}
	if fields.RoleTitle != "" {
		input.RoleTitle = &fields.RoleTitle
	}
	if fields.Company != "" {
		input.Company = &fields.Company
	}
	return input, nil
}

// extractFields tries model extraction first, then page-title heuristics.
// Extraction failures are non-fatal; the posting is still cached.
func (i *Ingestor) extractFields(ctx context.Context, html, cleaned string) PostingFields {
	if i.client != nil {
		fields, err := ExtractFields(ctx, i.client, cleaned)
		if err == nil && (fields.RoleTitle != "" || fields.Company != "") {
			return fields
		}
		if i.verbose && err != nil {
			log.Printf("[INGEST] model extraction failed, using title heuristics: %v", err)
		}
	}
	return FieldsFromTitle(pageTitle(html))
}

// pageTitle returns the contents of the document's <title> element.
func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// FieldsFromTitle splits a page title like "Senior Engineer - Acme" or
// "Job Application for SRE at Globex" into role and company.
func FieldsFromTitle(title string) PostingFields {
	title = strings.TrimSpace(title)
	if title == "" {
		return PostingFields{}
	}

	// Greenhouse prefixes titles with an application banner.
	title = strings.TrimPrefix(title, "Job Application for ")

	if idx := strings.LastIndex(title, " at "); idx > 0 {
		return PostingFields{
			RoleTitle: strings.TrimSpace(title[:idx]),
			Company:   strings.TrimSpace(title[idx+len(" at "):]),
		}
	}
	for _, sep := range []string{" - ", " | ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return PostingFields{
				RoleTitle: strings.TrimSpace(title[:idx]),
				Company:   strings.TrimSpace(title[idx+len(sep):]),
			}
		}
	}
	return PostingFields{RoleTitle: title}
}
