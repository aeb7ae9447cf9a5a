package model

import "time"

// ExtractionMethod records which strategy produced a PageContent's text
// (spec §3).
type ExtractionMethod string

const (
	ExtractionPrimary  ExtractionMethod = "primary"
	ExtractionFallback ExtractionMethod = "fallback"
	ExtractionFailed   ExtractionMethod = "failed"
)

// PageContent is the result of fetching and extracting one URL. The
// invariant `ExtractionMethod == Failed iff CharCount == 0` is enforced by
// NewPageContent / NewFailedPageContent rather than left to callers.
type PageContent struct {
	URL              string
	FetchedAt        time.Time
	HTTPStatus       int
	ExtractionMethod ExtractionMethod
	Text             string
	CharCount        int
	RetryCount       int
}

// NewPageContent builds a successful PageContent, deriving CharCount from
// text and rejecting the zero-length/non-failed combination the invariant
// forbids by forcing ExtractionFailed when text is empty.
func NewPageContent(url string, status int, method ExtractionMethod, text string, retryCount int) PageContent {
	if text == "" {
		method = ExtractionFailed
	}
	return PageContent{
		URL:              url,
		FetchedAt:        time.Now().UTC(),
		HTTPStatus:       status,
		ExtractionMethod: method,
		Text:             text,
		CharCount:        len([]rune(text)),
		RetryCount:       retryCount,
	}
}

// NewFailedPageContent builds a PageContent representing a fetch or
// extraction failure for url.
func NewFailedPageContent(url string, status int, retryCount int) PageContent {
	return PageContent{
		URL:              url,
		FetchedAt:        time.Now().UTC(),
		HTTPStatus:       status,
		ExtractionMethod: ExtractionFailed,
		Text:             "",
		CharCount:        0,
		RetryCount:       retryCount,
	}
}
