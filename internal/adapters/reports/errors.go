package reports

import "fmt"

// FetchError reports a URL that stayed unreachable after the whole retry
// budget. It aborts the enclosing aggregation; there is no automatic skip.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StructuralError reports a source page whose layout no longer matches the
// template this scraper was written against. Extraction fails loud instead of
// emitting garbled records.
type StructuralError struct {
	Page   string
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("unexpected layout on %s page: %s", e.Page, e.Detail)
}

func structuralf(page, format string, args ...any) *StructuralError {
	return &StructuralError{Page: page, Detail: fmt.Sprintf(format, args...)}
}
