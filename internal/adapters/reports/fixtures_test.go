package reports_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"intern_reports/internal/adapters/reports"
)

// fakeSite serves canned HTML keyed by the query parameters the real site
// routes on, and counts hits per key so cache behavior is observable.
type fakeSite struct {
	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
}

func newFakeSite() *fakeSite {
	return &fakeSite{pages: map[string]string{}, hits: map[string]int{}}
}

func siteKey(q url.Values) string {
	return strings.Join([]string{
		q.Get("page"), q.Get("lang"), q.Get("country"),
		q.Get("faculty"), q.Get("specialization"), q.Get("id"),
	}, "|")
}

func (s *fakeSite) add(params url.Values, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[siteKey(params)] = html
}

func (s *fakeSite) hitCount(params url.Values) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[siteKey(params)]
}

func (s *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := siteKey(r.URL.Query())
	s.mu.Lock()
	s.hits[key]++
	page, ok := s.pages[key]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// newTestClient wires a client against the fake site with retries effectively
// disabled so parse failures surface fast.
func newTestClient(t *testing.T, site *fakeSite) (*reports.Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(site)
	t.Cleanup(ts.Close)
	cl, err := reports.New(ts.URL, reports.Options{
		RPS:        1000,
		RetryDelay: func(int) time.Duration { return 0 },
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl, ts
}

func params(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

// ---- fixture builders ----

func listingTable(header string, rows ...string) string {
	return "<table>" + header + strings.Join(rows, "") + "</table>"
}

func detailPage(heading string, photos []string, infoValues []string, blocks []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>", heading)
	b.WriteString(`<div class="gallery">`)
	for _, p := range photos {
		fmt.Fprintf(&b, `<a href="/photos/%s.jpg"><img src="/photos/thumb_%s.jpg"></a>`, p, p)
	}
	b.WriteString(`</div><table class="report-info">`)
	for i, v := range infoValues {
		fmt.Fprintf(&b, "<tr><td>label %d</td><td>%s</td></tr>", i, v)
	}
	b.WriteString("</table>")
	for _, blk := range blocks {
		fmt.Fprintf(&b, `<div class="report-text">%s</div>`, blk)
	}
	return b.String()
}

// standardInfo returns 13 info rows with recognizable values.
func standardInfo() []string {
	return []string{
		"Faculty of Information Technology", // 0 faculty
		"Software Engineering",              // 1 field of study
		"Computer Science",                  // 2 field name (raw label)
		"Informatika",                       // 3 specialization name (raw label)
		"July - August 2019",                // 4 period
		"8",                                 // 5 duration in weeks
		"plane",                             // 6 transport
		"ERV",                               // 7 insurance
		"not needed",                        // 8 visa
		"0",                                 // 9 visa price
		"unused a",                          // 10
		"unused b",                          // 11
		"CZ-2019-123",                       // 12 reference number
	}
}

// standardBlocks returns the 22 body blocks, each carrying its position so
// tests can check the position->field mapping.
func standardBlocks() []string {
	blocks := make([]string, 22)
	for i := range blocks {
		blocks[i] = fmt.Sprintf("block %d", i)
	}
	blocks[20] = "https://example.com/a\nhttps://example.com/b\n\n"
	return blocks
}
