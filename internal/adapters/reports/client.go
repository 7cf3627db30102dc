package reports

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"intern_reports/internal/adapters/observability"
)

// Locale suffixes of the source site.
const (
	langEN = "en_us"
	langCS = "cs_cz"
)

// Page names of the source site (the "page" query parameter).
const (
	pageList    = "student_report_list"
	pageSublist = "student_report_country"
	pageDetail  = "student_report"
)

const fetchAttempts = 5

type Client struct {
	base  *url.URL
	hc    *http.Client
	rl    *rate.Limiter
	delay func(remaining int) time.Duration
}

type Options struct {
	// Requests per second against the remote host. Defaults to 5.
	RPS int
	// Per-request timeout. Defaults to 20s.
	Timeout time.Duration
	// RetryDelay overrides the backoff schedule (tests). Defaults to RetryDelay.
	RetryDelay func(remaining int) time.Duration
}

func New(base string, opts Options) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", base)
	}
	if opts.RPS <= 0 {
		opts.RPS = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RetryDelay == nil {
		opts.RetryDelay = RetryDelay
	}
	return &Client{
		base:  u,
		hc:    &http.Client{Timeout: opts.Timeout},
		rl:    rate.NewLimiter(rate.Limit(opts.RPS), opts.RPS),
		delay: opts.RetryDelay,
	}, nil
}

// RetryDelay is the wait before the attempt that still has `remaining` tries
// left: 50s/remaining^2.5, i.e. roughly 1s, 2s, 3.5s, 10s, 50s as the budget
// runs out.
func RetryDelay(remaining int) time.Duration {
	if remaining < 1 {
		remaining = 1
	}
	ms := 50000 / math.Pow(float64(remaining), 2.5)
	return time.Duration(ms * float64(time.Millisecond))
}

// ---- URL builders ----

func (c *Client) pageURL(page, lang string, params url.Values) string {
	q := url.Values{}
	q.Set("page", page)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if lang != "" {
		q.Set("lang", lang)
	}
	u := *c.base
	u.Path = "/index.php"
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) listURL(lang string) string {
	return c.pageURL(pageList, lang, nil)
}

func (c *Client) sublistURL(lang string, params url.Values) string {
	return c.pageURL(pageSublist, lang, params)
}

func (c *Client) detailURL(id int) string {
	return c.pageURL(pageDetail, "", url.Values{"id": {strconv.Itoa(id)}})
}

// resolve turns a document-relative href/src into an absolute URL.
func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// ---- document fetch ----

// fetchDoc GETs rawurl and parses the body as HTML. Non-2xx responses and
// unparseable bodies are retried up to fetchAttempts times with the RetryDelay
// schedule; exhaustion returns a *FetchError. A non-nil cache short-circuits
// repeat fetches of the same URL within one sub-traversal.
func (c *Client) fetchDoc(ctx context.Context, rawurl string, cache *pageCache) (*goquery.Document, error) {
	if cache != nil {
		if doc, ok := cache.get(rawurl); ok {
			observability.ObserveCache("hit")
			return doc, nil
		}
		observability.ObserveCache("miss")
	}

	page := pageOf(rawurl)
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}

		doc, err := c.fetchOnce(ctx, rawurl, page)
		if err == nil {
			if cache != nil {
				cache.put(rawurl, doc)
			}
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		remaining := fetchAttempts - attempt
		if remaining == 0 {
			break
		}
		if !sleepCtx(ctx, c.delay(remaining)) {
			return nil, ctx.Err()
		}
	}

	return nil, &FetchError{URL: rawurl, Attempts: fetchAttempts, Err: lastErr}
}

func (c *Client) fetchOnce(ctx context.Context, rawurl, page string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", "intern-reports/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(page, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(page, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("remote %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// pageOf extracts the "page" query parameter for metric labels.
func pageOf(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "unknown"
	}
	if p := u.Query().Get("page"); p != "" {
		return p
	}
	return "unknown"
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ---- per-run page cache ----

// pageCache memoizes parsed documents within one sub-traversal. The English
// and Czech passes of one field run concurrently, so access is locked.
type pageCache struct {
	mu   sync.Mutex
	docs map[string]*goquery.Document
}

func newPageCache() *pageCache {
	return &pageCache{docs: map[string]*goquery.Document{}}
}

func (c *pageCache) get(rawurl string) (*goquery.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[rawurl]
	return doc, ok
}

func (c *pageCache) put(rawurl string, doc *goquery.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[rawurl] = doc
}
