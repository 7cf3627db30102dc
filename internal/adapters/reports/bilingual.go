package reports

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The bilingual join: the English pass determines existence and order, the
// Czech pass is indexed by the numeric id recovered from each anchor's query
// string and looked up per id, defaulting to "".

// queryID returns the integer value of query parameter key in href, or -1
// when the parameter is absent or not a number.
func queryID(href, key string) int {
	u, err := url.Parse(href)
	if err != nil {
		return -1
	}
	v := u.Query().Get(key)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

type idText struct {
	id   int
	text string
}

// anchorTexts collects (id, text) pairs from the anchors in sel whose href
// carries the key query parameter. Anchors without a recoverable id are
// dropped, never emitted with a sentinel.
func anchorTexts(sel *goquery.Selection, key string) []idText {
	var out []idText
	sel.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id := queryID(href, key)
		if id < 0 {
			return
		}
		out = append(out, idText{id: id, text: cleanText(a.Text())})
	})
	return out
}

// byID indexes a Czech pass for the id join.
func byID(rows []idText) map[int]string {
	m := make(map[int]string, len(rows))
	for _, r := range rows {
		m[r.id] = r.text
	}
	return m
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// cleanText trims and collapses the whitespace HTML rendering leaves behind.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}
