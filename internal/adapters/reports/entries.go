package reports

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"intern_reports/internal/domain"
)

// Template markers of the listing table. A czech-flag icon in a row marks a
// report written in Czech; a thumbnail image links the row's photo preview.
const (
	czFlagMarker    = "flag_cz"
	thumbnailMarker = "thumb"
)

func (c *Client) ReviewEntriesByCountry(ctx context.Context, countryID int) ([]domain.ReviewEntry, error) {
	params := url.Values{"country": {strconv.Itoa(countryID)}}
	return c.reviewEntries(ctx, params, true, nil)
}

func (c *Client) ReviewEntriesByField(ctx context.Context, fieldID int) ([]domain.ReviewEntry, error) {
	params := url.Values{"faculty": {strconv.Itoa(fieldID)}}
	return c.reviewEntries(ctx, params, false, nil)
}

func (c *Client) ReviewEntriesBySpecialization(ctx context.Context, fieldID, specializationID int) ([]domain.ReviewEntry, error) {
	params := url.Values{
		"faculty":        {strconv.Itoa(fieldID)},
		"specialization": {strconv.Itoa(specializationID)},
	}
	return c.reviewEntries(ctx, params, false, nil)
}

// listingColumns holds the physical column index of each logical column,
// discovered per page from the header text. The source table is sortable and
// its column order is not fixed.
type listingColumns struct {
	year, location, student, university, specialization int
}

// reviewEntries parses one filtered listing table. cityOnly says how the
// location column reads on this traversal axis: country-scoped listings hold a
// bare city, field- and specialization-scoped listings hold "Country, City".
func (c *Client) reviewEntries(ctx context.Context, params url.Values, cityOnly bool, cache *pageCache) ([]domain.ReviewEntry, error) {
	var en, cs *goquery.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		en, err = c.fetchDoc(gctx, c.sublistURL(langEN, params), cache)
		return err
	})
	g.Go(func() error {
		var err error
		cs, err = c.fetchDoc(gctx, c.sublistURL(langCS, params), cache)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	enRows := en.Find("table tr")
	if enRows.Length() == 0 {
		return nil, structuralf(pageSublist, "listing table not found")
	}
	cols, err := discoverColumns(enRows.First())
	if err != nil {
		return nil, err
	}
	// The czech table repeats the header as its first row; drop it, the join
	// below goes by embedded review id.
	csRows := cs.Find("table tr")
	if csRows.Length() > 0 {
		csRows = csRows.Slice(1, goquery.ToEnd)
	}

	var entries []domain.ReviewEntry
	enRows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		id := embeddedReviewID(row)
		if id < 0 {
			return
		}
		cells := row.Find("td")

		year, _ := strconv.Atoi(cleanText(cells.Eq(cols.year).Text()))
		surname, name := splitStudent(cleanText(cells.Eq(cols.student).Text()))

		lang := "en"
		if row.Find(`img[src*="` + czFlagMarker + `"]`).Length() > 0 {
			lang = "cs"
		}

		entry := domain.ReviewEntry{
			ID:             id,
			Year:           year,
			Location:       parseLocation(cleanText(cells.Eq(cols.location).Text()), cityOnly),
			ReviewLanguage: lang,
			Student:        domain.StudentName{Name: name, Surname: surname},
		}

		enUni := cleanText(cells.Eq(cols.university).Text())
		csUni := czechUniversity(csRows, id, cols.university)
		if enUni != "" || csUni != "" {
			entry.University = &domain.LocalizedString{EN: enUni, CS: csUni}
		}

		if src, ok := row.Find(`img[src*="` + thumbnailMarker + `"]`).First().Attr("src"); ok {
			entry.ThumbnailURL = c.resolve(src)
		}

		entries = append(entries, entry)
	})
	return entries, nil
}

// discoverColumns scans the header row's lowercased cell text for the known
// column labels by substring.
func discoverColumns(header *goquery.Selection) (listingColumns, error) {
	cols := listingColumns{year: -1, location: -1, student: -1, university: -1, specialization: -1}
	header.Children().Each(func(i int, cell *goquery.Selection) {
		switch t := strings.ToLower(cleanText(cell.Text())); {
		case strings.Contains(t, "year"):
			cols.year = i
		case strings.Contains(t, "location"):
			cols.location = i
		case strings.Contains(t, "student"):
			cols.student = i
		case strings.Contains(t, "university"):
			cols.university = i
		case strings.Contains(t, "specialization"):
			cols.specialization = i
		}
	})
	required := []struct {
		label string
		idx   int
	}{
		{"year", cols.year},
		{"location", cols.location},
		{"student", cols.student},
		{"university", cols.university},
	}
	for _, r := range required {
		if r.idx < 0 {
			return cols, structuralf(pageSublist, "header column %q not found", r.label)
		}
	}
	return cols, nil
}

// embeddedReviewID recovers the report id from the row's detail-page anchor.
func embeddedReviewID(row *goquery.Selection) int {
	id := -1
	row.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if v := queryID(href, "id"); v >= 0 {
			id = v
			return false
		}
		return true
	})
	return id
}

// czechUniversity finds the czech row carrying the same review id and reads
// its university cell. A linear scan; listing pages are small.
func czechUniversity(csRows *goquery.Selection, id, col int) string {
	text := ""
	csRows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if embeddedReviewID(row) != id {
			return true
		}
		text = cleanText(row.Find("td").Eq(col).Text())
		return false
	})
	return text
}

// splitStudent splits the "Surname, Name" student cell.
func splitStudent(s string) (surname, name string) {
	surname, name, ok := strings.Cut(s, ",")
	if !ok {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(surname), strings.TrimSpace(name)
}

func parseLocation(raw string, cityOnly bool) domain.Location {
	if cityOnly {
		return domain.CityOnly(raw)
	}
	country, city, ok := strings.Cut(raw, ",")
	if !ok {
		return domain.CountryAndCity(strings.TrimSpace(raw), "")
	}
	return domain.CountryAndCity(strings.TrimSpace(country), strings.TrimSpace(city))
}
