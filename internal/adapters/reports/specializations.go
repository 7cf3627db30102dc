package reports

import (
	"context"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"intern_reports/internal/domain"
)

// SpecializationsOfField reads the field's sub-listing page in both locales
// and returns its specializations in English-document anchor order.
func (c *Client) SpecializationsOfField(ctx context.Context, fieldID int) ([]domain.Specialization, error) {
	return c.specializationsOfField(ctx, fieldID, nil)
}

func (c *Client) specializationsOfField(ctx context.Context, fieldID int, cache *pageCache) ([]domain.Specialization, error) {
	params := url.Values{"faculty": {strconv.Itoa(fieldID)}}

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

	enRows := specializationAnchors(en, fieldID)
	csRows := byID(specializationAnchors(cs, fieldID))

	specs := make([]domain.Specialization, len(enRows))
	for i, row := range enRows {
		specs[i] = domain.Specialization{
			ID:      row.id,
			FieldID: fieldID,
			Name:    domain.LocalizedString{EN: row.text, CS: csRows[row.id]},
		}
	}
	return specs, nil
}

// specializationAnchors keeps only anchors that stay inside the given field
// and carry a specialization id of their own.
func specializationAnchors(doc *goquery.Document, fieldID int) []idText {
	var out []idText
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if queryID(href, "faculty") != fieldID {
			return
		}
		id := queryID(href, "specialization")
		if id < 0 {
			return
		}
		out = append(out, idText{id: id, text: cleanText(a.Text())})
	})
	return out
}

// FieldListing fetches one field's review entries and its specializations
// concurrently. Both lookups hit overlapping pages, so they share one per-field
// page cache; the cache never leaves this call.
func (c *Client) FieldListing(ctx context.Context, fieldID int) (domain.FieldListing, error) {
	cache := newPageCache()
	params := url.Values{"faculty": {strconv.Itoa(fieldID)}}

	var listing domain.FieldListing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := c.reviewEntries(gctx, params, false, cache)
		if err != nil {
			return err
		}
		listing.Entries = entries
		return nil
	})
	g.Go(func() error {
		specs, err := c.specializationsOfField(gctx, fieldID, cache)
		if err != nil {
			return err
		}
		listing.Specializations = specs
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.FieldListing{}, err
	}
	return listing, nil
}
