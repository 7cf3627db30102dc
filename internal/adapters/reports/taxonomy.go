package reports

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"intern_reports/internal/domain"
)

// BaseCategories reads the base listing page in both locales and returns the
// taxonomy: country categories in page order and the deduplicated field list.
//
// Category headings carry no id, so the Czech pass is zipped positionally: the
// i-th Czech heading is taken to name the i-th English category. That is a
// structural assumption about the source site; a count mismatch fails loud.
func (c *Client) BaseCategories(ctx context.Context) (domain.Categories, error) {
	var en, cs *goquery.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		en, err = c.fetchDoc(gctx, c.listURL(langEN), nil)
		return err
	})
	g.Go(func() error {
		var err error
		cs, err = c.fetchDoc(gctx, c.listURL(langCS), nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Categories{}, err
	}

	enCats := englishCategories(en)
	csHeadings := czechHeadings(cs)
	if len(enCats) != len(csHeadings) {
		return domain.Categories{}, structuralf(pageList,
			"category heading count mismatch: en=%d cs=%d", len(enCats), len(csHeadings))
	}
	csCountries := byID(anchorTexts(cs.Find("td a"), "country"))

	categories := make([]domain.CountryCategory, len(enCats))
	for i, cat := range enCats {
		countries := make([]domain.Country, len(cat.countries))
		for j, row := range cat.countries {
			countries[j] = domain.Country{
				ID:   row.id,
				Name: domain.LocalizedString{EN: row.text, CS: csCountries[row.id]},
			}
		}
		categories[i] = domain.CountryCategory{
			Name:      domain.LocalizedString{EN: cat.name, CS: csHeadings[i]},
			Countries: countries,
		}
	}

	return domain.Categories{
		CountryCategories: categories,
		Fields:            mergeFields(en, cs),
	}, nil
}

type categoryDraft struct {
	name      string
	countries []idText
}

// englishCategories walks the listing cells top to bottom: each h2 opens a new
// category and the country anchors that follow it belong to that category
// until the next heading.
func englishCategories(doc *goquery.Document) []categoryDraft {
	var cats []categoryDraft
	doc.Find("td").Each(func(_ int, cell *goquery.Selection) {
		cell.Find("h2, a").Each(func(_ int, node *goquery.Selection) {
			if goquery.NodeName(node) == "h2" {
				cats = append(cats, categoryDraft{name: cleanText(node.Text())})
				return
			}
			href, _ := node.Attr("href")
			id := queryID(href, "country")
			if id < 0 || len(cats) == 0 {
				return
			}
			last := &cats[len(cats)-1]
			last.countries = append(last.countries, idText{id: id, text: cleanText(node.Text())})
		})
	})
	return cats
}

func czechHeadings(doc *goquery.Document) []string {
	var out []string
	doc.Find("td h2").Each(func(_ int, h *goquery.Selection) {
		out = append(out, cleanText(h.Text()))
	})
	return out
}

// mergeFields joins the field anchors of both passes by faculty id. The
// English document fixes the order; repeated ids keep the first occurrence so
// repeated parses of an unchanged page stay byte-identical.
func mergeFields(en, cs *goquery.Document) []domain.Field {
	enFields := anchorTexts(en.Find("td a"), "faculty")
	csFields := byID(anchorTexts(cs.Find("td a"), "faculty"))

	seen := make(map[int]bool, len(enFields))
	fields := make([]domain.Field, 0, len(enFields))
	for _, row := range enFields {
		if seen[row.id] {
			continue
		}
		seen[row.id] = true
		fields = append(fields, domain.Field{
			ID:   row.id,
			Name: domain.LocalizedString{EN: row.text, CS: csFields[row.id]},
		})
	}
	return fields
}
