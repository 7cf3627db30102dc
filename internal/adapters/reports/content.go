package reports

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"intern_reports/internal/domain"
)

// Detail pages follow a fixed template: an info table of label/value rows and
// a fixed-order run of free-text blocks, neither of which labels its values in
// a machine-readable way. Position is the only key, so the position tables
// below are the single place that encodes the template, and both sequences are
// length-checked up front so a template change surfaces as a StructuralError
// instead of a silently partial record.
const (
	detailHeading   = "h1"
	detailGallery   = ".gallery a"
	detailInfoRows  = ".report-info tr"
	detailTextBlock = ".report-text"
)

// infoRowCount is the minimum info-table length: positions 0-9 and 12 are
// read, 10-11 are unused template rows.
const infoRowCount = 13

var infoRowDest = map[int]func(*domain.ReviewContent, string){
	0: func(c *domain.ReviewContent, v string) { c.Info.Faculty = v },
	1: func(c *domain.ReviewContent, v string) { c.Info.FieldOfStudy = v },
	2: func(c *domain.ReviewContent, v string) { c.FieldName = v },
	3: func(c *domain.ReviewContent, v string) { c.SpecializationName = v },
	4: func(c *domain.ReviewContent, v string) { c.Info.Period = v },
	5: func(c *domain.ReviewContent, v string) { c.Info.DurationWeeks, _ = strconv.Atoi(v) },
	6: func(c *domain.ReviewContent, v string) { c.Info.Transport = v },
	7: func(c *domain.ReviewContent, v string) { c.Info.Insurance = v },
	8: func(c *domain.ReviewContent, v string) { c.Info.Visa = v },
	9: func(c *domain.ReviewContent, v string) { c.Info.VisaPrice = v },
	12: func(c *domain.ReviewContent, v string) { c.Info.ReferenceNumber = v },
}

// bodyBlockCount is the exact number of free-text blocks the template renders.
// websitesBlock is one link per line and is split before whitespace cleanup.
const (
	bodyBlockCount = 22
	websitesBlock  = 20
)

var bodyBlockDest = [bodyBlockCount]func(*domain.ReviewContent, string){
	0:  func(c *domain.ReviewContent, v string) { c.Place.General = v },
	1:  func(c *domain.ReviewContent, v string) { c.Place.City = v },
	2:  func(c *domain.ReviewContent, v string) { c.Place.Accommodation = v },
	3:  func(c *domain.ReviewContent, v string) { c.Place.Food = v },
	4:  func(c *domain.ReviewContent, v string) { c.Place.Transport = v },
	5:  func(c *domain.ReviewContent, v string) { c.Place.Tips = v },
	6:  func(c *domain.ReviewContent, v string) { c.Work.Employer = v },
	7:  func(c *domain.ReviewContent, v string) { c.Work.Description = v },
	8:  func(c *domain.ReviewContent, v string) { c.Work.Salary = v },
	9:  func(c *domain.ReviewContent, v string) { c.Work.Language = v },
	10: func(c *domain.ReviewContent, v string) { c.Work.Colleagues = v },
	11: func(c *domain.ReviewContent, v string) { c.Work.Tips = v },
	12: func(c *domain.ReviewContent, v string) { c.SocialLife.IaesteMembers = v },
	13: func(c *domain.ReviewContent, v string) { c.SocialLife.ForeignStudents = v },
	14: func(c *domain.ReviewContent, v string) { c.SocialLife.SportAndCulture = v },
	15: func(c *domain.ReviewContent, v string) { c.SocialLife.Trips = v },
	16: func(c *domain.ReviewContent, v string) { c.SocialLife.Tips = v },
	17: func(c *domain.ReviewContent, v string) { c.Miscellaneous.VisaEmbassy = v },
	18: func(c *domain.ReviewContent, v string) { c.Miscellaneous.HealthInsurance = v },
	19: func(c *domain.ReviewContent, v string) { c.Miscellaneous.Telecommunication = v },
	20: func(c *domain.ReviewContent, v string) { c.Websites = splitWebsites(v) },
	21: func(c *domain.ReviewContent, v string) { c.Miscellaneous.Recommendation = v },
}

// Matches "3rd year (...)" and the czech "3. ročník (...)" heading forms.
var yearOfStudyRe = regexp.MustCompile(`(\d+)(?:\.|st|nd|rd|th)?\s*(?:year|ročník)\s*\(`)

// ReviewContent parses one report detail page. Detail pages render in a single
// fixed language per id, so there is no bilingual pass here.
func (c *Client) ReviewContent(ctx context.Context, id int) (domain.ReviewContent, error) {
	doc, err := c.fetchDoc(ctx, c.detailURL(id), nil)
	if err != nil {
		return domain.ReviewContent{}, err
	}

	content := domain.ReviewContent{ID: id}

	if m := yearOfStudyRe.FindStringSubmatch(doc.Find(detailHeading).First().Text()); m != nil {
		content.Info.YearOfStudy = m[1]
	}

	doc.Find(detailGallery).Each(func(_ int, a *goquery.Selection) {
		full, ok := a.Attr("href")
		if !ok {
			return
		}
		thumb, _ := a.Find("img").First().Attr("src")
		content.Photos = append(content.Photos, domain.ReviewPhoto{
			ThumbnailURL: c.resolve(thumb),
			FullSizeURL:  c.resolve(full),
		})
	})

	info := doc.Find(detailInfoRows)
	if info.Length() < infoRowCount {
		return domain.ReviewContent{}, structuralf(pageDetail,
			"info table has %d rows, want at least %d", info.Length(), infoRowCount)
	}
	info.Each(func(i int, row *goquery.Selection) {
		if set, ok := infoRowDest[i]; ok {
			set(&content, cleanText(row.Find("td").Last().Text()))
		}
	})

	blocks := doc.Find(detailTextBlock)
	if blocks.Length() != bodyBlockCount {
		return domain.ReviewContent{}, structuralf(pageDetail,
			"found %d text blocks, want %d", blocks.Length(), bodyBlockCount)
	}
	blocks.Each(func(i int, block *goquery.Selection) {
		text := block.Text()
		if i != websitesBlock {
			text = cleanText(text)
		}
		bodyBlockDest[i](&content, text)
	})

	return content, nil
}

// splitWebsites breaks the "other websites" block into one entry per line.
func splitWebsites(v string) []string {
	var out []string
	for _, line := range strings.Split(v, "\n") {
		if line = cleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
