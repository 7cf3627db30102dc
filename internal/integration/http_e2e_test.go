//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	server "intern_reports/internal/adapters/httpserver"
	"intern_reports/internal/adapters/reports"
	"intern_reports/internal/app"
	"intern_reports/internal/domain"
)

// End to end: a fixture rendering of the report site is scraped by the real
// client and aggregator, published to the snapshot, and served back over the
// real router.

const fixtureListEN = `
<table><tr><td>
  <h2>Europe</h2>
  <a href="?page=student_report_country&country=12">Germany</a>
</td></tr></table>
<table><tr><td>
  <a href="?page=student_report_country&faculty=3">Computer Science</a>
</td></tr></table>`

const fixtureListCS = `
<table><tr><td>
  <h2>Evropa</h2>
  <a href="?page=student_report_country&country=12">Německo</a>
</td></tr></table>
<table><tr><td>
  <a href="?page=student_report_country&faculty=3">Informatika</a>
</td></tr></table>`

const fixtureHeader = `<tr><th>Year</th><th>Location</th><th>Student</th><th>University</th><th>Specialization</th></tr>`

const fixtureFieldRowEN = `<tr><td>2019</td><td>Germany, Berlin</td><td><a href="?page=student_report&id=101">Novak, Petr</a></td><td>TU Berlin</td><td>Informatics</td></tr>`
const fixtureCountryRowEN = `<tr><td>2019</td><td>Berlin</td><td><a href="?page=student_report&id=101">Novak, Petr</a></td><td>TU Berlin</td><td>Informatics</td></tr>`
const fixtureCountryRowCS = `<tr><td>2019</td><td>Berlín</td><td><a href="?page=student_report&id=101">Novak, Petr</a></td><td>TU Berlín</td><td>Informatika</td></tr>`

const fixtureSpecAnchorsEN = `<a href="?page=student_report_country&faculty=3&specialization=1">Informatics</a>`
const fixtureSpecAnchorsCS = `<a href="?page=student_report_country&faculty=3&specialization=1">Informatika</a>`

func fixtureDetail() string {
	page := `<h1>Novak Petr, 3rd year (2019)</h1><div class="gallery"></div><table class="report-info">`
	values := []string{
		"FIT", "Software Engineering", "Computer Science", "Informatics",
		"July - August 2019", "8", "plane", "ERV", "not needed", "0",
		"-", "-", "CZ-2019-123",
	}
	for _, v := range values {
		page += "<tr><td>label</td><td>" + v + "</td></tr>"
	}
	page += "</table>"
	for i := 0; i < 22; i++ {
		page += `<div class="report-text">text</div>`
	}
	return page
}

func fixtureSite() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var body string
		switch {
		case q.Get("page") == "student_report_list" && q.Get("lang") == "en_us":
			body = fixtureListEN
		case q.Get("page") == "student_report_list" && q.Get("lang") == "cs_cz":
			body = fixtureListCS
		case q.Get("page") == "student_report_country" && q.Get("country") == "12" && q.Get("lang") == "en_us":
			body = "<table>" + fixtureHeader + fixtureCountryRowEN + "</table>"
		case q.Get("page") == "student_report_country" && q.Get("country") == "12" && q.Get("lang") == "cs_cz":
			body = "<table>" + fixtureHeader + fixtureCountryRowCS + "</table>"
		case q.Get("page") == "student_report_country" && q.Get("faculty") == "3" && q.Get("lang") == "en_us":
			body = "<table>" + fixtureHeader + fixtureFieldRowEN + "</table>" + fixtureSpecAnchorsEN
		case q.Get("page") == "student_report_country" && q.Get("faculty") == "3" && q.Get("lang") == "cs_cz":
			body = "<table>" + fixtureHeader + fixtureFieldRowEN + "</table>" + fixtureSpecAnchorsCS
		case q.Get("page") == "student_report" && q.Get("id") == "101":
			body = fixtureDetail()
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})
}

func TestScrapeAndServe(t *testing.T) {
	site := httptest.NewServer(fixtureSite())
	defer site.Close()

	client, err := reports.New(site.URL, reports.Options{
		RPS:        1000,
		RetryDelay: func(int) time.Duration { return 0 },
	})
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	snap := app.NewSnapshot()
	agg := app.NewAggregator(client, 4, 2, 4)
	refresher := app.NewRefresher(agg, snap, time.Hour)

	if err := refresher.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("startup scrape: %v", err)
	}

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Snap: snap})
	api := httptest.NewServer(srv.Mux())
	defer api.Close()

	resp, err := http.Get(api.URL + "/v1/reviews")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var data domain.AllReviewData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(data.CountryCategories) != 1 || len(data.Fields) != 1 || len(data.Specializations) != 1 {
		t.Fatalf("unexpected taxonomy: %+v", data)
	}
	if len(data.Reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(data.Reviews))
	}
	r := data.Reviews[0]
	if r.ID != 101 || r.CountryID != 12 || r.FieldID != 3 || r.City != "Berlin" {
		t.Fatalf("bad review resolution: %+v", r)
	}
	if r.SpecializationID == nil || *r.SpecializationID != 1 {
		t.Fatalf("specialization should resolve from the detail page label: %+v", r.SpecializationID)
	}
	if r.University == nil || r.University.CS != "TU Berlín" {
		t.Fatalf("czech university should join by review id: %+v", r.University)
	}
	if r.Info.DurationWeeks != 8 || r.Info.ReferenceNumber != "CZ-2019-123" {
		t.Fatalf("detail info lost: %+v", r.Info)
	}
}
