package app_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"intern_reports/internal/app"
	"intern_reports/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	cats           domain.Categories
	listings       map[int]domain.FieldListing
	countryEntries map[int][]domain.ReviewEntry
	contents       map[int]domain.ReviewContent
	contentErr     error
}

func (f *fakeSource) BaseCategories(ctx context.Context) (domain.Categories, error) {
	return f.cats, nil
}

func (f *fakeSource) FieldListing(ctx context.Context, fieldID int) (domain.FieldListing, error) {
	l, ok := f.listings[fieldID]
	if !ok {
		return domain.FieldListing{}, fmt.Errorf("no listing for field %d", fieldID)
	}
	return l, nil
}

func (f *fakeSource) SpecializationsOfField(ctx context.Context, fieldID int) ([]domain.Specialization, error) {
	return f.listings[fieldID].Specializations, nil
}

func (f *fakeSource) ReviewEntriesByCountry(ctx context.Context, countryID int) ([]domain.ReviewEntry, error) {
	return f.countryEntries[countryID], nil
}

func (f *fakeSource) ReviewEntriesByField(ctx context.Context, fieldID int) ([]domain.ReviewEntry, error) {
	return f.listings[fieldID].Entries, nil
}

func (f *fakeSource) ReviewEntriesBySpecialization(ctx context.Context, fieldID, specID int) ([]domain.ReviewEntry, error) {
	return nil, nil
}

func (f *fakeSource) ReviewContent(ctx context.Context, id int) (domain.ReviewContent, error) {
	if f.contentErr != nil {
		return domain.ReviewContent{}, f.contentErr
	}
	c, ok := f.contents[id]
	if !ok {
		return domain.ReviewContent{}, fmt.Errorf("no content for %d", id)
	}
	return c, nil
}

func testSource() *fakeSource {
	return &fakeSource{
		cats: domain.Categories{
			CountryCategories: []domain.CountryCategory{{
				Name: domain.LocalizedString{EN: "Europe", CS: "Evropa"},
				Countries: []domain.Country{
					{ID: 12, Name: domain.LocalizedString{EN: "Germany", CS: "Německo"}},
					{ID: 13, Name: domain.LocalizedString{EN: "Austria", CS: "Rakousko"}},
				},
			}},
			Fields: []domain.Field{
				{ID: 3, Name: domain.LocalizedString{EN: "Computer Science", CS: "Informatika"}},
				{ID: 7, Name: domain.LocalizedString{EN: "Civil Engineering", CS: "Stavebnictví"}},
			},
		},
		listings: map[int]domain.FieldListing{
			3: {
				Entries: []domain.ReviewEntry{
					{ID: 101, Location: domain.CountryAndCity("Germany", "Berlin")},
					{ID: 102, Location: domain.CountryAndCity("Austria", "Vienna")},
				},
				Specializations: []domain.Specialization{
					{ID: 1, FieldID: 3, Name: domain.LocalizedString{EN: "Informatics", CS: "Informatika"}},
				},
			},
			7: {
				Entries: []domain.ReviewEntry{
					{ID: 103, Location: domain.CountryAndCity("Germany", "Hamburg")},
				},
				Specializations: []domain.Specialization{
					{ID: 1, FieldID: 7, Name: domain.LocalizedString{EN: "Bridges", CS: "Mosty"}},
				},
			},
		},
		countryEntries: map[int][]domain.ReviewEntry{
			12: {
				{ID: 101, Year: 2019, Location: domain.CityOnly("Berlin"), ReviewLanguage: "en",
					Student: domain.StudentName{Name: "Petr", Surname: "Novak"}},
				{ID: 103, Year: 2021, Location: domain.CityOnly("Hamburg"), ReviewLanguage: "cs"},
			},
			13: {
				{ID: 102, Year: 2020, Location: domain.CityOnly("Vienna"), ReviewLanguage: "en"},
			},
		},
		contents: map[int]domain.ReviewContent{
			101: {ID: 101, SpecializationName: "Informatika", Info: domain.ReviewInfo{DurationWeeks: 8}},
			102: {ID: 102, SpecializationName: ""},
			103: {ID: 103, SpecializationName: "does not exist"},
		},
	}
}

// ---- tests ----

func TestDataDump_MergesAllAxes(t *testing.T) {
	agg := app.NewAggregator(testSource(), 4, 2, 4)

	dump, err := agg.DataDump(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if len(dump.Fields) != 2 || len(dump.CountryCategories) != 1 {
		t.Fatalf("taxonomy not carried through: %+v", dump)
	}
	if len(dump.Specializations) != 2 {
		t.Fatalf("expected specializations of every field, got %+v", dump.Specializations)
	}
	if len(dump.Reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(dump.Reviews))
	}

	// review order is completion order; index by id
	byID := map[int]domain.Review{}
	for _, r := range dump.Reviews {
		byID[r.ID] = r
	}

	r101 := byID[101]
	if r101.FieldID != 3 || r101.CountryID != 12 || r101.City != "Berlin" {
		t.Fatalf("bad resolution for 101: %+v", r101)
	}
	if r101.SpecializationID == nil || *r101.SpecializationID != 1 {
		t.Fatalf("specialization of 101 should resolve by name, got %+v", r101.SpecializationID)
	}
	if r101.Year != 2019 || r101.Student.Surname != "Novak" || r101.Info.DurationWeeks != 8 {
		t.Fatalf("entry/content fields lost in merge: %+v", r101)
	}

	if byID[102].SpecializationID != nil {
		t.Fatalf("empty specialization name must stay unresolved")
	}
	if byID[103].SpecializationID != nil {
		t.Fatalf("unknown specialization name must stay unresolved")
	}
	if byID[103].FieldID != 7 {
		t.Fatalf("field of 103 should come from field 7's listing, got %d", byID[103].FieldID)
	}
}

func TestDataDump_ReviewMissingFromFieldListings(t *testing.T) {
	src := testSource()
	src.countryEntries[12] = append(src.countryEntries[12],
		domain.ReviewEntry{ID: 999, Location: domain.CityOnly("Bremen")})
	src.contents[999] = domain.ReviewContent{ID: 999}
	agg := app.NewAggregator(src, 4, 2, 4)

	_, err := agg.DataDump(context.Background())
	if err == nil {
		t.Fatalf("a review absent from every field listing must fail the dump")
	}
}

func TestDataDump_ContentFailureIsTotal(t *testing.T) {
	src := testSource()
	src.contentErr = errors.New("remote 500")
	agg := app.NewAggregator(src, 4, 2, 4)

	dump, err := agg.DataDump(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if dump != nil {
		t.Fatalf("no partial dataset may be returned, got %+v", dump)
	}
}

func TestDataDump_SpecializationsAccumulateInFieldOrder(t *testing.T) {
	agg := app.NewAggregator(testSource(), 1, 1, 1)
	dump, err := agg.DataDump(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	ids := []int{}
	for _, s := range dump.Specializations {
		ids = append(ids, s.FieldID)
	}
	if !sort.IntsAreSorted(ids) {
		t.Fatalf("specializations must accumulate in field order, got %v", ids)
	}
}
