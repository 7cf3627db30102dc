package domain

import "context"

// ReportSource is the outbound port to the report site. All methods fetch and
// parse live pages; none of them mutate shared state.
type ReportSource interface {
	// Taxonomy of the base listing page (country categories + fields).
	BaseCategories(ctx context.Context) (Categories, error)

	// Specializations of one field, in English-document anchor order.
	SpecializationsOfField(ctx context.Context, fieldID int) ([]Specialization, error)

	// FieldListing fetches one field's review entries and specializations
	// concurrently over a shared per-field page cache.
	FieldListing(ctx context.Context, fieldID int) (FieldListing, error)

	// Listing-table variants; row order is preserved.
	ReviewEntriesByCountry(ctx context.Context, countryID int) ([]ReviewEntry, error)
	ReviewEntriesByField(ctx context.Context, fieldID int) ([]ReviewEntry, error)
	ReviewEntriesBySpecialization(ctx context.Context, fieldID, specializationID int) ([]ReviewEntry, error)

	// Full detail page of one report.
	ReviewContent(ctx context.Context, id int) (ReviewContent, error)
}
