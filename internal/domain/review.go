package domain

type StudentName struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// ReviewEntry is the lightweight listing-page view of one report row.
type ReviewEntry struct {
	ID             int              `json:"id"`
	Year           int              `json:"year"`
	Location       Location         `json:"location"`
	ReviewLanguage string           `json:"reviewLanguage"` // "cs" | "en"
	Student        StudentName      `json:"student"`
	University     *LocalizedString `json:"university,omitempty"`
	ThumbnailURL   string           `json:"thumbnailUrl,omitempty"`
}

type ReviewPhoto struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	FullSizeURL  string `json:"fullSizeUrl"`
}

// ReviewInfo holds the structured metadata of a detail page's info table.
type ReviewInfo struct {
	Faculty         string `json:"faculty"`
	FieldOfStudy    string `json:"fieldOfStudy"`
	YearOfStudy     string `json:"yearOfStudy"`
	Period          string `json:"period"`
	DurationWeeks   int    `json:"durationWeeks"`
	Transport       string `json:"transport"`
	Insurance       string `json:"insurance"`
	Visa            string `json:"visa"`
	VisaPrice       string `json:"visaPrice"`
	ReferenceNumber string `json:"referenceNumber"`
}

type PlaceText struct {
	General       string `json:"general"`
	City          string `json:"city"`
	Accommodation string `json:"accommodation"`
	Food          string `json:"food"`
	Transport     string `json:"transport"`
	Tips          string `json:"tips"`
}

type WorkText struct {
	Employer    string `json:"employer"`
	Description string `json:"description"`
	Salary      string `json:"salary"`
	Language    string `json:"language"`
	Colleagues  string `json:"colleagues"`
	Tips        string `json:"tips"`
}

type SocialLifeText struct {
	IaesteMembers   string `json:"iaesteMembers"`
	ForeignStudents string `json:"foreignStudents"`
	SportAndCulture string `json:"sportAndCulture"`
	Trips           string `json:"trips"`
	Tips            string `json:"tips"`
}

type MiscText struct {
	VisaEmbassy       string `json:"visaEmbassy"`
	HealthInsurance   string `json:"healthInsurance"`
	Telecommunication string `json:"telecommunication"`
	Recommendation    string `json:"recommendation"`
}

// ReviewContent is the detail-page view of one report. FieldName and
// SpecializationName are the raw text labels of the info table, kept only for
// cross-referencing against the taxonomy; they do not survive into Review.
type ReviewContent struct {
	ID            int            `json:"id"`
	Info          ReviewInfo     `json:"info"`
	Photos        []ReviewPhoto  `json:"photos"`
	Place         PlaceText      `json:"place"`
	Work          WorkText       `json:"work"`
	SocialLife    SocialLifeText `json:"socialLife"`
	Miscellaneous MiscText       `json:"miscellaneous"`
	Websites      []string       `json:"websites"`

	FieldName          string `json:"-"`
	SpecializationName string `json:"-"`
}

// Review is the merged entry+content record with resolved taxonomy ids.
// FieldID always resolves (every review appears in its field's listing);
// SpecializationID is best-effort name matching and may be absent.
type Review struct {
	ID               int              `json:"id"`
	Year             int              `json:"year"`
	City             string           `json:"city"`
	CountryID        int              `json:"countryId"`
	ReviewLanguage   string           `json:"reviewLanguage"`
	Student          StudentName      `json:"student"`
	University       *LocalizedString `json:"university,omitempty"`
	ThumbnailURL     string           `json:"thumbnailUrl,omitempty"`
	FieldID          int              `json:"fieldId"`
	SpecializationID *int             `json:"specializationId,omitempty"`
	Info             ReviewInfo       `json:"info"`
	Photos           []ReviewPhoto    `json:"photos"`
	Place            PlaceText        `json:"place"`
	Work             WorkText         `json:"work"`
	SocialLife       SocialLifeText   `json:"socialLife"`
	Miscellaneous    MiscText         `json:"miscellaneous"`
	Websites         []string         `json:"websites"`
}

// AllReviewData is the whole exported dataset, rebuilt from scratch on every
// aggregation run and swapped in atomically. Reviews carry no cross-run
// identity and their order is not meaningful.
type AllReviewData struct {
	CountryCategories []CountryCategory `json:"countryCategories"`
	Fields            []Field           `json:"fields"`
	Specializations   []Specialization  `json:"specializations"`
	Reviews           []Review          `json:"reviews"`
}

// FieldListing pairs one field's review entries with its specializations,
// fetched together over a shared page cache.
type FieldListing struct {
	Entries         []ReviewEntry
	Specializations []Specialization
}
