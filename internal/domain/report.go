package domain

// LocalizedString carries both renderings of a user-facing name. Either side may
// be empty when the source page lacked it, but the pair is always built together.
type LocalizedString struct {
	CS string `json:"cs"`
	EN string `json:"en"`
}

type Country struct {
	ID   int             `json:"id"`
	Name LocalizedString `json:"name"`
}

// CountryCategory groups countries under a heading of the base listing page.
// Member order reflects source page order.
type CountryCategory struct {
	Name      LocalizedString `json:"name"`
	Countries []Country       `json:"countries"`
}

type Field struct {
	ID   int             `json:"id"`
	Name LocalizedString `json:"name"`
}

// Specialization is scoped to its parent field; the id is only unique within
// that field's namespace.
type Specialization struct {
	ID      int             `json:"id"`
	FieldID int             `json:"fieldId"`
	Name    LocalizedString `json:"name"`
}

// Categories is the taxonomy of the base listing page.
type Categories struct {
	CountryCategories []CountryCategory `json:"countryCategories"`
	Fields            []Field           `json:"fields"`
}

// Location is what a listing's location column held. Country-scoped listings
// carry a bare city; field- and specialization-scoped listings carry
// "Country, City". The split is resolved where the row is parsed, never
// guessed downstream.
type Location struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city"`
}

func CityOnly(city string) Location { return Location{City: city} }

func CountryAndCity(country, city string) Location {
	return Location{Country: country, City: city}
}
