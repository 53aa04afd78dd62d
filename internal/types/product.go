package types

import (
	"fmt"
	"net/url"
)

// Sentinel values used in place of fields that could not be extracted.
// Callers can rely on every ProductRecord field being populated with
// either real data or one of these.
const (
	NotAvailable    = "Not available"
	UnknownProduct  = "Unknown Product"
	CategoryOther   = "Other"
	CategoryUnknown = "Unknown"
)

// ProductRecord is the canonical output of a product extraction.
// Every field is always present: absence is represented by a sentinel
// string, an empty slice, or the "Other"/"Unknown" category markers,
// never by nil or a missing key.
type ProductRecord struct {
	Title          string   `json:"title" bson:"title"`
	Price          string   `json:"price" bson:"price"`
	Description    string   `json:"description" bson:"description"`
	Images         []string `json:"images" bson:"images"`
	Rating         string   `json:"rating" bson:"rating"`
	Reviews        []string `json:"reviews" bson:"reviews"`
	Specifications any      `json:"specifications" bson:"specifications"`
	Features       []string `json:"features" bson:"features"`
	SourceURL      string   `json:"sourceUrl" bson:"sourceUrl"`
	Platform       string   `json:"platform" bson:"platform"`
	Category       string   `json:"category" bson:"category"`
}

// Normalize fills every unset field of the record with its sentinel so
// the full schema is always present. It is applied once at the
// extraction boundary; extractors may leave fields empty internally.
func (p *ProductRecord) Normalize(sourceURL string) {
	if p.Title == "" {
		p.Title = UnknownProduct
	}
	if p.Price == "" {
		p.Price = NotAvailable
	}
	if p.Description == "" {
		p.Description = NotAvailable
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Rating == "" {
		p.Rating = NotAvailable
	}
	if p.Reviews == nil {
		p.Reviews = []string{}
	}
	if p.Specifications == nil || p.Specifications == "" {
		p.Specifications = NotAvailable
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.SourceURL == "" {
		p.SourceURL = sourceURL
	}
	if p.Platform == "" {
		p.Platform = Hostname(sourceURL)
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
}

// DegradedRecord builds the all-defaults record returned when every
// strategy failed or something threw upstream. The description embeds
// the error so callers can surface what went wrong; platform and
// source URL are derived from the input URL alone.
func DegradedRecord(sourceURL string, cause error) *ProductRecord {
	desc := "Failed to scrape product data"
	if cause != nil {
		desc = fmt.Sprintf("Failed to scrape product data: %v", cause)
	}
	return &ProductRecord{
		Title:          "Could not retrieve product data",
		Price:          NotAvailable,
		Description:    desc,
		Images:         []string{},
		Rating:         NotAvailable,
		Reviews:        []string{},
		Specifications: NotAvailable,
		Features:       []string{},
		SourceURL:      sourceURL,
		Platform:       Hostname(sourceURL),
		Category:       CategoryUnknown,
	}
}

// Hostname extracts the host part of a URL, falling back to the raw
// string when it does not parse. Never returns an empty string for a
// non-empty input.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}
