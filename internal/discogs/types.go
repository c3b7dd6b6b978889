// Package discogs is the thin I/O adapter over the Discogs marketplace API.
// This file defines the wire types for seller inventory responses and the
// conversion from the nested API shape to the flat Listing model.
package discogs

import (
	"strconv"
	"strings"
	"time"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
)

// Price is a money amount as returned by the API.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Artist is one credited artist on a release.
type Artist struct {
	Name string `json:"name"`
}

// Label is one label credit on a release.
type Label struct {
	Name string `json:"name"`
}

// Format is one media format entry on a release.
type Format struct {
	Name string `json:"name"`
}

// Image is one release image; Type is "primary" or "secondary".
type Image struct {
	Type        string `json:"type"`
	URI         string `json:"uri"`
	ResourceURL string `json:"resource_url"`
}

// Community carries release popularity counters.
type Community struct {
	Have int `json:"have"`
	Want int `json:"want"`
}

// ReleaseStats wraps the community block.
type ReleaseStats struct {
	Community Community `json:"community"`
}

// Release is the nested release object inside a marketplace listing. Older
// API payloads carry a single "artist"/"label" string; newer ones carry
// "artists"/"labels" arrays. Both are accepted.
type Release struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Year          int          `json:"year"`
	Artist        string       `json:"artist"`
	Artists       []Artist     `json:"artists"`
	Label         string       `json:"label"`
	Labels        []Label      `json:"labels"`
	Formats       []Format     `json:"formats"`
	Genres        []string     `json:"genres"`
	Styles        []string     `json:"styles"`
	Country       string       `json:"country"`
	CatalogNumber string       `json:"catalog_number"`
	Barcode       string       `json:"barcode"`
	Images        []Image      `json:"images"`
	Stats         ReleaseStats `json:"stats"`
}

// RawListing is one marketplace listing exactly as fetched from the seller
// inventory endpoint, before flattening.
type RawListing struct {
	ID              int64   `json:"id"`
	Status          string  `json:"status"`
	Condition       string  `json:"condition"`
	SleeveCondition string  `json:"sleeve_condition"`
	Posted          string  `json:"posted"`
	URI             string  `json:"uri"`
	ResourceURL     string  `json:"resource_url"`
	Price           Price   `json:"price"`
	ShippingPrice   *Price  `json:"shipping_price"`
	FormatQuantity  int     `json:"format_quantity"`
	Location        string  `json:"location"`
	Comments        string  `json:"comments"`
	Release         Release `json:"release"`
}

type pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Items int `json:"items"`
}

type inventoryPage struct {
	Pagination pagination   `json:"pagination"`
	Listings   []RawListing `json:"listings"`
}

// conditionNames maps the API's parenthesized grading strings to the display
// values stored locally.
var conditionNames = map[string]string{
	"Mint (M)":              "Mint",
	"Near Mint (NM or M-)":  "Near Mint",
	"Near Mint (NM)":        "Near Mint",
	"Very Good Plus (VG+)":  "Very Good +",
	"Very Good (VG)":        "Very Good",
	"Good Plus (G+)":        "Good +",
	"Good (G)":              "Good",
	"Fair (F)":              "Fair",
	"Poor (P)":              "Poor",
	"Generic":               "Generic",
	"Not Graded":            "Not Graded",
	"No Cover":              "No Cover",
}

// ConvertListing flattens a RawListing into the local Listing model and
// computes its content fingerprint. The returned value is unsaved; the sync
// pass decides whether it becomes an insert, an update, or a no-op.
func ConvertListing(raw RawListing) domain.Listing {
	rel := raw.Release

	l := domain.Listing{
		ListingID:       strconv.FormatInt(raw.ID, 10),
		Status:          raw.Status,
		MediaCondition:  mapCondition(raw.Condition),
		SleeveCondition: mapCondition(raw.SleeveCondition),
		Posted:          parseTime(raw.Posted),
		URI:             raw.URI,
		ResourceURL:     raw.ResourceURL,
		PriceValue:      nonNegative(raw.Price.Value),
		PriceCurrency:   raw.Price.Currency,
		Quantity:        quantityOrOne(raw.FormatQuantity),
		Location:        raw.Location,
		Comments:        raw.Comments,
		ReleaseID:       strconv.FormatInt(rel.ID, 10),
		ReleaseTitle:    rel.Title,
		ReleaseYear:     parseYear(rel.Year),
		CatalogNumber:   rel.CatalogNumber,
		Barcode:         rel.Barcode,
		Country:         rel.Country,
		Genres:          strings.Join(rel.Genres, "; "),
		Styles:          strings.Join(rel.Styles, "; "),
		ImageURI:        primaryImage(rel.Images),
	}

	l.ArtistNames, l.PrimaryArtist = joinCredits(rel.Artist, artistNames(rel.Artists))
	l.LabelNames, l.PrimaryLabel = joinCredits(rel.Label, labelNames(rel.Labels))
	l.FormatNames, l.PrimaryFormat = joinCredits("", formatNames(rel.Formats))

	if raw.ShippingPrice != nil {
		v := raw.ShippingPrice.Value
		l.ShippingPrice = &v
		l.ShippingCurrency = raw.ShippingPrice.Currency
	}
	if rel.Stats.Community.Have > 0 || rel.Stats.Community.Want > 0 {
		have, want := rel.Stats.Community.Have, rel.Stats.Community.Want
		l.CommunityHave = &have
		l.CommunityWant = &want
	}

	l.Fingerprint = l.ComputeFingerprint()
	return l
}

// mapCondition normalizes an API grading string; unknown values pass through
// unchanged so new gradings degrade gracefully instead of collapsing to a
// default.
func mapCondition(s string) string {
	if mapped, ok := conditionNames[s]; ok {
		return mapped
	}
	return s
}

// joinCredits picks between the legacy single-string credit and the list
// form, returning the joined display string and the primary (first) name.
func joinCredits(single string, names []string) (joined, primary string) {
	if single != "" {
		return single, single
	}
	if len(names) == 0 {
		return "", ""
	}
	return strings.Join(names, "; "), names[0]
}

func artistNames(as []Artist) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		if a.Name != "" {
			out = append(out, a.Name)
		}
	}
	return out
}

func labelNames(ls []Label) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		if l.Name != "" {
			out = append(out, l.Name)
		}
	}
	return out
}

func formatNames(fs []Format) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		if f.Name != "" {
			out = append(out, f.Name)
		}
	}
	return out
}

// primaryImage returns the URI of the image typed "primary", falling back to
// the first image when none is marked primary.
func primaryImage(imgs []Image) string {
	for _, img := range imgs {
		if img.Type == "primary" && img.URI != "" {
			return img.URI
		}
	}
	if len(imgs) > 0 {
		return imgs[0].URI
	}
	return ""
}

// parseTime accepts the API's RFC3339 posted timestamps and plain dates.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

// parseYear keeps years within a plausible pressing range; anything else is
// recorded as 0 (unknown).
func parseYear(y int) int {
	if y >= 1900 && y <= 2030 {
		return y
	}
	return 0
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func quantityOrOne(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
