// Fingerprint and field-diff support for Listing.
//
// Both the content fingerprint and the field-level diff are driven by the same
// canonical, ordered mutable-field table, so the set of fields that makes two
// listings "equal" and the set of fields a diff can report can never drift
// apart. Identity (ListingID) and bookkeeping fields (IsActive, RemovedAt,
// timestamps) are deliberately excluded: a reactivation or a soft delete does
// not change content.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// FieldChange captures the before/after values of one listing field that
// differed between two representations of the same listing.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// mutableField pairs a stable field name with its canonical string encoding.
type mutableField struct {
	name  string
	value func(*Listing) string
}

// mutableFields is the canonical ordered field set hashed by Fingerprint and
// compared by DiffListings. Order matters for the digest; append only.
var mutableFields = []mutableField{
	{"status", func(l *Listing) string { return l.Status }},
	{"condition", func(l *Listing) string { return l.MediaCondition }},
	{"sleeve_condition", func(l *Listing) string { return l.SleeveCondition }},
	{"posted", func(l *Listing) string { return encTime(l.Posted) }},
	{"uri", func(l *Listing) string { return l.URI }},
	{"resource_url", func(l *Listing) string { return l.ResourceURL }},
	{"price_value", func(l *Listing) string { return encFloat(l.PriceValue) }},
	{"price_currency", func(l *Listing) string { return l.PriceCurrency }},
	{"shipping_price", func(l *Listing) string { return encFloatPtr(l.ShippingPrice) }},
	{"shipping_currency", func(l *Listing) string { return l.ShippingCurrency }},
	{"quantity", func(l *Listing) string { return strconv.Itoa(l.Quantity) }},
	{"location", func(l *Listing) string { return l.Location }},
	{"comments", func(l *Listing) string { return l.Comments }},
	{"release_id", func(l *Listing) string { return l.ReleaseID }},
	{"release_title", func(l *Listing) string { return l.ReleaseTitle }},
	{"release_year", func(l *Listing) string { return strconv.Itoa(l.ReleaseYear) }},
	{"catalog_number", func(l *Listing) string { return l.CatalogNumber }},
	{"barcode", func(l *Listing) string { return l.Barcode }},
	{"artist_names", func(l *Listing) string { return l.ArtistNames }},
	{"primary_artist", func(l *Listing) string { return l.PrimaryArtist }},
	{"label_names", func(l *Listing) string { return l.LabelNames }},
	{"primary_label", func(l *Listing) string { return l.PrimaryLabel }},
	{"format_names", func(l *Listing) string { return l.FormatNames }},
	{"primary_format", func(l *Listing) string { return l.PrimaryFormat }},
	{"genres", func(l *Listing) string { return l.Genres }},
	{"styles", func(l *Listing) string { return l.Styles }},
	{"country", func(l *Listing) string { return l.Country }},
	{"image_uri", func(l *Listing) string { return l.ImageURI }},
	{"release_community_have", func(l *Listing) string { return encIntPtr(l.CommunityHave) }},
	{"release_community_want", func(l *Listing) string { return encIntPtr(l.CommunityWant) }},
}

// ComputeFingerprint returns the hex-encoded SHA-256 digest of the listing's
// mutable fields. The encoding is deterministic: fields are hashed in the
// canonical order, each value terminated by a unit separator so that
// adjacent-field ambiguity ("ab"+"c" vs "a"+"bc") cannot occur.
func (l *Listing) ComputeFingerprint() string {
	h := sha256.New()
	for _, f := range mutableFields {
		h.Write([]byte(f.value(l)))
		h.Write([]byte{0x1f})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DiffListings compares two representations of the same listing field by
// field and returns a map of field name to (old, new) for every mutable field
// whose canonical encoding differs. An empty map means the listings are
// content-equal (and would produce identical fingerprints).
func DiffListings(prev, curr *Listing) map[string]FieldChange {
	changes := make(map[string]FieldChange)
	for _, f := range mutableFields {
		ov, nv := f.value(prev), f.value(curr)
		if ov != nv {
			changes[f.name] = FieldChange{Old: ov, New: nv}
		}
	}
	return changes
}

// CopyMutableFields overwrites dst's mutable fields with src's, leaving
// identity and bookkeeping fields (ID, ListingID, IsActive, RemovedAt, SoldAt,
// CreatedAt) untouched. Used by the sync pass to update a row in place.
func CopyMutableFields(dst, src *Listing) {
	dst.Status = src.Status
	dst.MediaCondition = src.MediaCondition
	dst.SleeveCondition = src.SleeveCondition
	dst.Posted = src.Posted
	dst.URI = src.URI
	dst.ResourceURL = src.ResourceURL
	dst.PriceValue = src.PriceValue
	dst.PriceCurrency = src.PriceCurrency
	dst.ShippingPrice = src.ShippingPrice
	dst.ShippingCurrency = src.ShippingCurrency
	dst.Quantity = src.Quantity
	dst.Location = src.Location
	dst.Comments = src.Comments
	dst.ReleaseID = src.ReleaseID
	dst.ReleaseTitle = src.ReleaseTitle
	dst.ReleaseYear = src.ReleaseYear
	dst.CatalogNumber = src.CatalogNumber
	dst.Barcode = src.Barcode
	dst.ArtistNames = src.ArtistNames
	dst.PrimaryArtist = src.PrimaryArtist
	dst.LabelNames = src.LabelNames
	dst.PrimaryLabel = src.PrimaryLabel
	dst.FormatNames = src.FormatNames
	dst.PrimaryFormat = src.PrimaryFormat
	dst.Genres = src.Genres
	dst.Styles = src.Styles
	dst.Country = src.Country
	dst.ImageURI = src.ImageURI
	dst.CommunityHave = src.CommunityHave
	dst.CommunityWant = src.CommunityWant
	dst.Fingerprint = src.Fingerprint
}

func encTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func encFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func encFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return encFloat(*f)
}

func encIntPtr(i *int) string {
	if i == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i)
}
