// Package domain defines the persistence models for the storefront: mirrored
// Discogs listings, HTTP access logs, and cached label overviews. These types
// are mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"
)

// Listing is one unit of sellable inventory mirrored from the Discogs
// marketplace. Rows are created the first time a listing_id is observed by a
// sync pass, mutated in place when the source representation changes, and
// soft-deleted (never hard-deleted) when the listing disappears from a
// complete source snapshot.
//
// Fields:
//   - ID: surrogate integer primary key for foreign-key use.
//   - ListingID: the Discogs listing identifier; the natural key, unique
//     across all rows ever created (active or soft-deleted), never reused.
//   - Fingerprint: SHA-256 digest of the mutable field set; equal
//     fingerprints mean a sync pass can skip the row without writing.
//   - IsActive / RemovedAt: soft-delete state. A later sync that sees the
//     same ListingID again reactivates the row instead of inserting.
//   - SoldAt: set by the out-of-band "mark as sold" admin action.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Listing struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Listing information
	ListingID       string     `json:"listing_id"       gorm:"type:varchar(50);not null;uniqueIndex"`
	Status          string     `json:"status"           gorm:"type:varchar(50);index"`
	MediaCondition  string     `json:"condition"        gorm:"column:condition;type:varchar(50)"`
	SleeveCondition string     `json:"sleeve_condition" gorm:"type:varchar(50)"`
	Posted          *time.Time `json:"posted"`
	URI             string     `json:"uri"              gorm:"type:varchar(255)"`
	ResourceURL     string     `json:"resource_url"     gorm:"type:varchar(255)"`

	// Price and shipping
	PriceValue       float64  `json:"price_value"       gorm:"not null;check:price_value >= 0"`
	PriceCurrency    string   `json:"price_currency"    gorm:"type:varchar(10)"`
	ShippingPrice    *float64 `json:"shipping_price"`
	ShippingCurrency string   `json:"shipping_currency" gorm:"type:varchar(10)"`

	// Additional listing details
	Quantity int    `json:"quantity" gorm:"not null;default:1;check:quantity >= 0"`
	Location string `json:"location" gorm:"type:varchar(255)"`
	Comments string `json:"comments" gorm:"type:text"`

	// Release information
	ReleaseID     string `json:"release_id"     gorm:"type:varchar(50);not null;index"`
	ReleaseTitle  string `json:"release_title"  gorm:"type:text"`
	ReleaseYear   int    `json:"release_year"   gorm:"index"`
	CatalogNumber string `json:"catalog_number" gorm:"type:varchar(100)"`
	Barcode       string `json:"barcode"        gorm:"type:varchar(100)"`

	// Artist / label / format (denormalized for search and display)
	ArtistNames   string `json:"artist_names"   gorm:"type:text"`
	PrimaryArtist string `json:"primary_artist" gorm:"type:varchar(255);index"`
	LabelNames    string `json:"label_names"    gorm:"type:varchar(500)"`
	PrimaryLabel  string `json:"primary_label"  gorm:"type:varchar(255)"`
	FormatNames   string `json:"format_names"   gorm:"type:varchar(255)"`
	PrimaryFormat string `json:"primary_format" gorm:"type:varchar(100)"`

	// Genre / style / country
	Genres  string `json:"genres"  gorm:"type:varchar(500)"`
	Styles  string `json:"styles"  gorm:"type:varchar(500)"`
	Country string `json:"country" gorm:"type:varchar(100)"`

	// Images
	ImageURI string `json:"image_uri" gorm:"type:varchar(500)"`

	// Community statistics
	CommunityHave *int `json:"release_community_have"`
	CommunityWant *int `json:"release_community_want"`

	// Sync bookkeeping
	Fingerprint string     `json:"-"          gorm:"type:char(64);index"`
	IsActive    bool       `json:"is_active"  gorm:"not null;default:true;index"`
	RemovedAt   *time.Time `json:"removed_at"`
	SoldAt      *time.Time `json:"sold_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Listing.
func (Listing) TableName() string { return "listings" }

// AccessLog records one served HTTP request. Rows are written by the
// access-log middleware after the response is flushed; a failed insert is
// logged and swallowed so request handling is never affected.
type AccessLog struct {
	ID             uint      `json:"id"              gorm:"primaryKey"`
	Timestamp      time.Time `json:"timestamp"       gorm:"not null;index"`
	Method         string    `json:"method"          gorm:"type:varchar(10);not null"`
	Path           string    `json:"path"            gorm:"type:varchar(500);not null;index"`
	QueryString    string    `json:"query_string"    gorm:"type:varchar(500)"`
	IPAddress      string    `json:"ip_address"      gorm:"type:varchar(50);index"`
	UserAgent      string    `json:"user_agent"      gorm:"type:varchar(500)"`
	Referrer       string    `json:"referrer"        gorm:"type:varchar(500)"`
	StatusCode     int       `json:"status_code"     gorm:"index"`
	ResponseTimeMS float64   `json:"response_time_ms"`
	RequestID      string    `json:"request_id"      gorm:"type:char(36)"`
}

// TableName returns the database table name for AccessLog.
func (AccessLog) TableName() string { return "access_logs" }

// LabelOverview caches an AI-generated paragraph about a record label so the
// text-generation API is hit at most once per label. Set CacheValid to false
// to force regeneration on the next request.
type LabelOverview struct {
	ID              uint      `json:"id"           gorm:"primaryKey"`
	LabelName       string    `json:"label_name"   gorm:"type:varchar(255);not null;uniqueIndex"`
	Overview        string    `json:"overview"     gorm:"type:text"`
	GeneratedBy     string    `json:"generated_by" gorm:"type:varchar(50)"`
	CacheValid      bool      `json:"-"            gorm:"not null;default:true"`
	GenerationError string    `json:"-"            gorm:"type:text"`
	GeneratedAt     time.Time `json:"generated_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for LabelOverview.
func (LabelOverview) TableName() string { return "label_overviews" }
