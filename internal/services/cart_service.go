// Package services – CartService
//
// Server-side cart validation. The client cart is advisory; this service
// re-resolves every item against the live store, recomputes line prices from
// stored values, and rejects items that disappeared or changed availability
// since the client last looked.
package services

import (
	"context"
	"math"

	"golang.org/x/text/currency"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
)

const (
	// taxRate is the flat sales tax applied to the merchandise subtotal.
	taxRate = 0.085

	// shippingFlat is charged per order below the free-shipping threshold.
	shippingFlat          = 5.99
	freeShippingThreshold = 50.0
)

// CartItem is one client-submitted cart line.
type CartItem struct {
	ListingID string `json:"listing_id"`
	Quantity  int    `json:"quantity"`
}

// CartLine is one validated line with the server-resolved listing data.
type CartLine struct {
	ListingID string  `json:"listing_id"`
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Condition string  `json:"condition"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	ImageURI  string  `json:"image_uri,omitempty"`
}

// CartProblem reports one rejected item and why.
type CartProblem struct {
	ListingID string `json:"listing_id"`
	Reason    string `json:"reason"`
}

// CartSummary is the full validation response: the priced lines, the items
// that failed, and the order totals. Valid is false whenever any item failed.
type CartSummary struct {
	Valid    bool          `json:"valid"`
	Lines    []CartLine    `json:"lines"`
	Problems []CartProblem `json:"problems"`

	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// listingResolver is the slice of InventoryService the cart needs.
type listingResolver interface {
	GetByListingID(ctx context.Context, listingID string) (*domain.Listing, error)
}

// CartService validates carts against current inventory.
type CartService struct {
	Inventory listingResolver
}

// NewCartService constructs a CartService over the given inventory reader.
func NewCartService(inv listingResolver) *CartService {
	return &CartService{Inventory: inv}
}

// Validate re-prices the submitted cart from the store. Malformed input
// (empty cart, non-positive quantity) returns an error; items that are
// merely gone or delisted come back in Problems with Valid=false so the
// storefront can show which lines to drop.
func (s *CartService) Validate(ctx context.Context, items []CartItem) (*CartSummary, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	sum := &CartSummary{
		Lines:    []CartLine{},
		Problems: []CartProblem{},
	}

	for _, it := range items {
		l, err := s.Inventory.GetByListingID(ctx, it.ListingID)
		if err != nil {
			sum.Problems = append(sum.Problems, CartProblem{
				ListingID: it.ListingID,
				Reason:    ErrItemUnavailable.Error(),
			})
			continue
		}
		if it.Quantity > l.Quantity {
			sum.Problems = append(sum.Problems, CartProblem{
				ListingID: it.ListingID,
				Reason:    "requested quantity exceeds stock",
			})
			continue
		}

		line := CartLine{
			ListingID: l.ListingID,
			Title:     l.ReleaseTitle,
			Artist:    l.PrimaryArtist,
			Condition: l.MediaCondition,
			UnitPrice: l.PriceValue,
			Currency:  normalizeCurrency(l.PriceCurrency),
			Quantity:  it.Quantity,
			LineTotal: round2(l.PriceValue * float64(it.Quantity)),
			ImageURI:  l.ImageURI,
		}
		sum.Lines = append(sum.Lines, line)
		sum.Subtotal += line.LineTotal
		if sum.Currency == "" {
			sum.Currency = line.Currency
		}
	}

	sum.Subtotal = round2(sum.Subtotal)
	sum.Tax = round2(sum.Subtotal * taxRate)
	if len(sum.Lines) > 0 && sum.Subtotal < freeShippingThreshold {
		sum.Shipping = shippingFlat
	}
	sum.Total = round2(sum.Subtotal + sum.Tax + sum.Shipping)
	sum.Valid = len(sum.Problems) == 0 && len(sum.Lines) > 0
	return sum, nil
}

// normalizeCurrency validates an ISO 4217 code and falls back to USD for
// anything the store carries that does not parse.
func normalizeCurrency(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "USD"
	}
	return unit.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
