// Package services defines the business logic for inventory, sync, label
// overviews, and cart validation. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Sync-related errors.
var (
	// ErrSyncInProgress is returned when a sync pass is requested while a
	// previous pass is still running. Overlapping passes are skipped, never
	// queued or run concurrently.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrSourceUnavailable indicates the external inventory source could not
	// be reached, authenticated, or fully paginated. The store is left
	// untouched; the next scheduled pass is the retry.
	ErrSourceUnavailable = errors.New("inventory source unavailable")

	// ErrPersistence indicates the sync transaction failed to commit. The
	// store reverts to its pre-pass state via rollback.
	ErrPersistence = errors.New("failed to persist sync results")
)

// Inventory-related errors.
var (
	// ErrListingNotFound indicates that the requested listing does not exist
	// or has been soft-deleted.
	ErrListingNotFound = errors.New("listing not found")
)

// Label-overview errors.
var (
	// ErrLabelNotFound indicates no overview row exists for the given label.
	ErrLabelNotFound = errors.New("label overview not found")
)

// Cart-related errors.
var (
	// ErrEmptyCart is returned when a cart validation request carries no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity is returned when a cart item's quantity is not a
	// positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrItemUnavailable is returned when a cart references a listing that is
	// no longer active in the store.
	ErrItemUnavailable = errors.New("item no longer available")
)
