package handlers

import (
	"context"

	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/services"
)

// SyncService defines the sync trigger consumed by the admin endpoints.
type SyncService interface {
	// Run executes one complete fetch-diff-commit pass.
	Run(ctx context.Context) (*services.SyncResult, error)
	// Running reports whether a pass is currently executing.
	Running() bool
}

// LabelService defines the label overview operations consumed by handlers.
type LabelService interface {
	// Overviews resolves a comma-separated label list into overview entries.
	Overviews(ctx context.Context, labels string) ([]services.LabelOverviewResult, error)
	// Invalidate marks a cached overview stale.
	Invalidate(ctx context.Context, label string) error
	// Enabled reports whether overview generation is configured.
	Enabled() bool
}

// CartService defines cart validation as consumed by handlers.
type CartService interface {
	Validate(ctx context.Context, items []services.CartItem) (*services.CartSummary, error)
}

// InventoryAdmin defines the out-of-band listing mutations exposed to the
// admin panel.
type InventoryAdmin interface {
	MarkSold(ctx context.Context, listingID string) error
	Restore(ctx context.Context, listingID string) error
}

// Handlers groups the HTTP endpoints for inventory, sync, labels, and cart.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic. The db handle serves the access-log reads,
// which have no service layer of their own.
type Handlers struct {
	invSvc   InventoryService
	syncSvc  SyncService
	labelSvc LabelService
	cartSvc  CartService
	adminSvc InventoryAdmin

	db *gorm.DB
}

// New constructs a Handlers instance bound to the given services.
func New(inv InventoryService, sync SyncService, label LabelService, cart CartService, admin InventoryAdmin, db *gorm.DB) *Handlers {
	return &Handlers{
		invSvc:   inv,
		syncSvc:  sync,
		labelSvc: label,
		cartSvc:  cart,
		adminSvc: admin,
		db:       db,
	}
}
