// Cart HTTP handlers.
//
// POST /api/cart/validate re-resolves a client cart against the live store,
// reprices every line from stored values, and returns order totals. Carts are
// never persisted server-side; the storefront keeps cart state and calls this
// endpoint before checkout.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freakinbeats/go-vinyl-backend/internal/services"
)

// ValidateCartRequest is the JSON payload for cart validation.
type ValidateCartRequest struct {
	Items []services.CartItem `json:"items" binding:"required"`
}

// ValidateCart godoc
// @ID          validateCart
// @Summary     Validate a cart
// @Description Re-resolves every cart item against current inventory, reprices
// @Description lines from stored values, and computes subtotal, tax, shipping,
// @Description and total. Items that are gone or short-stocked are reported in
// @Description `problems` with `valid` set to false.
// @Tags        Cart
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ValidateCartRequest  true  "Cart contents"
//
// @Success     200  {object}  services.CartSummary
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed cart"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cart/validate [post]
func (h *Handlers) ValidateCart(c *gin.Context) {
	var req ValidateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sum, err := h.cartSvc.Validate(c.Request.Context(), req.Items)
	switch {
	case err == nil:
		ok(c, http.StatusOK, sum)
	case errors.Is(err, services.ErrEmptyCart):
		fail(c, http.StatusBadRequest, ErrCodeCartInvalid, "cart is empty")
	case errors.Is(err, services.ErrInvalidQuantity):
		fail(c, http.StatusBadRequest, ErrCodeCartInvalid, "quantity must be a positive integer")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
