package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cartpricing/internal/domain"
)

// respondError maps domain errors to status codes, keeping the structured
// detail the error types carry.
func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	var dup domain.DuplicateItemError
	if errors.As(err, &dup) {
		body["rowId"] = dup.RowID
		c.JSON(http.StatusConflict, body)
		return
	}

	var max domain.MaxItemsExceededError
	if errors.As(err, &max) {
		body["count"] = max.Count
		body["max"] = max.Max
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	var unres domain.UnresolvablePriceError
	if errors.As(err, &unres) {
		body["rowId"] = unres.RowID
		body["buyableType"] = unres.BuyableType
		body["buyableId"] = unres.BuyableID
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, domain.ErrInvalidRowID), errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
