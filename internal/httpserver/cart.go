package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"cartpricing/internal/cart"
	"cartpricing/internal/domain"
)

type cartHandlers struct {
	deps   Deps
	logger *log.Logger
}

type addItemInput struct {
	BuyableType string            `json:"buyableType"`
	BuyableID   string            `json:"buyableId" binding:"required"`
	Quantity    int               `json:"quantity"`
	Options     map[string]string `json:"options"`
}

type updateItemInput struct {
	Quantity int `json:"quantity"`
}

type lineItemView struct {
	RowID         string            `json:"rowId"`
	BuyableType   string            `json:"buyableType"`
	BuyableID     string            `json:"buyableId"`
	Quantity      int               `json:"quantity"`
	Options       map[string]string `json:"options,omitempty"`
	UnitPrice     int64             `json:"unitPriceCents"`
	OriginalPrice int64             `json:"originalPriceCents"`
	Subtotal      int64             `json:"subtotalCents"`
}

type cartView struct {
	Instance      string         `json:"instance"`
	Currency      string         `json:"currency"`
	Locale        string         `json:"locale"`
	Items         []lineItemView `json:"items"`
	TotalQuantity int            `json:"totalQuantity"`
	TotalCents    int64          `json:"totalCents"`
}

// pricingContext builds the context for this request from query params,
// falling back to the configured defaults.
func (h *cartHandlers) pricingContext(c *gin.Context) (domain.PricingContext, error) {
	currency := c.Query("currency")
	if currency == "" {
		currency = h.deps.DefaultCurrency
	}
	locale := c.Query("locale")
	if locale == "" {
		locale = h.deps.DefaultLocale
	}
	return domain.NewPricingContext(c.Query("customerId"), c.Param("instance"), currency, locale)
}

func (h *cartHandlers) instance(c *gin.Context) (*cart.Instance, bool) {
	pctx, err := h.pricingContext(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	inst, err := h.deps.Carts.Instance(c.Request.Context(), c.Param("instance"), pctx)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return inst, true
}

func (h *cartHandlers) getCart(c *gin.Context) {
	inst, ok := h.instance(c)
	if !ok {
		return
	}

	total, err := inst.Total(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	pctx := inst.PricingContext()
	view := cartView{
		Instance:      inst.Name(),
		Currency:      pctx.Currency,
		Locale:        pctx.Locale,
		Items:         make([]lineItemView, 0, inst.Len()),
		TotalQuantity: inst.TotalQuantity(),
		TotalCents:    total,
	}
	for _, item := range inst.Items() {
		view.Items = append(view.Items, lineItemView{
			RowID:         item.RowID(),
			BuyableType:   item.BuyableType,
			BuyableID:     item.BuyableID,
			Quantity:      item.Quantity,
			Options:       item.Options,
			UnitPrice:     item.UnitPrice(),
			OriginalPrice: item.OriginalPrice(),
			Subtotal:      item.Subtotal(),
		})
	}

	c.JSON(http.StatusOK, view)
}

func (h *cartHandlers) addItem(c *gin.Context) {
	var in addItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.BuyableType == "" {
		in.BuyableType = "product"
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	inst, ok := h.instance(c)
	if !ok {
		return
	}

	item, err := inst.Add(in.BuyableType, in.BuyableID, in.Quantity, in.Options)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.deps.Carts.Persist(c.Request.Context(), inst); err != nil {
		h.logger.Printf("cart %s: persist after add: %v", inst.Name(), err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"rowId":    item.RowID(),
		"quantity": item.Quantity,
	})
}

func (h *cartHandlers) updateItem(c *gin.Context) {
	var in updateItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, ok := h.instance(c)
	if !ok {
		return
	}

	if err := inst.UpdateQuantity(c.Param("rowID"), in.Quantity); err != nil {
		respondError(c, err)
		return
	}

	if err := h.deps.Carts.Persist(c.Request.Context(), inst); err != nil {
		h.logger.Printf("cart %s: persist after update: %v", inst.Name(), err)
	}

	c.Status(http.StatusNoContent)
}

func (h *cartHandlers) removeItem(c *gin.Context) {
	inst, ok := h.instance(c)
	if !ok {
		return
	}

	if err := inst.Remove(c.Param("rowID")); err != nil {
		respondError(c, err)
		return
	}

	if err := h.deps.Carts.Persist(c.Request.Context(), inst); err != nil {
		h.logger.Printf("cart %s: persist after remove: %v", inst.Name(), err)
	}

	c.Status(http.StatusNoContent)
}
