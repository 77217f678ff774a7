package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"cartpricing/internal/cart"
)

// Deps carries the collaborators the routes need.
type Deps struct {
	Carts    *cart.Registry
	Products productCatalog

	// DefaultCurrency and DefaultLocale fill the pricing context when a
	// request names no axes.
	DefaultCurrency string
	DefaultLocale   string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &cartHandlers{deps: deps, logger: logger}
	carts := router.Group("/carts/:instance")
	{
		carts.GET("", h.getCart)
		carts.POST("/items", h.addItem)
		carts.PATCH("/items/:rowID", h.updateItem)
		carts.DELETE("/items/:rowID", h.removeItem)
	}

	p := &productHandlers{catalog: deps.Products, logger: logger}
	router.GET("/products", p.list)
	router.GET("/products/:id", p.get)

	return router
}
