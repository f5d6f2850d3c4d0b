package api

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterConfig struct {
	CORSOrigins []string
	// SwaggerDir holds openapi.json; docs are not served when empty.
	SwaggerDir string
}

type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Properties *PropertyHandler
	Bookings   *BookingHandler
	Messages   *MessageHandler
	Images     *ImageHandler
}

func NewRouter(cfg RouterConfig, tokens TokenParser, owners OwnerLookup, h Handlers) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = multipartMemory
	r.Use(gin.Recovery(), Logger(), corsMiddleware(cfg.CORSOrigins), Authenticate(tokens))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerDir != "" {
		r.StaticFile("/swagger/doc.json", filepath.Join(cfg.SwaggerDir, "openapi.json"))
		r.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	guards := NewGuards(owners)
	properties := r.Group("/properties")
	h.Auth.Register(r.Group("/auth"))
	h.Users.Register(r.Group("/users"), guards)
	h.Properties.Register(properties, guards)
	h.Bookings.Register(properties, r.Group("/bookings"), guards)
	h.Messages.Register(r.Group("/messages"), guards)
	h.Images.Register(properties, guards)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
