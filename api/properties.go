package api

import (
	"net/http"

	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/service/property"
	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	service property.PropertyUseCase
}

type createPropertyRequest struct {
	Title       string `json:"title" binding:"required"`
	Street      string `json:"street" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Zipcode     string `json:"zipcode" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"min=0"`
}

type updatePropertyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"min=0"`
}

type searchQuery struct {
	MinPrice    *int64 `form:"minPrice"`
	MaxPrice    *int64 `form:"maxPrice"`
	Description string `form:"description"`
	Limit       int    `form:"limit"`
	Page        int    `form:"page"`
}

func NewPropertyHandler(service property.PropertyUseCase) *PropertyHandler {
	return &PropertyHandler{service: service}
}

func (h *PropertyHandler) Register(router *gin.RouterGroup, guards Guards) {
	router.GET("", h.search)
	router.POST("", guards.LoggedIn, h.create)
	router.GET("/:id", h.get)
	router.PATCH("/:id", guards.PropertyOwner, h.update)
	router.DELETE("/:id", guards.PropertyOwner, h.archive)
}

func (h *PropertyHandler) search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.service.Search(c.Request.Context(), domain.PropertyFilter{
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		Description: q.Description,
		Limit:       q.Limit,
		Page:        q.Page,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if page.Properties == nil {
		page.Properties = []domain.PropertySummary{}
	}
	c.JSON(http.StatusOK, page)
}

func (h *PropertyHandler) create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), property.CreatePropertyInput{
		Title:       req.Title,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		Zipcode:     req.Zipcode,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     callerID(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"property": p})
}

func (h *PropertyHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": p})
}

func (h *PropertyHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), domain.PropertyUpdate{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": p})
}

func (h *PropertyHandler) archive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Archive(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
