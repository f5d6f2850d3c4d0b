package api

import (
	"net/http"

	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/service/image"
	"github.com/Domenick1991/sejour/internal/upload"
	"github.com/gin-gonic/gin"
)

const multipartMemory = 32 << 20

type ImageHandler struct {
	service   image.ImageUseCase
	validator *upload.Validator
	maxBody   int64
}

type deleteImagesRequest struct {
	ImageKeys []string `json:"imageKeys" binding:"required"`
}

// NewImageHandler caps request bodies at maxFiles files of maxBytes each.
func NewImageHandler(service image.ImageUseCase, maxBytes int64, maxFiles int) *ImageHandler {
	return &ImageHandler{
		service:   service,
		validator: upload.NewValidator(maxBytes),
		maxBody:   maxBytes*int64(maxFiles) + 1<<20,
	}
}

func (h *ImageHandler) Register(router *gin.RouterGroup, guards Guards) {
	router.GET("/:id/images", h.list)
	router.POST("/:id/images", guards.PropertyOwner, h.upload)
	router.DELETE("/:id/images", guards.PropertyOwner, h.delete)
	router.PATCH("/:id/images/:imageId", guards.PropertyOwner, h.setCover)
}

func (h *ImageHandler) list(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	images, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if images == nil {
		images = []domain.Image{}
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *ImageHandler) upload(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	form, err := c.MultipartForm()
	if err != nil {
		bindError(c, err)
		return
	}

	headers := form.File["files"]
	files := make([]*upload.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			bindError(c, err)
			return
		}
		file, err := h.validator.Read(fh.Filename, f)
		f.Close()
		if err != nil {
			writeError(c, err)
			return
		}
		files = append(files, file)
	}

	result, err := h.service.Upload(c.Request.Context(), id, files)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusCreated
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

func (h *ImageHandler) setCover(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}
	img, err := h.service.SetCover(c.Request.Context(), id, imageID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": img})
}

func (h *ImageHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req deleteImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.Delete(c.Request.Context(), id, req.ImageKeys)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}
