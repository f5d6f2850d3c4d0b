package api

import (
	"net/http"

	"github.com/Domenick1991/sejour/internal/service/message"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service message.MessageUseCase
}

type sendMessageRequest struct {
	ToID int64  `json:"toId" binding:"required"`
	Body string `json:"body" binding:"required"`
}

func NewMessageHandler(service message.MessageUseCase) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Register(router *gin.RouterGroup, guards Guards) {
	router.POST("", guards.LoggedIn, h.send)
	router.GET("/:id", guards.LoggedIn, h.get)
	router.PATCH("/:id", guards.LoggedIn, h.markRead)
}

func (h *MessageHandler) send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg, err := h.service.Send(c.Request.Context(), message.SendInput{
		FromID: callerID(c),
		ToID:   req.ToID,
		Body:   req.Body,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *MessageHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	msg, err := h.service.Get(c.Request.Context(), id, callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *MessageHandler) markRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	msg, err := h.service.MarkRead(c.Request.Context(), id, callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
