package api

import (
	"net/http"

	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/service/message"
	"github.com/Domenick1991/sejour/internal/service/user"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users    user.UserUseCase
	messages message.MessageUseCase
}

func NewUserHandler(users user.UserUseCase, messages message.MessageUseCase) *UserHandler {
	return &UserHandler{users: users, messages: messages}
}

func (h *UserHandler) Register(router *gin.RouterGroup, guards Guards) {
	router.GET("/:id", guards.LoggedIn, h.get)
	router.GET("/:id/to", guards.CorrectUser, h.inbox)
	router.GET("/:id/from", guards.CorrectUser, h.outbox)
}

func (h *UserHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) inbox(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	msgs, err := h.messages.Inbox(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.UserMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *UserHandler) outbox(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	msgs, err := h.messages.Outbox(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.UserMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
