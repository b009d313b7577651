package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nokhba/academy-backend/internal/middleware"
	"github.com/nokhba/academy-backend/internal/response"
	"github.com/nokhba/academy-backend/internal/service"
	"github.com/nokhba/academy-backend/internal/validator"
)

// ChatHandler exposes the study assistant conversation.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest is the payload for a new assistant question.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,min=1,max=4000"`
}

// GetHistory godoc
// GET /api/v1/student/chat
// Returns the conversation so far, greeting first.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": messages})
}

// SendMessage godoc
// POST /api/v1/student/chat
// Forwards a question to the assistant and returns the reply.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req SendMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reply, err := h.chatService.Send(c.Request.Context(), claims.UserID, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrAssistantUnavailable) {
			response.Fail(c, http.StatusBadGateway, response.ErrAssistantUnavailable)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": reply})
}

// ClearHistory godoc
// DELETE /api/v1/student/chat
// Drops the conversation so the next visit starts fresh.
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.chatService.Clear(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
