package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nokhba/academy-backend/internal/middleware"
	"github.com/nokhba/academy-backend/internal/model"
	"github.com/nokhba/academy-backend/internal/repository"
	"github.com/nokhba/academy-backend/internal/response"
	"github.com/nokhba/academy-backend/internal/service"
	"github.com/nokhba/academy-backend/internal/validator"
)

// StudentPortalHandler serves the student-facing catalogue and wallet.
type StudentPortalHandler struct {
	lessonService *service.LessonService
	walletService *service.WalletService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	lessonService *service.LessonService,
	walletService *service.WalletService,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		lessonService: lessonService,
		walletService: walletService,
	}
}

// ListLessons godoc
// GET /api/v1/student/lessons
// Returns the gated catalogue for the student's grade and study type.
// Locked lessons carry no playable media reference.
func (h *StudentPortalHandler) ListLessons(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessons, err := h.lessonService.ListForStudent(c.Request.Context(), claims.UserID, claims.Grade, claims.StudyType)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if lessons == nil {
		lessons = []model.GatedLesson{}
	}

	response.Success(c, http.StatusOK, gin.H{"lessons": lessons})
}

// GetWallet godoc
// GET /api/v1/student/wallet
// Returns the student's current balance.
func (h *StudentPortalHandler) GetWallet(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	balance, err := h.walletService.GetBalance(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

// RedeemCode godoc
// POST /api/v1/student/wallet/redeem
// Consumes a recharge code and credits the wallet. Each code works once.
func (h *StudentPortalHandler) RedeemCode(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.RedeemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.walletService.Redeem(c.Request.Context(), claims.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCodeNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrCodeNotFound)
		case errors.Is(err, repository.ErrCodeAlreadyUsed):
			response.Fail(c, http.StatusConflict, response.ErrCodeAlreadyUsed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}
