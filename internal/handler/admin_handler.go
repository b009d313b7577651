package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nokhba/academy-backend/internal/model"
	"github.com/nokhba/academy-backend/internal/response"
	"github.com/nokhba/academy-backend/internal/service"
	"github.com/nokhba/academy-backend/internal/validator"
)

// AdminHandler serves lesson authoring, code minting and the student roster.
type AdminHandler struct {
	lessonService  *service.LessonService
	walletService  *service.WalletService
	studentService *service.StudentService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	lessonService *service.LessonService,
	walletService *service.WalletService,
	studentService *service.StudentService,
) *AdminHandler {
	return &AdminHandler{
		lessonService:  lessonService,
		walletService:  walletService,
		studentService: studentService,
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return page, perPage
}

// CreateLesson godoc
// POST /api/v1/admin/lessons
// Authors a lesson with its quiz. Requires lessons:write.
func (h *AdminHandler) CreateLesson(c *gin.Context) {
	var req model.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lesson, err := h.lessonService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidYouTubeURL):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidYouTubeURL)
		case errors.Is(err, service.ErrInvalidCorrectIdx):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"lesson": lesson})
}

// ListLessons godoc
// GET /api/v1/admin/lessons
// Paginated lesson catalogue with an optional ?grade= filter.
func (h *AdminHandler) ListLessons(c *gin.Context) {
	page, perPage := pageParams(c)

	lessons, pagination, err := h.lessonService.ListPaginated(c.Request.Context(), c.Query("grade"), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"lessons": lessons}, pagination)
}

// DeleteLesson godoc
// DELETE /api/v1/admin/lessons/:lesson_id
// Removes a lesson and its cached quiz paper.
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	id, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.lessonService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// MintCode godoc
// POST /api/v1/admin/codes
// Generates a single-use recharge code. Requires codes:write.
func (h *AdminHandler) MintCode(c *gin.Context) {
	var req model.MintCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	code, err := h.walletService.MintCode(c.Request.Context(), req.Value)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"code": code})
}

// ListCodes godoc
// GET /api/v1/admin/codes
// Paginated code catalogue with an optional ?used=true|false filter.
func (h *AdminHandler) ListCodes(c *gin.Context) {
	page, perPage := pageParams(c)

	var used *bool
	if raw := c.Query("used"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		used = &val
	}

	codes, pagination, err := h.walletService.ListCodes(c.Request.Context(), used, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"codes": codes}, pagination)
}

// ListStudents godoc
// GET /api/v1/admin/students
// Paginated roster with an optional ?grade= filter. Requires students:read.
func (h *AdminHandler) ListStudents(c *gin.Context) {
	page, perPage := pageParams(c)

	students, pagination, err := h.studentService.List(c.Request.Context(), c.Query("grade"), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}
