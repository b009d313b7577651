package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nokhba/academy-backend/internal/middleware"
	"github.com/nokhba/academy-backend/internal/model"
	"github.com/nokhba/academy-backend/internal/quiz"
	"github.com/nokhba/academy-backend/internal/repository"
	"github.com/nokhba/academy-backend/internal/response"
	"github.com/nokhba/academy-backend/internal/service"
	"github.com/nokhba/academy-backend/internal/validator"
)

// QuizHandler drives the attempt lifecycle over HTTP.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func lessonIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// StartQuiz godoc
// POST /api/v1/student/lessons/:lesson_id/quiz/start
// Opens a timed attempt, or resumes the running one.
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	result, err := h.quizService.Start(c.Request.Context(), claims.UserID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonAlreadyPassed):
			response.Fail(c, http.StatusConflict, response.ErrLessonUnlocked)
		case errors.Is(err, service.ErrLessonNotCached):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetQuizState godoc
// GET /api/v1/student/lessons/:lesson_id/quiz/state
// Restores the in-flight attempt after a page reload.
func (h *QuizHandler) GetQuizState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	state, err := h.quizService.State(c.Request.Context(), claims.UserID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveAttempt):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveAttempt)
		case errors.Is(err, service.ErrLessonNotCached):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, state)
}

// SelectAnswer godoc
// PUT /api/v1/student/lessons/:lesson_id/quiz/answers
// Autosaves one option selection on the active attempt.
func (h *QuizHandler) SelectAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.quizService.SelectAnswer(c.Request.Context(), claims.UserID, lessonID, req.QuestionIndex, req.OptionIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveAttempt):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveAttempt)
		case errors.Is(err, service.ErrAttemptExpired):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrQuestionOutOfRange), errors.Is(err, quiz.ErrOptionOutOfRange):
			response.Fail(c, http.StatusBadRequest, response.ErrAnswerOutOfRange)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// SubmitQuiz godoc
// POST /api/v1/student/lessons/:lesson_id/quiz/submit
// Grades the attempt. All questions must be answered for a manual submit.
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	result, err := h.quizService.Submit(c.Request.Context(), claims.UserID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveAttempt):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveAttempt)
		case errors.Is(err, service.ErrAnswersIncomplete):
			response.Fail(c, http.StatusBadRequest, response.ErrAnswersIncomplete)
		case errors.Is(err, repository.ErrAttemptClaimed):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// AbandonQuiz godoc
// POST /api/v1/student/lessons/:lesson_id/quiz/abandon
// Discards the active attempt without grading.
func (h *QuizHandler) AbandonQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	err := h.quizService.Abandon(c.Request.Context(), claims.UserID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveAttempt):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveAttempt)
		case errors.Is(err, repository.ErrAttemptClaimed):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "abandoned"})
}
