package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nokhba/academy-backend/internal/config"
	"github.com/nokhba/academy-backend/internal/model"
	"github.com/nokhba/academy-backend/internal/notify"
	"github.com/nokhba/academy-backend/internal/quiz"
	"github.com/nokhba/academy-backend/internal/repository"
	ws "github.com/nokhba/academy-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrLessonAlreadyPassed = errors.New("lesson quiz already passed")
	ErrNoActiveAttempt     = errors.New("no active attempt for this lesson")
	ErrAttemptExpired      = errors.New("attempt deadline has passed")
	ErrAnswersIncomplete   = errors.New("all questions must be answered before submitting")
	ErrQuestionOutOfRange  = errors.New("question index out of range")
)

// StartResponse is returned when a quiz attempt opens: the paper plus the
// server-side timer.
type StartResponse struct {
	Attempt model.QuizAttempt   `json:"attempt"`
	Payload model.LessonPayload `json:"payload"`
}

// QuizService drives the attempt lifecycle: start, autosave, restore,
// submit, abandon and the grading that follows.
type QuizService struct {
	attemptRepo   *repository.AttemptRepository
	progressRepo  *repository.ProgressRepository
	studentRepo   *repository.StudentRepository
	lessonService *LessonService
	rdb           *redis.Client
	cfg           *config.Config
	log           zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	studentRepo *repository.StudentRepository,
	lessonService *LessonService,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		attemptRepo:   attemptRepo,
		progressRepo:  progressRepo,
		studentRepo:   studentRepo,
		lessonService: lessonService,
		rdb:           rdb,
		cfg:           cfg,
		log:           log.With().Str("component", "quiz_service").Logger(),
	}
}

// Start opens a timed attempt. Starting is rejected once the lesson is
// passed; an already running attempt is returned as-is so a page reload
// never spawns a second timer.
func (s *QuizService) Start(ctx context.Context, studentID int, lessonID uuid.UUID) (*StartResponse, error) {
	progress, err := s.progressRepo.Get(ctx, studentID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if progress.Passed() {
		return nil, ErrLessonAlreadyPassed
	}

	payload, err := s.lessonService.GetLessonPayload(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	attempt := &model.QuizAttempt{
		LessonID:  lessonID,
		StudentID: studentID,
		StartedAt: now,
		Deadline:  now.Add(time.Duration(payload.DurationMinutes) * time.Minute),
		Status:    model.AttemptStatusActive,
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		if errors.Is(err, repository.ErrAttemptActive) {
			// IDEMPOTENCY: a reload or second device resumes the running timer.
			existing, gerr := s.attemptRepo.GetActive(ctx, studentID, lessonID)
			if gerr != nil || existing == nil {
				return nil, fmt.Errorf("resume active attempt: %w", gerr)
			}
			attempt = existing
		} else {
			return nil, fmt.Errorf("create attempt: %w", err)
		}
	}

	// Seed the autosave hash and the deadline fast path. The TTL outlives
	// the deadline by a margin so the sweeper can still read answers.
	answersKey := config.CacheKey.AttemptAnswersKey(studentID, lessonID.String())
	deadlineKey := config.CacheKey.AttemptDeadlineKey(studentID, lessonID.String())
	ttl := time.Until(attempt.Deadline) + 10*time.Minute

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, deadlineKey, attempt.Deadline.Unix(), ttl)
	pipe.Expire(ctx, answersKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("lesson_id", lessonID.String()).Msg("Failed to seed attempt cache")
	}

	s.log.Info().
		Int("student_id", studentID).
		Str("lesson_id", lessonID.String()).
		Time("deadline", attempt.Deadline).
		Msg("Attempt started")

	return &StartResponse{Attempt: *attempt, Payload: *payload}, nil
}

// SelectAnswer autosaves one option selection on the active attempt.
// Selections land in a Redis hash; nothing is graded until submission.
func (s *QuizService) SelectAnswer(ctx context.Context, studentID int, lessonID uuid.UUID, questionIndex, optionIndex int) error {
	attempt, err := s.attemptRepo.GetActive(ctx, studentID, lessonID)
	if err != nil {
		return fmt.Errorf("get attempt: %w", err)
	}
	if attempt == nil {
		return ErrNoActiveAttempt
	}
	if time.Now().After(attempt.Deadline) {
		return ErrAttemptExpired
	}

	payload, err := s.lessonService.GetLessonPayload(ctx, lessonID)
	if err != nil {
		return err
	}
	if questionIndex < 0 || questionIndex >= len(payload.Questions) {
		return ErrQuestionOutOfRange
	}
	if optionIndex < 0 || optionIndex >= model.OptionCount {
		return quiz.ErrOptionOutOfRange
	}

	answersKey := config.CacheKey.AttemptAnswersKey(studentID, lessonID.String())
	return s.rdb.HSet(ctx, answersKey, strconv.Itoa(questionIndex), optionIndex).Err()
}

// State restores the running attempt after a page reload: the saved answers
// and the remaining seconds computed from the server-side deadline.
func (s *QuizService) State(ctx context.Context, studentID int, lessonID uuid.UUID) (*model.QuizStateResponse, error) {
	payload, err := s.lessonService.GetLessonPayload(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	deadline, err := s.getDeadline(ctx, studentID, lessonID)
	if err != nil {
		return nil, err
	}

	answers, err := s.loadAnswers(ctx, studentID, lessonID, len(payload.Questions))
	if err != nil {
		return nil, err
	}

	remaining := time.Until(deadline)
	if remaining < 0 {
		remaining = 0
	}

	return &model.QuizStateResponse{
		LessonID:         lessonID,
		Answers:          answers,
		RemainingSeconds: int(remaining.Seconds()),
		Complete:         answers.Complete(),
	}, nil
}

// Submit grades the active attempt from its autosaved answers. Manual
// submission requires every question answered; the conditional status
// transition in the repository keeps grading exactly-once even when the
// sweeper fires at the same moment.
func (s *QuizService) Submit(ctx context.Context, studentID int, lessonID uuid.UUID) (*model.SubmitResultResponse, error) {
	attempt, err := s.attemptRepo.GetActive(ctx, studentID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt == nil {
		return nil, ErrNoActiveAttempt
	}

	payload, err := s.lessonService.GetLessonPayload(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	answers, err := s.loadAnswers(ctx, studentID, lessonID, len(payload.Questions))
	if err != nil {
		return nil, err
	}
	// Past the deadline the completeness gate is waived: grade whatever was
	// autosaved, exactly as the sweeper would.
	if !answers.Complete() && time.Now().Before(attempt.Deadline) {
		return nil, ErrAnswersIncomplete
	}

	return s.finalize(ctx, attempt, answers)
}

// SubmitExpired grades a timed-out attempt with whatever was autosaved.
// Called by the sweeper; unanswered questions score as wrong.
func (s *QuizService) SubmitExpired(ctx context.Context, attempt *model.QuizAttempt) (*model.SubmitResultResponse, error) {
	payload, err := s.lessonService.GetLessonPayload(ctx, attempt.LessonID)
	if err != nil {
		return nil, err
	}

	answers, err := s.loadAnswers(ctx, attempt.StudentID, attempt.LessonID, len(payload.Questions))
	if err != nil {
		return nil, err
	}

	return s.finalize(ctx, attempt, answers)
}

// Abandon discards the active attempt without grading.
func (s *QuizService) Abandon(ctx context.Context, studentID int, lessonID uuid.UUID) error {
	attempt, err := s.attemptRepo.GetActive(ctx, studentID, lessonID)
	if err != nil {
		return fmt.Errorf("get attempt: %w", err)
	}
	if attempt == nil {
		return ErrNoActiveAttempt
	}

	if err := s.attemptRepo.Claim(ctx, attempt.ID, model.AttemptStatusAbandoned); err != nil {
		return err
	}
	s.clearAttemptCache(ctx, studentID, lessonID)

	s.log.Info().
		Int("student_id", studentID).
		Str("lesson_id", lessonID.String()).
		Msg("Attempt abandoned")
	return nil
}

// finalize grades the attempt, then claims it and records the verdict in one
// transaction, and builds the guardian hand-off on failure. Everything that
// can fail runs before the claim, so an error here leaves the attempt ACTIVE
// and the sweeper retries it.
func (s *QuizService) finalize(ctx context.Context, attempt *model.QuizAttempt, answers quiz.AnswerSet) (*model.SubmitResultResponse, error) {
	answerKey, err := s.lessonService.GetAnswerKey(ctx, attempt.LessonID)
	if err != nil {
		return nil, err
	}

	result := quiz.Grade(answerKey, answers)

	status := model.ProgressStatusFail
	if result.Passed {
		status = model.ProgressStatusPass
	}
	progress := &model.Progress{
		StudentID: attempt.StudentID,
		LessonID:  attempt.LessonID,
		Status:    status,
		Score:     result.Score,
		Total:     result.Total,
	}
	if err := s.attemptRepo.ClaimAndRecord(ctx, attempt.ID, model.AttemptStatusSubmitted, progress); err != nil {
		if errors.Is(err, repository.ErrAttemptClaimed) {
			return nil, err
		}
		return nil, fmt.Errorf("record verdict: %w", err)
	}

	s.clearAttemptCache(ctx, attempt.StudentID, attempt.LessonID)
	s.publishProgress(ctx, attempt.StudentID, progress)

	resp := &model.SubmitResultResponse{
		Score:  result.Score,
		Total:  result.Total,
		Passed: result.Passed,
	}

	if !result.Passed {
		student, err := s.studentRepo.GetByID(ctx, attempt.StudentID)
		if err != nil {
			s.log.Warn().Err(err).Int("student_id", attempt.StudentID).Msg("Guardian link skipped, student lookup failed")
		} else {
			lesson, err := s.lessonService.GetByID(ctx, attempt.LessonID)
			if err != nil {
				s.log.Warn().Err(err).Str("lesson_id", attempt.LessonID.String()).Msg("Guardian link skipped, lesson lookup failed")
			} else {
				resp.GuardianLink = notify.GuardianLink(false, student.ParentPhone, s.cfg.GuardianPhonePrefix, notify.FailureReport{
					StudentName: student.Name,
					LessonTitle: lesson.Title,
					Score:       result.Score,
					Total:       result.Total,
				})
			}
		}
	}

	s.log.Info().
		Int("student_id", attempt.StudentID).
		Str("lesson_id", attempt.LessonID.String()).
		Int("score", result.Score).
		Int("total", result.Total).
		Bool("passed", result.Passed).
		Msg("Attempt graded")

	return resp, nil
}

// getDeadline reads the attempt deadline from Redis, falling back to
// PostgreSQL with a self-heal write on a cache miss.
func (s *QuizService) getDeadline(ctx context.Context, studentID int, lessonID uuid.UUID) (time.Time, error) {
	deadlineKey := config.CacheKey.AttemptDeadlineKey(studentID, lessonID.String())

	val, err := s.rdb.Get(ctx, deadlineKey).Result()
	if err == nil {
		unix, perr := strconv.ParseInt(val, 10, 64)
		if perr != nil {
			return time.Time{}, fmt.Errorf("invalid deadline format in cache: %w", perr)
		}
		return time.Unix(unix, 0), nil
	}
	if !errors.Is(err, redis.Nil) {
		return time.Time{}, fmt.Errorf("redis error getting deadline: %w", err)
	}

	// Cache miss: PostgreSQL is the source of truth.
	attempt, dbErr := s.attemptRepo.GetActive(ctx, studentID, lessonID)
	if dbErr != nil {
		return time.Time{}, fmt.Errorf("get attempt: %w", dbErr)
	}
	if attempt == nil {
		return time.Time{}, ErrNoActiveAttempt
	}

	// Self-heal so the next request is fast.
	_ = s.rdb.Set(ctx, deadlineKey, attempt.Deadline.Unix(), time.Until(attempt.Deadline)+10*time.Minute)

	return attempt.Deadline, nil
}

// loadAnswers builds a full answer set from the autosave hash, with the
// unanswered sentinel in every slot the hash does not cover.
func (s *QuizService) loadAnswers(ctx context.Context, studentID int, lessonID uuid.UUID, questionCount int) (quiz.AnswerSet, error) {
	answersKey := config.CacheKey.AttemptAnswersKey(studentID, lessonID.String())
	saved, err := s.rdb.HGetAll(ctx, answersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("get saved answers: %w", err)
	}

	answers := quiz.NewAnswerSet(questionCount)
	for field, val := range saved {
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 0 || idx >= questionCount {
			continue
		}
		opt, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		answers[idx] = opt
	}
	return answers, nil
}

func (s *QuizService) clearAttemptCache(ctx context.Context, studentID int, lessonID uuid.UUID) {
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.AttemptAnswersKey(studentID, lessonID.String()))
	pipe.Del(ctx, config.CacheKey.AttemptDeadlineKey(studentID, lessonID.String()))
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to clear attempt cache")
	}
}

// publishProgress pushes the graded verdict onto the student's event channel
// for any connected WebSocket stream. Best effort.
func (s *QuizService) publishProgress(ctx context.Context, studentID int, p *model.Progress) {
	event := ws.ProgressEvent{
		Event:    ws.EventProgress,
		LessonID: p.LessonID.String(),
		Status:   string(p.Status),
		Score:    p.Score,
		Total:    p.Total,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.StudentEventsChannel(studentID), data).Err(); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to publish progress event")
	}
}
