package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/nokhba/academy-backend/internal/config"
	"github.com/nokhba/academy-backend/internal/model"
	"github.com/nokhba/academy-backend/internal/repository"
	"github.com/nokhba/academy-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrInvalidYouTubeURL  = errors.New("url is not a recognizable youtube link")
	ErrInvalidCorrectIdx  = errors.New("correct index does not point at an option")
	ErrLessonNotCached    = errors.New("lesson payload not cached")
	ErrAnswerKeyNotCached = errors.New("answer key not found in cache")
)

// youtubeIDPattern matches the 11-character video ID in watch, share and
// embed style links.
var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/|shorts/)|youtu\.be/)([A-Za-z0-9_-]{11})`)

// ExtractYouTubeID pulls the video ID out of any supported YouTube URL form.
func ExtractYouTubeID(url string) (string, error) {
	m := youtubeIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", ErrInvalidYouTubeURL
	}
	return m[1], nil
}

// EmbedURL builds the privacy-friendly embed link for a video ID.
func EmbedURL(youtubeID string) string {
	return "https://www.youtube-nocookie.com/embed/" + youtubeID
}

// LessonService handles lesson authoring, the gated student catalogue and
// Redis caching of quiz papers.
type LessonService struct {
	lessonRepo   *repository.LessonRepository
	progressRepo *repository.ProgressRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewLessonService creates a new LessonService.
func NewLessonService(
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *LessonService {
	return &LessonService{
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "lesson_service").Logger(),
	}
}

// GetByID retrieves a lesson by its UUID.
func (s *LessonService) GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	return s.lessonRepo.GetByID(ctx, id)
}

// Create validates and stores an authored lesson, then warms its cache so
// students can start the quiz immediately.
func (s *LessonService) Create(ctx context.Context, req *model.CreateLessonRequest) (*model.Lesson, error) {
	youtubeID, err := ExtractYouTubeID(req.URL)
	if err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(req.Questions))
	for i, q := range req.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, ErrInvalidCorrectIdx
		}
		questions[i] = model.Question{
			Prompt:       q.Prompt,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		}
	}

	lesson := &model.Lesson{
		Title:           req.Title,
		URL:             req.URL,
		YouTubeID:       youtubeID,
		DurationMinutes: req.DurationMinutes,
		Grade:           req.Grade,
		StudyType:       req.StudyType,
		Questions:       questions,
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	if err := s.WarmLessonCache(ctx, lesson); err != nil {
		return nil, err
	}

	s.log.Info().Str("lesson_id", lesson.ID.String()).Str("title", lesson.Title).Msg("Lesson created")
	return lesson, nil
}

// WarmLessonCache loads a lesson's quiz paper and answer key from PostgreSQL
// into Redis. The paper omits correct answers; the key is a hash of question
// index to correct option for RAM grading.
func (s *LessonService) WarmLessonCache(ctx context.Context, lesson *model.Lesson) error {
	studentQuestions := make([]model.QuestionForStudent, len(lesson.Questions))
	answerKey := make(map[string]interface{}, len(lesson.Questions))
	for i, q := range lesson.Questions {
		studentQuestions[i] = model.QuestionForStudent{
			Prompt:  q.Prompt,
			Options: q.Options,
		}
		answerKey[strconv.Itoa(i)] = q.CorrectIndex
	}

	payload := model.LessonPayload{
		LessonID:        lesson.ID,
		Title:           lesson.Title,
		DurationMinutes: lesson.DurationMinutes,
		Questions:       studentQuestions,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	// Cache both atomically via pipeline.
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.LessonPayloadKey(lesson.ID.String()), payloadJSON, 0)
	pipe.Del(ctx, config.CacheKey.LessonAnswerKey(lesson.ID.String()))
	pipe.HSet(ctx, config.CacheKey.LessonAnswerKey(lesson.ID.String()), answerKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("lesson_id", lesson.ID.String()).
		Int("questions", len(lesson.Questions)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads every lesson into Redis on application startup so
// quiz starts never race a cold cache.
func (s *LessonService) PrewarmAllCaches(ctx context.Context) error {
	lessons, err := s.lessonRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}

	if len(lessons) == 0 {
		s.log.Info().Msg("No lessons to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(lessons)).Msg("Prewarming lessons...")

	warmed := 0
	for i := range lessons {
		if err := s.WarmLessonCache(ctx, &lessons[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("lesson_id", lessons[i].ID.String()).
				Msg("Failed to warm lesson, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(lessons)).
		Msg("Prewarming complete")
	return nil
}

// GetLessonPayload retrieves the cached quiz paper from Redis, falling back
// to PostgreSQL with a self-heal rewarm on a cache miss.
func (s *LessonService) GetLessonPayload(ctx context.Context, lessonID uuid.UUID) (*model.LessonPayload, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.LessonPayloadKey(lessonID.String())).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("get payload: %w", err)
		}
		lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
		if err != nil {
			return nil, ErrLessonNotCached
		}
		if err := s.WarmLessonCache(ctx, lesson); err != nil {
			s.log.Warn().Err(err).Str("lesson_id", lessonID.String()).Msg("Self-heal rewarm failed")
		}
		questions := make([]model.QuestionForStudent, len(lesson.Questions))
		for i, q := range lesson.Questions {
			questions[i] = model.QuestionForStudent{Prompt: q.Prompt, Options: q.Options}
		}
		return &model.LessonPayload{
			LessonID:        lesson.ID,
			Title:           lesson.Title,
			DurationMinutes: lesson.DurationMinutes,
			Questions:       questions,
		}, nil
	}

	var payload model.LessonPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &payload, nil
}

// GetAnswerKey retrieves the correct option per question index from Redis,
// falling back to PostgreSQL when the hash is missing.
func (s *LessonService) GetAnswerKey(ctx context.Context, lessonID uuid.UUID) ([]int, error) {
	result, err := s.rdb.HGetAll(ctx, config.CacheKey.LessonAnswerKey(lessonID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("get answer key: %w", err)
	}
	if len(result) == 0 {
		lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
		if err != nil {
			return nil, ErrAnswerKeyNotCached
		}
		if err := s.WarmLessonCache(ctx, lesson); err != nil {
			s.log.Warn().Err(err).Str("lesson_id", lessonID.String()).Msg("Self-heal rewarm failed")
		}
		key := make([]int, len(lesson.Questions))
		for i, q := range lesson.Questions {
			key[i] = q.CorrectIndex
		}
		return key, nil
	}

	key := make([]int, len(result))
	for field, val := range result {
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 0 || idx >= len(key) {
			return nil, fmt.Errorf("corrupt answer key field %q", field)
		}
		correct, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("corrupt answer key value %q", val)
		}
		key[idx] = correct
	}
	return key, nil
}

// ListForStudent returns the gated catalogue for one student: all lessons
// matching their grade and study type, with the playable media reference
// present only on lessons whose quiz they passed.
func (s *LessonService) ListForStudent(ctx context.Context, studentID int, grade model.Grade, studyType model.StudyType) ([]model.GatedLesson, error) {
	lessons, err := s.lessonRepo.ListByAudience(ctx, grade, studyType)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	progress, err := s.progressRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	gated := make([]model.GatedLesson, len(lessons))
	for i, l := range lessons {
		g := model.GatedLesson{
			ID:              l.ID,
			Title:           l.Title,
			DurationMinutes: l.DurationMinutes,
			Grade:           l.Grade,
			StudyType:       l.StudyType,
			QuestionCount:   len(l.Questions),
			Progress:        progress[l.ID],
			CreatedAt:       l.CreatedAt,
		}
		if progress[l.ID].Passed() {
			g.Unlocked = true
			g.YouTubeID = l.YouTubeID
			g.EmbedURL = EmbedURL(l.YouTubeID)
		}
		gated[i] = g
	}
	return gated, nil
}

// ListPaginated retrieves lessons for the admin catalogue.
func (s *LessonService) ListPaginated(ctx context.Context, grade string, page, perPage int) ([]model.Lesson, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	lessons, total, err := s.lessonRepo.ListPaginated(ctx, grade, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if lessons == nil {
		lessons = []model.Lesson{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return lessons, pagination, nil
}

// Delete removes a lesson and drops its cached paper and answer key.
func (s *LessonService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.lessonRepo.Delete(ctx, id); err != nil {
		return err
	}

	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.LessonPayloadKey(id.String()))
	pipe.Del(ctx, config.CacheKey.LessonAnswerKey(id.String()))
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("lesson_id", id.String()).Msg("Failed to drop lesson cache")
	}

	s.log.Info().Str("lesson_id", id.String()).Msg("Lesson deleted")
	return nil
}
