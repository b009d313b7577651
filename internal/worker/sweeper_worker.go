package worker

import (
	"context"
	"time"

	"github.com/nokhba/academy-backend/internal/repository"
	"github.com/nokhba/academy-backend/internal/service"
	"github.com/rs/zerolog"
)

const (
	SweepInterval  = 5 * time.Second
	SweepBatchSize = 100
)

// SweeperWorker auto-submits attempts whose deadline passed without a manual
// submit, so the timer is enforced even when the browser tab is gone.
// Grades whatever was autosaved; unanswered questions score as wrong.
type SweeperWorker struct {
	attemptRepo *repository.AttemptRepository
	quizService *service.QuizService
	log         zerolog.Logger
}

func NewSweeperWorker(attemptRepo *repository.AttemptRepository, quizService *service.QuizService, log zerolog.Logger) *SweeperWorker {
	return &SweeperWorker{
		attemptRepo: attemptRepo,
		quizService: quizService,
		log:         log.With().Str("component", "sweeper_worker").Logger(),
	}
}

// Start runs the sweep loop until the context is cancelled.
func (w *SweeperWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SweeperWorker started")

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("SweeperWorker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SweeperWorker) sweep(ctx context.Context) {
	expired, err := w.attemptRepo.ListExpired(ctx, time.Now(), SweepBatchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("List expired attempts failed")
		return
	}

	for i := range expired {
		attempt := &expired[i]
		result, err := w.quizService.SubmitExpired(ctx, attempt)
		if err != nil {
			// A concurrent manual submit claiming the attempt first is fine.
			if err == repository.ErrAttemptClaimed {
				continue
			}
			w.log.Error().
				Err(err).
				Str("attempt_id", attempt.ID.String()).
				Msg("Auto-submit failed")
			continue
		}

		w.log.Info().
			Int("student_id", attempt.StudentID).
			Str("lesson_id", attempt.LessonID.String()).
			Int("score", result.Score).
			Int("total", result.Total).
			Bool("passed", result.Passed).
			Msg("Expired attempt auto-submitted")
	}
}
