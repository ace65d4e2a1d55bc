package job

import (
	"context"

	"github.com/jhjeon/askresume/internal/service"
)

// WarmupJob re-attempts service initialization in the background so a cold
// start that failed (corpus missing, database down) recovers without waiting
// for the next user request. A ready service makes this a no-op.
type WarmupJob struct {
	answers *service.AnswerService
}

func NewWarmupJob(answers *service.AnswerService) *WarmupJob {
	return &WarmupJob{answers: answers}
}

func (j *WarmupJob) Name() string {
	return "service_warmup"
}

func (j *WarmupJob) Run(ctx context.Context) error {
	if j.answers == nil || j.answers.State() == service.StateReady {
		return nil
	}
	return j.answers.EnsureReady(ctx)
}
