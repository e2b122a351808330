package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/toria/pkg/domain"
)

// Hooks builds lifecycle hooks that record metrics and log events.
// Either argument may be nil.
func Hooks(m *Metrics, logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			if m != nil && e.Stage == domain.StageRouteContext {
				m.Turns.WithLabelValues(string(e.Mode)).Inc()
			}
			if logger != nil {
				logger.Debug("stage_enter", "stage", e.Stage, "thread_key", e.ThreadKey)
			}
		},
		OnStageLeave: func(ctx context.Context, e *domain.StageEvent) {
			if m != nil {
				m.StageDuration.WithLabelValues(string(e.Stage)).Observe(e.Elapsed.Seconds())
			}
			if logger != nil {
				logger.Debug("stage_leave", "stage", e.Stage, "thread_key", e.ThreadKey, "elapsed", e.Elapsed)
			}
		},
		OnFallback: func(ctx context.Context, e *domain.FallbackEvent) {
			stage := string(e.Stage)
			if stage == "" {
				stage = "pipeline"
			}
			if m != nil {
				m.Fallbacks.WithLabelValues(stage, e.Reason).Inc()
			}
			if logger != nil {
				logger.Info("fallback", "stage", stage, "reason", e.Reason, "mode", e.Mode, "err", e.Err)
			}
		},
	}
}
