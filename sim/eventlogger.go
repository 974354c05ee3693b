package sim

import (
	"go.uber.org/zap"
)

// EventLogger is an hook that prints the event information
type EventLogger struct {
	logger *zap.SugaredLogger
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *zap.SugaredLogger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosBeforeEvent:
		evt, ok := ctx.Item.(Event)
		if !ok {
			return
		}

		h.logger.Debugw("event",
			"kind", evt.Kind.String(),
			"time", float64(evt.Time),
		)
	case HookPosCustomerDeparted:
		h.logger.Debugw("departure",
			"time", float64(ctx.Now),
			"sojourn", ctx.Detail,
		)
	case HookPosTrialEnd:
		h.logger.Debugw("trial end", "result", ctx.Item)
	}
}
