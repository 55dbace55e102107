// Package tracing provides hooks that observe predictors: a logger and a
// recorder that stores every prediction and update in a CSV file or a SQLite
// database.
package tracing

import (
	"log"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictors"
)

// LogHook prints one line per predictor event.
type LogHook struct {
	sim.LogHookBase
}

// NewLogHook returns a LogHook that writes into logger.
func NewLogHook(logger *log.Logger) *LogHook {
	h := new(LogHook)
	h.Logger = logger
	return h
}

// Func writes the event information into the logger.
func (h *LogHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case predictors.HookPosPredict:
		e, ok := ctx.Item.(predictors.Event)
		if !ok {
			return
		}
		h.Logger.Printf("%s predict pc=%s key=%s sc=%s -> %s",
			e.Predictor, e.Address, e.Key, e.Counter, e.Predicted)
	case predictors.HookPosUpdate:
		e, ok := ctx.Item.(predictors.Event)
		if !ok {
			return
		}
		h.Logger.Printf("%s update pc=%s key=%s actual=%s predicted=%s sc=%s",
			e.Predictor, e.Address, e.Key, e.Actual, e.Predicted, e.Counter)
	case predictors.HookPosClear:
		h.Logger.Printf("%s clear", nameOf(ctx.Domain))
	}
}

func nameOf(domain sim.Hookable) string {
	if p, ok := domain.(*predictors.Predictor); ok {
		return p.Name()
	}
	return "predictor"
}
