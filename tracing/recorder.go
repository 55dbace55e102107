package tracing

import (
	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictors"
)

// Record is one traced predictor operation.
type Record struct {
	RunID     string
	Seq       uint64
	Predictor string
	Op        string
	Address   string
	Key       string
	Counter   string
	Predicted string
	// Actual and Correct are empty for predictions.
	Actual  string
	Correct bool
}

// Writer stores records.
type Writer interface {
	Init() error
	Write(r Record) error
	Flush() error
	Close() error
}

// Recorder is a hook that turns predictor events into records.
type Recorder struct {
	writer Writer
	runID  string
	seq    uint64
	err    error
}

// NewRecorder creates a Recorder that writes into w. Every record of the
// recorder carries the same freshly generated run ID.
func NewRecorder(w Writer) *Recorder {
	return &Recorder{
		writer: w,
		runID:  xid.New().String(),
	}
}

// RunID returns the ID stamped on every record.
func (r *Recorder) RunID() string {
	return r.runID
}

// Err returns the first write error. Once a write fails, later events are
// dropped.
func (r *Recorder) Err() error {
	return r.err
}

// Func records predict and update events.
func (r *Recorder) Func(ctx sim.HookCtx) {
	if r.err != nil {
		return
	}

	e, ok := ctx.Item.(predictors.Event)
	if !ok {
		return
	}

	rec := Record{
		RunID:     r.runID,
		Seq:       r.seq,
		Predictor: e.Predictor,
		Address:   e.Address.String(),
		Key:       e.Key.String(),
		Counter:   e.Counter.String(),
		Predicted: e.Predicted.String(),
	}

	switch ctx.Pos {
	case predictors.HookPosPredict:
		rec.Op = "predict"
	case predictors.HookPosUpdate:
		rec.Op = "update"
		rec.Actual = e.Actual.String()
		rec.Correct = e.Actual == e.Predicted
	default:
		return
	}

	r.seq++
	r.err = r.writer.Write(rec)
}

// Flush flushes the underlying writer.
func (r *Recorder) Flush() error {
	return r.writer.Flush()
}

// Close flushes and closes the underlying writer.
func (r *Recorder) Close() error {
	return r.writer.Close()
}
