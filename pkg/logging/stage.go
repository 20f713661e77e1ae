package logging

import "time"

// StageTimer measures one pipeline stage
type StageTimer struct {
	logger Logger
	stage  string
	start  time.Time
	fields []Field
}

// StartStage begins timing a pipeline stage
func StartStage(logger Logger, stage string, fields ...Field) *StageTimer {
	return &StageTimer{
		logger: logger,
		stage:  stage,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the stage started
func (t *StageTimer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs stage completion at INFO with its latency
func (t *StageTimer) End(fields ...Field) time.Duration {
	elapsed := t.Elapsed()
	t.logger.Info(t.stage+" completed", t.with(elapsed, fields)...)
	return elapsed
}

// EndError logs stage failure at ERROR with its latency
func (t *StageTimer) EndError(err error, fields ...Field) time.Duration {
	elapsed := t.Elapsed()
	t.logger.Error(t.stage+" failed", append(t.with(elapsed, fields), Error(err))...)
	return elapsed
}

func (t *StageTimer) with(elapsed time.Duration, extra []Field) []Field {
	out := make([]Field, 0, len(t.fields)+len(extra)+2)
	out = append(out, Stage(t.stage))
	out = append(out, t.fields...)
	out = append(out, extra...)
	return append(out, Latency(elapsed))
}
