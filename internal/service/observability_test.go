package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_Success(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelInfo)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "create-practicum",
		Duration: 5 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"cohort_code": "PC-ABC123"},
	})

	out := buf.String()
	assert.Contains(t, out, "use_case=create-practicum")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "cohort_code=PC-ABC123")
	assert.NotContains(t, out, "error=")
}

func TestLogUseCaseObserver_FailureLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelError)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "list", Success: true})
	assert.Empty(t, buf.String(), "info records filtered at error level")

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "save-timeline",
		Err:  errors.New("disk full"),
	})
	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `error="disk full"`)
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, slog.LevelInfo))
}

func TestObserve_ReadsNamedError(t *testing.T) {
	obs := &recordingObserver{}
	run := func(fail bool) (err error) {
		defer observe(context.Background(), obs, "op", time.Now(), nil, &err)
		if fail {
			return errors.New("boom")
		}
		return nil
	}

	_ = run(false)
	_ = run(true)

	assert.True(t, obs.events[0].Success)
	assert.False(t, obs.events[1].Success)
	assert.EqualError(t, obs.events[1].Err, "boom")
}
