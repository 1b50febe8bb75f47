//go:build unit

package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/LerianStudio/ledger-replay/replay/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicLogger struct {
	log.NopLogger
	msgs   []string
	fields [][]log.Field
}

func (p *panicLogger) Log(_ context.Context, _ log.Level, msg string, fields ...log.Field) {
	p.msgs = append(p.msgs, msg)
	p.fields = append(p.fields, fields)
}

func TestRecoverWithPolicyKeepRunning(t *testing.T) {
	logger := &panicLogger{}

	assert.NotPanics(t, func() {
		defer RecoverWithPolicy(context.Background(), logger, "worker", KeepRunning)
		panic("boom")
	})

	require.Len(t, logger.msgs, 1)
	assert.Equal(t, "panic recovered", logger.msgs[0])
	assert.Equal(t, "worker", logger.fields[0][0].Value)
	assert.Equal(t, "boom", logger.fields[0][1].Value)
}

func TestRecoverWithPolicyCrashProcess(t *testing.T) {
	logger := &panicLogger{}

	assert.PanicsWithValue(t, "boom", func() {
		defer RecoverWithPolicy(context.Background(), logger, "worker", CrashProcess)
		panic("boom")
	})

	assert.Len(t, logger.msgs, 1)
}

func TestRecoverToError(t *testing.T) {
	run := func() (err error) {
		defer RecoverToError(context.Background(), &panicLogger{}, "run", &err)
		panic(errors.New("index out of range"))
	}

	err := run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPanicRecovered)
	assert.Contains(t, err.Error(), "run: index out of range")
}

func TestRecoverToErrorWithoutPanic(t *testing.T) {
	run := func() (err error) {
		defer RecoverToError(context.Background(), nil, "run", &err)
		return nil
	}

	assert.NoError(t, run())
}

func TestPanicPolicyString(t *testing.T) {
	assert.Equal(t, "KeepRunning", KeepRunning.String())
	assert.Equal(t, "CrashProcess", CrashProcess.String())
	assert.Equal(t, "Unknown", PanicPolicy(9).String())
}
