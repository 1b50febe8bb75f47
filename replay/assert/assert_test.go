//go:build unit

package assert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LerianStudio/ledger-replay/replay/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
}

func (r *recordingLogger) Log(_ context.Context, _ log.Level, msg string, _ ...log.Field) {
	r.messages = append(r.messages, msg)
}

func TestThat(t *testing.T) {
	logger := &recordingLogger{}
	asserter := New(context.Background(), logger, "engine", "deposit")

	require.NoError(t, asserter.That(context.Background(), true, "never logged"))
	assert.Empty(t, logger.messages)

	err := asserter.That(context.Background(), false, "total must equal available + held", "client", 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssertionFailed))

	var assertionErr *AssertionError
	require.True(t, errors.As(err, &assertionErr))
	assert.Equal(t, "That", assertionErr.Assertion)
	assert.Equal(t, "engine", assertionErr.Component)
	assert.Equal(t, "deposit", assertionErr.Operation)
	assert.Contains(t, assertionErr.Details, "client=7")

	require.Len(t, logger.messages, 1)
	assert.True(t, strings.HasPrefix(logger.messages[0], "ASSERTION FAILED: total must equal available + held"))
}

func TestNotNil(t *testing.T) {
	asserter := New(context.Background(), &recordingLogger{}, "store", "get")

	var typedNil *recordingLogger

	assert.NoError(t, asserter.NotNil(context.Background(), &recordingLogger{}, "present"))
	assert.Error(t, asserter.NotNil(context.Background(), nil, "missing"))
	assert.Error(t, asserter.NotNil(context.Background(), typedNil, "typed nil"))
}

func TestThat_OddKeyValues(t *testing.T) {
	err := New(nil, nil, "", "").That(nil, false, "unreachable", "odd")

	var assertionErr *AssertionError
	require.True(t, errors.As(err, &assertionErr))
	assert.Contains(t, assertionErr.Details, "odd=MISSING_VALUE")
	assert.Equal(t, "assertion failed: unreachable\n"+assertionErr.Details, err.Error())
}

func TestNilReceiversAreSafe(t *testing.T) {
	var asserter *Asserter

	err := asserter.That(context.Background(), false, "nil asserter")
	require.Error(t, err)

	var nilErr *AssertionError
	assert.Equal(t, ErrAssertionFailed.Error(), nilErr.Error())
}

func TestTruncateValue(t *testing.T) {
	long := strings.Repeat("x", maxValueLength+10)

	assert.Equal(t, "short", truncateValue("short"))
	assert.True(t, strings.HasSuffix(truncateValue(long), "(truncated 10 chars)"))
}
