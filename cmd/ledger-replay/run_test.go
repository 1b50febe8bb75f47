//go:build unit

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/LerianStudio/ledger-replay/replay"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		replay.ConfigFileEnv, "ENV_NAME", "LOG_OUTPUT", "STORE_BACKEND", "REDIS_ADDRESS",
		"REDIS_PASSWORD", "REDIS_DB", "REDIS_KEY_PREFIX", "REDIS_CONNECT_ATTEMPTS", "REDIS_FLUSH_ON_START",
	} {
		t.Setenv(key, "")
	}

	t.Setenv("LOG_LEVEL", "error")
}

func writeLog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const sampleLog = "type, client, tx, amount\n" +
	"deposit, 1, 1, 1.0\n" +
	"deposit, 2, 2, 2.0\n" +
	"deposit, 1, 3, 2.0\n" +
	"withdrawal, 1, 4, 1.5\n" +
	"withdrawal, 2, 5, 3.0\n"

const sampleAccounts = "client,available,held,total,locked\n" +
	"1,1.5,0,1.5,false\n" +
	"2,2,0,2,false\n"

func TestRun_MemoryBackend(t *testing.T) {
	quietEnv(t)

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{writeLog(t, sampleLog)}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, sampleAccounts, stdout.String())
	assert.Equal(t, "Error when handling transaction \"5\": Insufficient available funds\n", stderr.String())
}

func TestRun_DefaultLogLevelKeepsRunLogsQuiet(t *testing.T) {
	quietEnv(t)
	t.Setenv("LOG_LEVEL", "")

	logPath := filepath.Join(t.TempDir(), "replay.log")
	t.Setenv("LOG_OUTPUT", logPath)

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{writeLog(t, sampleLog)}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Error when handling transaction \"5\": Insufficient available funds\n", stderr.String())

	written, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(written), "replay finished")

	t.Setenv("LOG_LEVEL", "info")

	code = run(context.Background(), []string{writeLog(t, sampleLog)}, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Equal(t, 0, code)

	written, err = os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "replay finished")
}

func TestRun_RedisBackend(t *testing.T) {
	quietEnv(t)

	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("someone-elses:session", "1"))
	require.NoError(t, mr.Set("test-run:account:9", "stale"))

	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDRESS", mr.Addr())
	t.Setenv("REDIS_KEY_PREFIX", "test-run")

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{writeLog(t, sampleLog)}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, sampleAccounts, stdout.String())
	assert.True(t, mr.Exists("someone-elses:session"), "keys outside the prefix survive")
	assert.False(t, mr.Exists("test-run:account:9"), "stale prefixed keys are removed")
	assert.Equal(t, "1.5", mr.HGet("test-run:account:1", "available"))
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing argument",
			args:    func(*testing.T) []string { return nil },
			wantErr: "expected 1 argument, but got none",
		},
		{
			name:    "unreadable file",
			args:    func(t *testing.T) []string { return []string{filepath.Join(t.TempDir(), "missing.csv")} },
			wantErr: "open transaction log",
		},
		{
			name: "malformed record",
			args: func(t *testing.T) []string {
				return []string{writeLog(t, "type,client,tx,amount\ndeposit,1,1,1\ndeposit,x,2,1\n")}
			},
			wantErr: "malformed record on line 3",
		},
		{
			name:    "invalid configuration",
			args:    func(t *testing.T) []string { return []string{writeLog(t, sampleLog)} },
			env:     map[string]string{"STORE_BACKEND": "postgres"},
			wantErr: "unknown STORE_BACKEND",
		},
		{
			name:    "unreachable redis",
			args:    func(t *testing.T) []string { return []string{writeLog(t, sampleLog)} },
			env:     map[string]string{"STORE_BACKEND": "redis", "REDIS_ADDRESS": "127.0.0.1:1", "REDIS_CONNECT_ATTEMPTS": "1"},
			wantErr: "redis connect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quietEnv(t)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args(t), &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}
