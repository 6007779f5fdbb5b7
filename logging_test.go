package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "MySQL DSN with password",
			input:    "root:secret@tcp(localhost:9030)/?parseTime=true",
			expected: "root:***@tcp(localhost:9030)/?parseTime=true",
		},
		{
			name:     "MySQL DSN without password",
			input:    "root@tcp(localhost:9030)/",
			expected: "root@tcp(localhost:9030)/",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, maskDSN(tc.input))
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "password pair",
			input:    "connect failed: password=hunter2 host=fe",
			expected: "connect failed: password=*** host=fe",
		},
		{
			name:     "access denied error keeps its text",
			input:    "Error 1045 (28000): Access denied for user 'root'@'10.0.0.5' (using password: YES)",
			expected: "Error 1045 (28000): Access denied for user 'root'@'10.0.0.5' (using password: YES)",
		},
		{
			name:     "nothing to mask",
			input:    "dial tcp 127.0.0.1:9030: connect: connection refused",
			expected: "dial tcp 127.0.0.1:9030: connect: connection refused",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, maskSecret(tc.input))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug")
	require.NoError(t, err)

	logger.With("component", "tools").Debug("executing query", "tool", "read_query")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "executing query", entry["msg"])
	assert.Equal(t, ServerName, entry["server"])
	assert.Equal(t, "tools", entry["component"])
	assert.Equal(t, "read_query", entry["tool"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	_, err = newLogger(&buf, "chatty")
	assert.Error(t, err)
}
