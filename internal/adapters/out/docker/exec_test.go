package docker

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ephemera/internal/domain"
)

func TestParseExecOutput_SplitsStdoutAndStderr(t *testing.T) {
	stream := append(frameDockerStream(1, []byte("hello\n")), frameDockerStream(2, []byte("warn\n"))...)

	stdout, stderr, err := parseExecOutput(bytes.NewReader(stream))

	require.NoError(t, err)
	assert.Equal(t, []byte("hello\n"), stdout)
	assert.Equal(t, []byte("warn\n"), stderr)
}

func TestParseExecOutput_RejectsCorruptFrame(t *testing.T) {
	_, _, err := parseExecOutput(bytes.NewReader([]byte{9, 0, 0, 0, 0, 0, 0, 1, 'x'}))
	assert.Error(t, err)
}

func TestRuntime_ExecuteCommand_RejectsEmptyCommand(t *testing.T) {
	r := &Runtime{}

	tests := []struct {
		name string
		cmd  []string
	}{
		{name: "nil", cmd: nil},
		{name: "empty slice", cmd: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.ExecuteCommand(testContext(), "abc123", tt.cmd)
			require.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Nil(t, result)
		})
	}
}

func TestRuntime_ExecuteCommand_CreateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.41/containers/abc123/exec", r.URL.Path)
		writeJSON(w, http.StatusConflict, `{"message": "container abc123 is not running"}`)
	}))
	defer server.Close()

	result, err := newRuntimeForHTTPServer(t, server).ExecuteCommand(testContext(), "abc123", []string{"true"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not running")
	assert.Nil(t, result)
}
