package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	assert.Equal(t, 0, execute(context.Background(), "", "", "", []string{"version"}))
	assert.Equal(t, 1, execute(context.Background(), "", "", "", []string{"no-such-command"}))
}
