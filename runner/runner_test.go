package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCapturesStdout(t *testing.T) {
	var out bytes.Buffer
	err := Exec{}.Run(context.Background(), "", &out, "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestExecNonZeroExit(t *testing.T) {
	err := Exec{}.Run(context.Background(), "", nil, "false")
	assert.Error(t, err)
}

func TestFakeRecords(t *testing.T) {
	f := &Fake{}
	require.NoError(t, f.Run(context.Background(), "/work", nil, "ln", "-s", "a", "b"))
	require.Len(t, f.Calls, 1)
	assert.Equal(t, "/work", f.Calls[0].Dir)
	assert.Equal(t, []string{"ln", "-s", "a", "b"}, f.Calls[0].Argv())
}
