package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"help", "demo"}, &out, &bytes.Buffer{}))
	require.Contains(t, out.String(), "demo FLAGS")

	out.Reset()
	require.NoError(t, run([]string{"help"}, &out, &bytes.Buffer{}))
	require.Contains(t, out.String(), "COMMANDS")

	require.Error(t, run([]string{"help", "serve"}, &out, &bytes.Buffer{}))
}

func TestUnknownCommand(t *testing.T) {
	var errOut bytes.Buffer
	require.ErrorContains(t, run([]string{"serve"}, &bytes.Buffer{}, &errOut), "unknown command")
	require.Contains(t, errOut.String(), "USAGE")

	require.ErrorContains(t, run(nil, &bytes.Buffer{}, &errOut), "missing command")
}

func TestDemo(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"demo", "-tasks", "4", "-log.level", "error"}, &out, &bytes.Buffer{})
	require.NoError(t, err)

	got := out.String()
	require.Contains(t, got, "inline   posted=4 rejected=0 completed=4 result=10")
	require.Contains(t, got, "manual   posted=4 rejected=0 completed=4 result=10")
	require.Contains(t, got, "spawn    posted=4 rejected=0 completed=4 result=10")
	require.Contains(t, got, "outstanding=0")
}

func TestDemo_BoundedQueueRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anyexec.toml")
	require.NoError(t, os.WriteFile(path, []byte("queue_capacity = 3\ntasks = 5\nlog_level = \"error\"\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"demo", "-config", path}, &out, &bytes.Buffer{}))
	require.Contains(t, out.String(), "manual   posted=3 rejected=2 completed=3 result=15")
	require.Contains(t, out.String(), "outstanding=0")
}

func TestDemo_DebugLogsEvents(t *testing.T) {
	var errOut bytes.Buffer
	err := run([]string{"demo", "-tasks", "1", "-log.level", "debug", "-log.format", "json"}, &bytes.Buffer{}, &errOut)
	require.NoError(t, err)
	require.Contains(t, errOut.String(), `"message":"work scheduled"`)
	require.Contains(t, errOut.String(), `"executor":"manual"`)
}

func TestDemo_InvalidFlags(t *testing.T) {
	require.Error(t, run([]string{"demo", "-tasks", "-1"}, &bytes.Buffer{}, &bytes.Buffer{}))
	require.Error(t, run([]string{"demo", "-bogus"}, &bytes.Buffer{}, &bytes.Buffer{}))
}
