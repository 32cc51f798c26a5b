//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupThroughService(t *testing.T) {
	t.Parallel()
	url := StartLookupService(t)

	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp("--lookup-url", url))
	require.True(t, tf.Ready(), "Should render the form")

	require.NoError(t, tf.Type("10010010"))
	require.NoError(t, tf.SendEnter())
	if !tf.SeePlain("10010010 - Case was found!") {
		tf.DumpTailOnFail(t, "lookup-found", 4096)
		t.Fatal("Should show the success notification")
	}
	require.True(t, tf.SeePlain("Unable to log in to the portal"), "Should show the result card")

	require.NoError(t, tf.Type("10019999"))
	require.NoError(t, tf.SendEnter())
	require.True(t, tf.SeePlain("No case found for CaseNumber 10019999 - Case was not found!"))
}

func TestHeadlessLookup(t *testing.T) {
	t.Parallel()
	url := StartLookupService(t)

	out, err := runCLI(t, "lookup", "--lookup-url", url, "--mode", "Id", "500Ab00000abABCAB1")
	require.NoError(t, err, out)
	require.Contains(t, out, "10010011 - Case was found!")

	out, err = runCLI(t, "lookup", "--lookup-url", url, "123")
	require.Equal(t, 1, exitCode(err))
	require.Contains(t, out, "Enter a valid format, e.g., 10010010")
}
