package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	notify "github.com/JakeFAU/pipeline-notify"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := parseLevel("ERROR")
	require.NoError(t, err)
	require.Equal(t, notify.LevelError, level)

	level, err = parseLevel("success")
	require.NoError(t, err)
	require.Equal(t, notify.LevelSuccess, level)

	_, err = parseLevel("fatal")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown level")
}

func TestParseKV(t *testing.T) {
	t.Parallel()

	key, value, err := parseKV("field", "step=4")
	require.NoError(t, err)
	require.Equal(t, "step", key)
	require.Equal(t, "4", value)

	key, value, err = parseKV("code", "traceback=a=b")
	require.NoError(t, err)
	require.Equal(t, "traceback", key)
	require.Equal(t, "a=b", value)

	_, _, err = parseKV("field", "no-separator")
	require.Error(t, err)

	_, _, err = parseKV("field", "=value")
	require.Error(t, err)
}

func TestMessageOptionsRejectsBadPairs(t *testing.T) {
	t.Parallel()

	_, err := messageOptions(sendOptions{fields: []string{"broken"}})
	require.Error(t, err)

	_, err = messageOptions(sendOptions{codes: []string{"=text"}})
	require.Error(t, err)

	opts, err := messageOptions(sendOptions{
		title:   "Nightly Import",
		fields:  []string{"step=4"},
		rawCode: `{"rows":12}`,
	})
	require.NoError(t, err)
	require.Len(t, opts, 3)
}
