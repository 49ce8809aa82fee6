package foundation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	t.Run("Ok result", func(t *testing.T) {
		result := Ok[string, error]("nodes.mdx")

		require.True(t, result.IsOk())
		v, err := result.ToTuple()
		assert.Equal(t, "nodes.mdx", v)
		assert.NoError(t, err)
	})

	t.Run("Err result", func(t *testing.T) {
		testErr := errors.New("syntax error")
		result := Err[string](testErr)

		require.False(t, result.IsOk())
		v, err := result.ToTuple()
		assert.Empty(t, v)
		assert.ErrorIs(t, err, testErr)
	})

	t.Run("Match", func(t *testing.T) {
		var got string
		Ok[string, error]("a").Match(func(s string) { got = s }, func(error) { got = "err" })
		assert.Equal(t, "a", got)
		Err[string, error](errors.New("x")).Match(func(s string) { got = s }, func(error) { got = "err" })
		assert.Equal(t, "err", got)
	})
}

type fileErr struct{ path string }

func (e *fileErr) Error() string { return e.path }

func TestResultWithPointerError(t *testing.T) {
	_, err := Ok[int, *fileErr](1).ToTuple()
	assert.Nil(t, err)

	_, err = Err[int](&fileErr{path: "a.py"}).ToTuple()
	require.NotNil(t, err)
	assert.Equal(t, "a.py", err.Error())
}
