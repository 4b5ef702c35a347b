package scrape

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowsDaily(t *testing.T) {
	t.Parallel()

	windows, err := Windows(date(2020, 1, 1), date(2020, 1, 5), MethodDaily)
	require.NoError(t, err)
	require.Len(t, windows, 4)

	for i, w := range windows {
		expected := date(2020, 1, 1+i)
		assert.Equal(t, expected, w.Start)
		assert.Equal(t, expected, w.End, "daily windows span a single day")
	}
}

func TestWindowsDailyEmptyRange(t *testing.T) {
	t.Parallel()

	windows, err := Windows(date(2020, 1, 1), date(2020, 1, 1), MethodDaily)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestWindowsWeekly(t *testing.T) {
	t.Parallel()

	windows, err := Windows(date(2020, 1, 1), date(2020, 1, 16), MethodWeekly)
	require.NoError(t, err)
	require.Len(t, windows, 2, "15 days yield two full weeks, partial tail dropped")

	assert.Equal(t, date(2020, 1, 1), windows[0].Start)
	assert.Equal(t, date(2020, 1, 8), windows[0].End)
	assert.Equal(t, date(2020, 1, 8), windows[1].Start)
	assert.Equal(t, date(2020, 1, 15), windows[1].End)
}

func TestWindowsWeeklyShortRange(t *testing.T) {
	t.Parallel()

	windows, err := Windows(date(2020, 1, 1), date(2020, 1, 5), MethodWeekly)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestWindowsUnsupportedMethod(t *testing.T) {
	t.Parallel()

	_, err := Windows(date(2020, 1, 1), date(2020, 1, 5), "hourly")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedMethod))
}

func TestWindowsEndBeforeStart(t *testing.T) {
	t.Parallel()

	windows, err := Windows(date(2020, 1, 5), date(2020, 1, 1), MethodDaily)
	require.NoError(t, err)
	assert.Empty(t, windows)
}
