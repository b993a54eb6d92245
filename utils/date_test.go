package utils

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestAddOneMonth(t *testing.T) {
    start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
    assert.Equal(t, time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC), AddOneMonth(start))

    // Normalized forward when the next month is shorter.
    jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
    assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), AddOneMonth(jan31))
}

func TestFormatDate(t *testing.T) {
    assert.Equal(t, "2026-09-30", FormatDate(time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC)))
}
