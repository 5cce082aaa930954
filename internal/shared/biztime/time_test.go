package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDayUTC(t *testing.T) {
	ts := time.Date(2026, 3, 14, 17, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), StartOfDayUTC(ts))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2026-03-14", DayKey(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)))
}
