package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatISO(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-03-09T13:05:07.123456", FormatISO(ts))
}
