package referral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.00", FormatMinor(0))
	assert.Equal(t, "4.00", FormatMinor(400))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "40.00", FormatMinor(4_000))
	assert.Equal(t, "10.15", FormatMinor(1_015))
	assert.Equal(t, "-44.00", FormatMinor(-4_400))
	assert.Equal(t, "-0.01", FormatMinor(-1))
}
