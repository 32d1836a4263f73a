package feedgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsefeed/internal/record"
)

func TestNext_ProducesParseableLines(t *testing.T) {
	gen := New(42)

	for i := 0; i < 50; i++ {
		line := gen.Next()
		rec, err := record.Parse(line)
		require.NoError(t, err, "line: %s", line)

		assert.NotEmpty(t, rec.Body)
		assert.NotEqual(t, "unknown", rec.Author)
		assert.NotEqual(t, "unknown", rec.Category)
		assert.False(t, rec.Timestamp.IsZero())
	}
}

func TestNext_DeterministicForSeed(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	a := New(7)
	a.now = func() time.Time { return fixed }
	b := New(7)
	b.now = func() time.Time { return fixed }

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestCategoryFor_KnownProducts(t *testing.T) {
	assert.Equal(t, "electronics", categoryFor("a phone"))
	assert.Equal(t, "travel", categoryFor("a vacation package"))
	assert.Equal(t, "other", categoryFor("a mystery box"))
}
