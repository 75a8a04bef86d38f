package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t,
		[]string{"forum", "quiz"},
		DedupeAndTrim([]string{"  forum ", "quiz", "forum", "", "  "}))

	assert.Empty(t, DedupeAndTrim([]string{"", "   "}))

	var nilSlice []string
	assert.Nil(t, DedupeAndTrim(nilSlice))
}

func TestDedupeInt64(t *testing.T) {
	assert.Equal(t,
		[]int64{1, 2, 7},
		DedupeInt64([]int64{7, 2, 7, 1, 0, -3}))

	assert.Empty(t, DedupeInt64([]int64{0, -1}))

	var nilSlice []int64
	assert.Nil(t, DedupeInt64(nilSlice))
}
