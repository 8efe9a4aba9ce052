package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		name                string
		page, size, maxSize int
		wantPage, wantSize  int
	}{
		{"defaults kept", 2, 20, 50, 2, 20},
		{"page below one", 0, 20, 50, 1, 20},
		{"size above max", 1, 500, 50, 1, 50},
		{"size below one", 3, 0, 50, 3, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, s := NormalizePage(tc.page, tc.size, tc.maxSize)
			assert.Equal(t, tc.wantPage, p)
			assert.Equal(t, tc.wantSize, s)
		})
	}
}

func TestParseUint64(t *testing.T) {
	id, ok := ParseUint64("17")
	assert.True(t, ok)
	assert.Equal(t, uint64(17), id)

	_, ok = ParseUint64("0")
	assert.False(t, ok)
	_, ok = ParseUint64("-3")
	assert.False(t, ok)
}

func TestValidateDTO(t *testing.T) {
	type body struct {
		Content string `binding:"required,max=5"`
	}
	assert.NoError(t, ValidateDTO(body{Content: "hi"}))
	assert.Error(t, ValidateDTO(body{}))
	assert.Error(t, ValidateDTO(body{Content: "too long"}))
}
