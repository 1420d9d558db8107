package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDisplayImage(t *testing.T) {
	tests := []struct {
		name      string
		obverse   *string
		fallbacks []string
		expected  string
	}{
		{
			name:      "obverse wins",
			obverse:   strPtr("/images/coins/5111-0178-obverse.jpg"),
			fallbacks: []string{"/images/coins/alt.jpg"},
			expected:  "/images/coins/5111-0178-obverse.jpg",
		},
		{
			name:      "blank obverse falls back to first entry",
			obverse:   strPtr(""),
			fallbacks: []string{"/images/coins/alt.jpg", "/images/coins/alt2.jpg"},
			expected:  "/images/coins/alt.jpg",
		},
		{
			name:      "nil obverse falls back",
			fallbacks: []string{"/images/coins/alt.jpg"},
			expected:  "/images/coins/alt.jpg",
		},
		{
			name:     "nothing stored",
			expected: "",
		},
		{
			name:      "blank fallback entry yields nothing",
			fallbacks: []string{""},
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayImage(tt.obverse, tt.fallbacks))
		})
	}
}

func TestDisplayYear(t *testing.T) {
	date := time.Date(2003, 7, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2003, DisplayYear(&date))
	assert.Equal(t, 0, DisplayYear(nil))
}

func TestDisplayCountry(t *testing.T) {
	assert.Equal(t, "Россия", DisplayCountry(""))
	assert.Equal(t, "Беларусь", DisplayCountry("Беларусь"))
}
