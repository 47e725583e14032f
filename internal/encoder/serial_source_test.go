package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEdgeLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		line   string
		wantA  Level
		wantB  Level
		wantOK bool
	}{
		{"falling with B high", "0,1\n", Low, High, true},
		{"rising with B low", "1,0\r\n", High, Low, true},
		{"spaces tolerated", " 1 , 1 ", High, High, true},
		{"missing field", "1", Low, Low, false},
		{"non-binary level", "2,0", Low, Low, false},
		{"garbage", "hello", Low, Low, false},
		{"empty", "", Low, Low, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a, b, ok := ParseEdgeLine(tc.line)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantA, a)
				assert.Equal(t, tc.wantB, b)
			}
		})
	}
}
