package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "7", want: "7", wantOK: true},
		{in: "-2.5", want: "-2.5", wantOK: true},
		{in: "1e3", want: "1000", wantOK: true},
		{in: "1e300", wantOK: true},
		{in: "1e400", wantOK: false},
		{in: "1e50000000", wantOK: false},
		{in: "1e-50000000", wantOK: false},
		{in: "Infinity", wantOK: false},
		{in: "0x10", wantOK: false},
		{in: "abc", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, ok := ParseDecimal(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.want != "" {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}

func TestRowAt(t *testing.T) {
	row := Row(3, map[int]Cell{1: Text("K1"), 5: Int(2)})

	assert.Len(t, row, 3)
	assert.Equal(t, Text("K1"), row.At(1))
	assert.True(t, row.At(-1).IsAbsent())
	assert.True(t, row.At(5).IsAbsent())
}
