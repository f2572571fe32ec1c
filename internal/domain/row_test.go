package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowNumber(t *testing.T) {
	tests := []struct {
		value  string
		want   float64
		wantOK bool
	}{
		{value: "7", want: 7, wantOK: true},
		{value: " 4.5 ", want: 4.5, wantOK: true},
		{value: "", wantOK: false},
		{value: "seven", wantOK: false},
		{value: "NaN", wantOK: false},
		{value: "Inf", wantOK: false},
		{value: "+Inf", wantOK: false},
		{value: "-inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := Row{ColReactionScore: tt.value}.Number(ColReactionScore)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
