package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/claimdesk/pkg/apperror"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"450", 45000},
		{"450.5", 45050},
		{"450.50", 45050},
		{"0.01", 1},
		{".5", 50},
		{"  100  ", 10000},
		{"100000", 10000000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "12.345", "-5", "-0.50", "1.2.3", "4.-5", "1.+5", "4. 5"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			assert.True(t, apperror.IsValidation(err), "%q should be rejected", in)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "450.00", FormatAmount(45000))
	assert.Equal(t, "450.50", FormatAmount(45050))
	assert.Equal(t, "0.01", FormatAmount(1))
}
