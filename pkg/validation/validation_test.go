package validation

import (
	"testing"

	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name      string   `json:"name" validate:"notblank"`
	Quantity  int      `json:"quantity" validate:"gte=1"`
	Condition string   `json:"condition" validate:"required,oneof=Good Fair Damaged"`
	Price     *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

func TestStruct(t *testing.T) {
	negative := -1.0
	zero := 0.0

	tests := []struct {
		name     string
		input    sample
		expected map[string][]string
	}{
		{
			name:  "valid",
			input: sample{Name: "Kursi", Quantity: 1, Condition: "Good", Price: &zero},
		},
		{
			name:  "every field invalid",
			input: sample{Name: "  ", Quantity: 0, Condition: "Broken", Price: &negative},
			expected: map[string][]string{
				"name":      {"is required"},
				"quantity":  {"must be at least 1"},
				"condition": {"must be one of: Good, Fair, Damaged"},
				"price":     {"must be at least 0"},
			},
		},
		{
			name:     "missing condition",
			input:    sample{Name: "Meja", Quantity: 2},
			expected: map[string][]string{"condition": {"is required"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			tagged, ok := custom_error.As(err)
			require.True(t, ok)
			assert.Equal(t, custom_error.KindValidation, tagged.Kind)
			assert.Equal(t, tt.expected, tagged.Fields)
		})
	}
}
