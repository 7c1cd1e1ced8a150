package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCondition(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Condition
		wantErr  bool
	}{
		{name: "good", input: "Good", expected: ConditionGood},
		{name: "fair with spaces", input: " Fair ", expected: ConditionFair},
		{name: "damaged", input: "Damaged", expected: ConditionDamaged},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "Broken", wantErr: true},
		{name: "case sensitive", input: "good", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			condition, err := NewCondition(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, condition)
		})
	}
}

func TestTransactionTypeSigned(t *testing.T) {
	assert.Equal(t, 5, TransactionRestock.Signed(5))
	assert.Equal(t, -5, TransactionUsage.Signed(5))
	assert.True(t, TransactionUsage.IsValid())
	assert.False(t, TransactionType("adjust").IsValid())
}
