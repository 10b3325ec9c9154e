package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferLayout(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected Layout
	}{
		{
			name:     "amount layout",
			headers:  []string{"Date", "Description", "Amount", "Balance"},
			expected: Layout{Date: 0, Description: 1, Amount: 2, Balance: 3, Debit: -1, Credit: -1},
		},
		{
			name:     "debit credit layout",
			headers:  []string{"Transaction Date", "Narration", "Debit", "Credit", "Running Balance"},
			expected: Layout{Date: 0, Description: 1, Amount: -1, Balance: 4, Debit: 2, Credit: 3},
		},
		{
			name:     "case insensitive substring matching",
			headers:  []string{"POSTING DATE", "details of transaction", "withdrawal", "deposit"},
			expected: Layout{Date: 0, Description: 1, Amount: -1, Balance: -1, Debit: 2, Credit: 3},
		},
		{
			name:     "amount excludes balance columns",
			headers:  []string{"Date", "Reference", "Balance Amount", "Amount"},
			expected: Layout{Date: 0, Description: 1, Amount: 3, Balance: 2, Debit: -1, Credit: -1},
		},
		{
			name:     "first match wins per role",
			headers:  []string{"Date", "Value Date", "Description", "Reference", "Amount"},
			expected: Layout{Date: 0, Description: 2, Amount: 4, Balance: -1, Debit: -1, Credit: -1},
		},
		{
			name:     "nothing recognized",
			headers:  []string{"Foo", "Bar"},
			expected: Layout{Date: -1, Description: -1, Amount: -1, Balance: -1, Debit: -1, Credit: -1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, InferLayout(tc.headers))
		})
	}
}

func TestLayoutUsesDebitCredit(t *testing.T) {
	// Amount column takes precedence even when debit/credit also match.
	both := InferLayout([]string{"Date", "Description", "Amount", "Debit", "Credit"})
	assert.False(t, both.UsesDebitCredit())
	assert.Equal(t, 2, both.Amount)

	pair := InferLayout([]string{"Date", "Description", "Debit", "Credit"})
	assert.True(t, pair.UsesDebitCredit())

	// An incomplete pair does not qualify.
	incomplete := InferLayout([]string{"Date", "Description", "Debit"})
	assert.False(t, incomplete.UsesDebitCredit())
}
