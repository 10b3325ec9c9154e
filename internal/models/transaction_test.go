package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	tx := Transaction{
		Date:        " 2024-11-01 ",
		Description: "  Coffee Beans ",
		Amount:      decimal.RequireFromString("45.5"),
	}
	assert.Equal(t, "2024-11-01|coffee beans|45.50", tx.Fingerprint())

	// Same content, different casing and trailing zeros: same fingerprint.
	other := Transaction{
		Date:        "2024-11-01",
		Description: "COFFEE BEANS",
		Amount:      decimal.RequireFromString("45.500"),
	}
	assert.Equal(t, tx.Fingerprint(), other.Fingerprint())

	// A one-cent difference changes the fingerprint.
	other.Amount = decimal.RequireFromString("45.51")
	assert.NotEqual(t, tx.Fingerprint(), other.Fingerprint())
}

func TestInflowOutflow(t *testing.T) {
	in := Transaction{Amount: decimal.NewFromInt(10)}
	assert.True(t, in.Inflow())
	assert.False(t, in.Outflow())

	out := Transaction{Amount: decimal.NewFromInt(-10)}
	assert.False(t, out.Inflow())
	assert.True(t, out.Outflow())

	zero := Transaction{Amount: decimal.Zero}
	assert.False(t, zero.Inflow())
	assert.False(t, zero.Outflow())
}
