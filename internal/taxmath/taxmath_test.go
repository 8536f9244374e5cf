package taxmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCents(t *testing.T) {
	assert.Equal(t, int64(100), RoundCents(99.5))
	assert.Equal(t, int64(99), RoundCents(99.4))
	assert.Equal(t, int64(-100), RoundCents(-99.5))
	assert.Equal(t, int64(0), RoundCents(0))
}

func TestPercentOf(t *testing.T) {
	// 6.2% of $1,000.00
	assert.Equal(t, int64(6200), PercentOf(100000, 0.062))
	// 1.45% of $123.45 = $1.790025 -> $1.79
	assert.Equal(t, int64(179), PercentOf(12345, 0.0145))
	assert.Equal(t, int64(0), PercentOf(0, 0.062))
	assert.Equal(t, int64(0), PercentOf(-500, 0.062))
	assert.Equal(t, int64(0), PercentOf(100000, 0))
}

func TestCappedTaxable(t *testing.T) {
	cap := int64(700000) // $7,000 FUTA/SUI wage base

	// Under the cap: full period wages taxable.
	assert.Equal(t, int64(500000), CappedTaxable(500000, 0, cap))
	// Straddling the cap: only the remainder is taxable.
	assert.Equal(t, int64(50000), CappedTaxable(100000, 650000, cap))
	// At the cap already.
	assert.Equal(t, int64(0), CappedTaxable(100000, 700000, cap))
	// Past the cap.
	assert.Equal(t, int64(0), CappedTaxable(100000, 900000, cap))
	// Zero wages.
	assert.Equal(t, int64(0), CappedTaxable(0, 0, cap))
}
