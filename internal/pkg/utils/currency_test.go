package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyFormatter(t *testing.T) {
	formatter := NewMoneyFormatter("es-CO", "COP", "USD", 0.00025)

	t.Run("Primary Has No Decimals", func(t *testing.T) {
		formatted := formatter.FormatPrimary(1500000)
		assert.Equal(t, "COP 1.500.000", formatted)
	})

	t.Run("Derived Has Two Decimals", func(t *testing.T) {
		formatted := formatter.FormatDerived(45000)
		assert.Equal(t, "USD 11,25", formatted)
	})

	t.Run("Derived Disabled Without Rate", func(t *testing.T) {
		noRate := NewMoneyFormatter("es-CO", "COP", "USD", 0)
		assert.Empty(t, noRate.FormatDerived(45000))
	})
}
