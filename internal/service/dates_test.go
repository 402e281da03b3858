package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLegalDateDaysAfter(t *testing.T) {
	got, err := CalculateLegalDate("2023-01-15", 0, 0, 14, "po")
	require.NoError(t, err)

	assert.Equal(t, "2023-01-29", got.ResultDate)
	assert.Equal(t, "14 dni po 2023-01-15", got.Description)
}

func TestCalculateLegalDateDefaultDirectionIsAfter(t *testing.T) {
	got, err := CalculateLegalDate("2023-01-15", 0, 1, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "2023-02-15", got.ResultDate)
	assert.Equal(t, DirectionAfter, got.Direction)
}

func TestCalculateLegalDateBefore(t *testing.T) {
	got, err := CalculateLegalDate("2023-03-31", 0, 0, 30, "przed")
	require.NoError(t, err)
	assert.Equal(t, "2023-03-01", got.ResultDate)
	assert.Equal(t, "30 dni przed 2023-03-31", got.Description)
}

func TestCalculateLegalDatePartialBases(t *testing.T) {
	got, err := CalculateLegalDate("2023", 1, 0, 0, "po")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", got.BaseDate)
	assert.Equal(t, "2024-01-01", got.ResultDate)

	got, err = CalculateLegalDate("2023-06", 0, 0, 1, "po")
	require.NoError(t, err)
	assert.Equal(t, "2023-06-01", got.BaseDate)
	assert.Equal(t, "2023-06-02", got.ResultDate)
}

func TestCalculateLegalDateMonthRollover(t *testing.T) {
	// Calendar normalisation: Jan 31 + 1 month lands on Mar 2/3, not Feb 28.
	got, err := CalculateLegalDate("2023-01-31", 0, 1, 0, "po")
	require.NoError(t, err)
	assert.Equal(t, "2023-03-03", got.ResultDate)
}

func TestCalculateLegalDateCombinedOffsets(t *testing.T) {
	got, err := CalculateLegalDate("2020-01-01", 2, 3, 10, "po")
	require.NoError(t, err)
	assert.Equal(t, "2022-04-11", got.ResultDate)
	assert.Equal(t, "2 lata, 3 miesiące, 10 dni po 2020-01-01", got.Description)
}

func TestCalculateLegalDateInvalidInput(t *testing.T) {
	_, err := CalculateLegalDate("wczoraj", 0, 0, 1, "po")
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)

	_, err = CalculateLegalDate("2023-01-01", 0, 0, 1, "obok")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "direction", invalid.Field)

	_, err = CalculateLegalDate("2023-01-01", -1, 0, 0, "po")
	require.ErrorAs(t, err, &invalid)
}

func TestCalculateLegalDateZeroOffset(t *testing.T) {
	got, err := CalculateLegalDate("2023-05-05", 0, 0, 0, "po")
	require.NoError(t, err)
	assert.Equal(t, "2023-05-05", got.ResultDate)
	assert.Equal(t, "0 dni po 2023-05-05", got.Description)
}

func TestPolishPlurals(t *testing.T) {
	assert.Equal(t, "rok", pluralYears(1))
	assert.Equal(t, "lata", pluralYears(2))
	assert.Equal(t, "lata", pluralYears(4))
	assert.Equal(t, "lat", pluralYears(5))
	assert.Equal(t, "lat", pluralYears(12))
	assert.Equal(t, "lata", pluralYears(22))

	assert.Equal(t, "miesiąc", pluralMonths(1))
	assert.Equal(t, "miesiące", pluralMonths(3))
	assert.Equal(t, "miesięcy", pluralMonths(11))
	assert.Equal(t, "miesięcy", pluralMonths(14))

	assert.Equal(t, "dzień", pluralDays(1))
	assert.Equal(t, "dni", pluralDays(7))
}
