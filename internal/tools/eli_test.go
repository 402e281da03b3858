package tools

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseELIBareForm(t *testing.T) {
	publisher, year, position, err := ParseELI("DU/2023/100")
	require.NoError(t, err)
	assert.Equal(t, "DU", publisher)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 100, position)
}

func TestParseELITrailingSlash(t *testing.T) {
	publisher, year, position, err := ParseELI("MP/2020/5/")
	require.NoError(t, err)
	assert.Equal(t, "MP", publisher)
	assert.Equal(t, 2020, year)
	assert.Equal(t, 5, position)
}

func TestParseELIRegistryURL(t *testing.T) {
	publisher, year, position, err := ParseELI("https://api.sejm.gov.pl/eli/DU/2023/100")
	require.NoError(t, err)
	assert.Equal(t, "DU", publisher)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 100, position)
}

func TestParseELIForeignURLRejected(t *testing.T) {
	_, _, _, err := ParseELI("https://example.com/DU/2023/100")
	var invalid *InvalidELIError
	require.ErrorAs(t, err, &invalid)
}

func TestParseELIMalformed(t *testing.T) {
	for _, input := range []string{"", "DU/2023", "DU/2023/100/extra", "DU/rok/100", "DU/2023/sto", "/2023/100"} {
		_, _, _, err := ParseELI(input)
		var invalid *InvalidELIError
		assert.ErrorAs(t, err, &invalid, "input %q", input)
	}
}

func TestParseELIRoundTrip(t *testing.T) {
	cases := []struct {
		publisher      string
		year, position int
	}{
		{"DU", 2023, 100},
		{"MP", 1997, 1},
		{"DU", 2024, 1999},
	}
	for _, c := range cases {
		publisher, year, position, err := ParseELI(FormatELI(c.publisher, c.year, c.position))
		require.NoError(t, err)
		assert.Equal(t, c.publisher, publisher)
		assert.Equal(t, c.year, year)
		assert.Equal(t, c.position, position)
	}
}

func TestInvalidELIErrorMessage(t *testing.T) {
	_, _, _, err := ParseELI("x/y")
	assert.Equal(t, fmt.Sprintf("invalid ELI %q: expected publisher/year/position", "x/y"), err.Error())
}
