package presale

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	cases := map[string]string{
		"1":                    "1000000000000000000",
		"0.5":                  "500000000000000000",
		"250":                  "250000000000000000000",
		" 7.5 ":                "7500000000000000000",
		"0.000000000000000001": "1",
		"0":                    "0",
	}
	for in, want := range cases {
		got, err := ParseEther(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.Dec(), in)
	}
}

func TestParseEther_Rechaza(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		_, err := ParseEther(in)
		assert.Error(t, err, in)
	}
}

func TestParseUnits_Overflow(t *testing.T) {
	_, err := ParseUnits("115792089237316195423570985008687907853269984665640564039457584007913129639936", 0)
	assert.Error(t, err)
}

func TestParseWei(t *testing.T) {
	v, err := ParseWei("5000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "5000000000000000000", v.Dec())

	_, err = ParseWei("1.5")
	assert.Error(t, err)
	_, err = ParseWei("-1")
	assert.Error(t, err)
}

func TestFormatUnits(t *testing.T) {
	v, err := ParseUnits("1000", Decimals)
	require.NoError(t, err)
	assert.Equal(t, "1000", FormatUnits(v, Decimals).String())
	assert.Equal(t, "0.000000000000000001", FormatUnits(uint256.NewInt(1), Decimals).String())
	assert.Equal(t, "0", FormatUnits(nil, Decimals).String())
}
