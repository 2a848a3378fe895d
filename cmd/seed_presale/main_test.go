package main

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAccounts(t *testing.T) {
	in := `
# compradores ronda 1
0x00000000000000000000000000000000000000b1

  0x00000000000000000000000000000000000000B2
`
	got, err := readAccounts(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []common.Address{
		common.HexToAddress("0xb1"),
		common.HexToAddress("0xb2"),
	}, got)
}

func TestReadAccounts_LineaInvalida(t *testing.T) {
	_, err := readAccounts(strings.NewReader("0x00000000000000000000000000000000000000b1\nnope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}
