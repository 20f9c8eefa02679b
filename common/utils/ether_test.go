package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEtherToWei(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.515", "515000000000000000"},
		{"0.004166666666666666", "4166666666666666"},
		{"0.0000000000000000019", "1"},
		{"0", "0"},
	}
	for _, c := range cases {
		got, err := EtherToWei(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got.String(), c.in)
	}

	_, err := EtherToWei("abc")
	assert.Error(t, err)
}

func TestWeiToEther(t *testing.T) {
	wei, _ := new(big.Int).SetString("118750000000000000", 10)
	assert.Equal(t, "0.11875", WeiToEther(wei).String())
	assert.True(t, WeiToEther(nil).IsZero())
}
