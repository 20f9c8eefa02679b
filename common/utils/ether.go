package utils

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// EtherDecimals 原生币精度
const EtherDecimals = 18

// EtherToWei 将十进制 ether 字符串转换为 wei, 超出 18 位的小数部分截断
func EtherToWei(ether string) (*big.Int, error) {
	d, err := decimal.NewFromString(ether)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on parse amount %q", ether)
	}
	return d.Shift(EtherDecimals).Truncate(0).BigInt(), nil
}

// MustEtherToWei 同 EtherToWei, 解析失败时 panic, 用于常量和测试
func MustEtherToWei(ether string) *big.Int {
	wei, err := EtherToWei(ether)
	if err != nil {
		panic(err)
	}
	return wei
}

// WeiToEther 将 wei 转换为 ether
func WeiToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals)
}
