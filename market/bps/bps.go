// Package bps 基点 (basis points) 整数运算
// 所有比例均以 10000 = 100% 表示, 除法一律向下取整, 不使用浮点数
package bps

import (
	"fmt"
	"math/big"
)

// Denominator 基点分母, 10000 = 100%
const Denominator = 10000

var denominator = big.NewInt(Denominator)

// Bps 以基点表示的百分比
type Bps uint64

// Of 计算 amount * p / 10000 (向下取整)
func (p Bps) Of(amount *big.Int) *big.Int {
	if amount == nil || amount.Sign() == 0 || p == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(p)))
	return out.Quo(out, denominator)
}

// GrossUp 在净价上加上按 p 计算的费用: net + net*p/10000
func (p Bps) GrossUp(net *big.Int) *big.Int {
	return new(big.Int).Add(net, p.Of(net))
}

// NetOf 反推含费金额对应的净价: gross * 10000 / (10000 + p) (向下取整)
func (p Bps) NetOf(gross *big.Int) *big.Int {
	if gross == nil || gross.Sign() == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(gross, denominator)
	return out.Quo(out, new(big.Int).SetUint64(Denominator+uint64(p)))
}

// Valid 判断 p 是否在 [0, ceiling] 区间内
func (p Bps) Valid(ceiling Bps) bool {
	return p <= ceiling
}

func (p Bps) String() string {
	return fmt.Sprintf("%d.%02d%%", p/100, p%100)
}
