package helper

import (
	"github.com/shopspring/decimal"
)

// TrimDecimal 四舍五入到 2 位小数的字符串表示
func TrimDecimal(val decimal.Decimal) string {
	return val.StringFixed(2)
}

// FormatUnits 将代币最小单位（百分位）折算为带两位小数的显示金额
// 例：12345 -> "123.45"
func FormatUnits(units int64) string {
	return TrimDecimal(decimal.New(units, -2))
}
