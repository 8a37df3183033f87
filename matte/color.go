package matte

import "fmt"

// Color 不带 alpha 的 8 位 RGB 颜色
type Color struct {
	R, G, B uint8
}

// White 采样区域没有可见像素时返回的哨兵颜色
var White = Color{R: 255, G: 255, B: 255}

// DistanceSq 两个颜色的欧氏距离平方，不开方
func (c Color) DistanceSq(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Hex 格式化为 #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundDiv 非负整数除法，四舍五入
func roundDiv(sum, n int) int {
	return (2*sum + n) / (2 * n)
}
