package matte

// DefaultRegionSize SampleRegion 在 size <= 0 时使用的采样边长
const DefaultRegionSize = 18

// SampleRegion 计算以 (x, y) 为左上角、边长 size 的正方形内非全透明像素的 RGB 均值。
// 区域先与图像边界求交，x、y 可以为负或越界。
// 区域内没有 alpha > 0 的像素时返回 White。
func SampleRegion(pix []uint8, width, height, x, y, size int) Color {
	if size <= 0 {
		size = DefaultRegionSize
	}
	x0 := clampInt(x, 0, width)
	y0 := clampInt(y, 0, height)
	x1 := clampInt(x+size, 0, width)
	y1 := clampInt(y+size, 0, height)

	var r, g, b, count int
	for py := y0; py < y1; py++ {
		row := py * width * 4
		for px := x0; px < x1; px++ {
			i := row + px*4
			if pix[i+3] == 0 {
				continue
			}
			r += int(pix[i])
			g += int(pix[i+1])
			b += int(pix[i+2])
			count++
		}
	}

	if count == 0 {
		return White
	}
	return Color{
		R: uint8(roundDiv(r, count)),
		G: uint8(roundDiv(g, count)),
		B: uint8(roundDiv(b, count)),
	}
}

// regionSizeFor 按短边的 6% 取采样边长，限制在 [10, 24]；
// 小图上不超过短边的 1/4，保证四个角的采样区域互不重叠
func regionSizeFor(width, height int) int {
	short := min(width, height)
	return min(clampInt((short*6+50)/100, 10, 24), max(1, short/4))
}

// sampleCorners 依次采样左上、右上、左下、右下四个角
func sampleCorners(pix []uint8, width, height, size int) []Color {
	return []Color{
		SampleRegion(pix, width, height, 0, 0, size),
		SampleRegion(pix, width, height, width-size, 0, size),
		SampleRegion(pix, width, height, 0, height-size, size),
		SampleRegion(pix, width, height, width-size, height-size, size),
	}
}
