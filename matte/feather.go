package matte

// MaxFeatherRadius 羽化半径上限，超出的请求会被静默截断
const MaxFeatherRadius = 20

// FeatherAlpha 对 alpha 通道做可分离的盒式模糊：先逐行，再逐列。
// 每个方向维护 2r+1 个样本的滑动窗口和，越界样本取最近的边缘像素。
// radius < 1 时原样返回 alpha。
func FeatherAlpha(alpha []uint8, width, height, radius int) []uint8 {
	if radius < 1 {
		return alpha
	}

	r := min(radius, MaxFeatherRadius)
	windowSize := 2*r + 1
	tmp := make([]uint8, len(alpha))
	out := make([]uint8, len(alpha))

	// 水平
	for y := 0; y < height; y++ {
		row := y * width
		sum := 0
		for x := -r; x <= r; x++ {
			sum += int(alpha[row+clampInt(x, 0, width-1)])
		}
		for x := 0; x < width; x++ {
			tmp[row+x] = uint8(roundDiv(sum, windowSize))

			removeX := clampInt(x-r, 0, width-1)
			addX := clampInt(x+r+1, 0, width-1)
			sum += int(alpha[row+addX]) - int(alpha[row+removeX])
		}
	}

	// 垂直
	for x := 0; x < width; x++ {
		sum := 0
		for y := -r; y <= r; y++ {
			sum += int(tmp[clampInt(y, 0, height-1)*width+x])
		}
		for y := 0; y < height; y++ {
			out[y*width+x] = uint8(roundDiv(sum, windowSize))

			removeY := clampInt(y-r, 0, height-1)
			addY := clampInt(y+r+1, 0, height-1)
			sum += int(tmp[addY*width+x]) - int(tmp[removeY*width+x])
		}
	}

	return out
}
