package matte

// BuildMask 从四条边上的每个像素出发做 4 连通 BFS，
// 标记所有经由背景色像素与边界相连的像素。
//
// 像素满足以下条件才算背景色：alpha > 0，且与 bg 的 RGB 距离平方 <= tolerance²。
// 不满足的像素出队后直接丢弃，但仍记为 seen，不会被再次入队。
// 返回的 mask 长度为 width*height，下标为 y*width+x。
func BuildMask(pix []uint8, width, height int, bg Color, tolerance float64) []bool {
	total := width * height
	if tolerance < 0 {
		tolerance = 0
	}
	toleranceSq := tolerance * tolerance

	seen := make([]bool, total)
	mask := make([]bool, total)
	queue := make([]int32, total)
	head, tail := 0, 0

	push := func(index int) {
		if seen[index] {
			return
		}
		seen[index] = true
		queue[tail] = int32(index)
		tail++
	}

	for x := 0; x < width; x++ {
		push(x)
		push((height-1)*width + x)
	}
	for y := 0; y < height; y++ {
		push(y * width)
		push(y*width + width - 1)
	}

	isBackground := func(index int) bool {
		i := index * 4
		if pix[i+3] == 0 {
			return false
		}
		dr := int(pix[i]) - int(bg.R)
		dg := int(pix[i+1]) - int(bg.G)
		db := int(pix[i+2]) - int(bg.B)
		return float64(dr*dr+dg*dg+db*db) <= toleranceSq
	}

	for head < tail {
		index := int(queue[head])
		head++
		if !isBackground(index) {
			continue
		}
		mask[index] = true

		y := index / width
		x := index - y*width
		if x > 0 {
			push(index - 1)
		}
		if x < width-1 {
			push(index + 1)
		}
		if y > 0 {
			push(index - width)
		}
		if y < height-1 {
			push(index + width)
		}
	}

	return mask
}
