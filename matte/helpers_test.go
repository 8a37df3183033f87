package matte

// solid 生成 w*h 的纯色 RGBA 缓冲区
func solid(w, h int, c Color, a uint8) []uint8 {
	pix := make([]uint8, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4] = c.R
		pix[i*4+1] = c.G
		pix[i*4+2] = c.B
		pix[i*4+3] = a
	}
	return pix
}

func fillRect(pix []uint8, w, x0, y0, x1, y1 int, c Color, a uint8) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := (y*w + x) * 4
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = a
		}
	}
}

func alphaAt(pix []uint8, w, x, y int) uint8 {
	return pix[(y*w+x)*4+3]
}
