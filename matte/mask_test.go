package matte

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bgColor = Color{R: 10, G: 10, B: 10}
	fgColor = Color{R: 200, G: 50, B: 50}
)

func countTrue(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

func TestBuildMask_Uniform(t *testing.T) {
	t.Parallel()

	pix := solid(7, 5, bgColor, 255)
	mask := BuildMask(pix, 7, 5, bgColor, 0)
	require.Len(t, mask, 35)
	assert.Equal(t, 35, countTrue(mask))
}

func TestBuildMask_EnclosedHoleIsKept(t *testing.T) {
	t.Parallel()

	const w, h = 12, 10
	pix := solid(w, h, bgColor, 255)
	fillRect(pix, w, 3, 2, 9, 8, fgColor, 255)
	// 前景内部的背景色空洞
	fillRect(pix, w, 5, 4, 7, 6, bgColor, 255)

	mask := BuildMask(pix, w, h, bgColor, 20)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			inRect := x >= 3 && x < 9 && y >= 2 && y < 8
			assert.Equal(t, !inRect, mask[y*w+x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestBuildMask_Tolerance(t *testing.T) {
	t.Parallel()

	const w, h = 5, 5
	pix := solid(w, h, bgColor, 255)
	// 距离平方 = 3*4*4 = 48
	near := Color{R: 14, G: 14, B: 14}
	fillRect(pix, w, 0, 0, w, 1, near, 255)

	tests := []struct {
		name      string
		tolerance float64
		want      int
	}{
		{name: "exact match only", tolerance: 0, want: 20},
		{name: "just below", tolerance: 6.9, want: 20},
		{name: "just enough", tolerance: 7, want: 25},
		{name: "negative behaves as zero", tolerance: -30, want: 20},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mask := BuildMask(pix, w, h, bgColor, tt.tolerance)
			assert.Equal(t, tt.want, countTrue(mask))
		})
	}
}

func TestBuildMask_TransparentPixelsAreInert(t *testing.T) {
	t.Parallel()

	const w, h = 6, 6
	pix := solid(w, h, bgColor, 255)
	// 透明的一整列把右半边和左边界隔开，但右半边自己贴着边界
	fillRect(pix, w, 2, 0, 3, h, bgColor, 0)

	mask := BuildMask(pix, w, h, bgColor, 5)
	for y := 0; y < h; y++ {
		assert.False(t, mask[y*w+2])
	}
	assert.Equal(t, w*h-h, countTrue(mask))

	// 全透明的图像不会产生任何背景
	transparent := solid(w, h, bgColor, 0)
	assert.Zero(t, countTrue(BuildMask(transparent, w, h, bgColor, 90)))
}

func TestBuildMask_SingleRowAndColumn(t *testing.T) {
	t.Parallel()

	row := solid(9, 1, bgColor, 255)
	fillRect(row, 9, 4, 0, 5, 1, fgColor, 255)
	mask := BuildMask(row, 9, 1, bgColor, 10)
	assert.Equal(t, 8, countTrue(mask))
	assert.False(t, mask[4])

	col := solid(1, 9, bgColor, 255)
	mask = BuildMask(col, 1, 9, bgColor, 10)
	assert.Equal(t, 9, countTrue(mask))

	one := solid(1, 1, fgColor, 255)
	assert.Equal(t, []bool{false}, BuildMask(one, 1, 1, bgColor, 10))
}

func TestBuildMask_ContaminatedEstimate(t *testing.T) {
	t.Parallel()

	pix := solid(4, 4, bgColor, 255)
	mask := BuildMask(pix, 4, 4, fgColor, 0)
	assert.Zero(t, countTrue(mask))
}

func TestBuildMask_DiagonalIsNotConnected(t *testing.T) {
	t.Parallel()

	const w, h = 5, 5
	pix := solid(w, h, fgColor, 255)
	// (1,1) 只和边界上的 (0,0) 对角相邻
	fillRect(pix, w, 0, 0, 1, 1, bgColor, 255)
	fillRect(pix, w, 1, 1, 2, 2, bgColor, 255)

	mask := BuildMask(pix, w, h, bgColor, 10)
	assert.True(t, mask[0])
	assert.False(t, mask[1*w+1])
	assert.Equal(t, 1, countTrue(mask))
}

func TestBuildMask_SeedOrderIndependent(t *testing.T) {
	t.Parallel()

	const w, h = 23, 17
	rng := rand.New(rand.NewSource(42))
	pix := solid(w, h, bgColor, 255)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Intn(3) == 0 {
				fillRect(pix, w, x, y, x+1, y+1, fgColor, 255)
			}
		}
	}

	// 旋转 180°，边界种子的遍历顺序随之反转
	total := w * h
	rotated := make([]uint8, len(pix))
	for i := 0; i < total; i++ {
		copy(rotated[(total-1-i)*4:(total-i)*4], pix[i*4:(i+1)*4])
	}

	mask := BuildMask(pix, w, h, bgColor, 10)
	rotatedMask := BuildMask(rotated, w, h, bgColor, 10)
	require.Greater(t, countTrue(mask), 0)
	for i := 0; i < total; i++ {
		assert.Equal(t, mask[i], rotatedMask[total-1-i], "pixel %d", i)
	}
}
