package matte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleRegion(t *testing.T) {
	t.Parallel()

	gray := Color{R: 100, G: 100, B: 100}
	red := Color{R: 200, G: 10, B: 10}

	tests := []struct {
		name string
		w, h int
		pix  func() []uint8
		x, y int
		size int
		want Color
	}{
		{
			name: "uniform region",
			w: 8, h: 8,
			pix:  func() []uint8 { return solid(8, 8, gray, 255) },
			size: 4,
			want: gray,
		},
		{
			name: "average is rounded",
			w: 2, h: 1,
			pix: func() []uint8 {
				p := solid(2, 1, Color{R: 10, G: 0, B: 0}, 255)
				fillRect(p, 2, 1, 0, 2, 1, Color{R: 11, G: 1, B: 2}, 255)
				return p
			},
			size: 2,
			want: Color{R: 11, G: 1, B: 1},
		},
		{
			name: "transparent pixels are ignored",
			w: 4, h: 4,
			pix: func() []uint8 {
				p := solid(4, 4, gray, 255)
				fillRect(p, 4, 0, 0, 2, 2, red, 0)
				return p
			},
			size: 4,
			want: gray,
		},
		{
			name: "fully transparent region returns white",
			w: 4, h: 4,
			pix:  func() []uint8 { return solid(4, 4, red, 0) },
			size: 4,
			want: White,
		},
		{
			name: "negative origin is clamped",
			w: 6, h: 6,
			pix: func() []uint8 {
				p := solid(6, 6, gray, 255)
				fillRect(p, 6, 2, 2, 6, 6, red, 255)
				return p
			},
			x: -2, y: -2, size: 4,
			want: gray,
		},
		{
			name: "region past the bottom-right corner",
			w: 6, h: 6,
			pix: func() []uint8 {
				p := solid(6, 6, gray, 255)
				fillRect(p, 6, 5, 5, 6, 6, red, 255)
				return p
			},
			x: 5, y: 5, size: 18,
			want: red,
		},
		{
			name: "region entirely outside bounds returns white",
			w: 4, h: 4,
			pix:  func() []uint8 { return solid(4, 4, gray, 255) },
			x:    10, y: 10, size: 4,
			want: White,
		},
		{
			name: "zero size falls back to default",
			w: 30, h: 30,
			pix:  func() []uint8 { return solid(30, 30, red, 255) },
			size: 0,
			want: red,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SampleRegion(tt.pix(), tt.w, tt.h, tt.x, tt.y, tt.size)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegionSizeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, regionSizeFor(4, 4))
	assert.Equal(t, 1, regionSizeFor(1, 9))
	assert.Equal(t, 2, regionSizeFor(10, 10))
	assert.Equal(t, 8, regionSizeFor(32, 32))
	assert.Equal(t, 10, regionSizeFor(40, 40))
	assert.Equal(t, 10, regionSizeFor(100, 1000))
	assert.Equal(t, 12, regionSizeFor(200, 200))
	assert.Equal(t, 18, regionSizeFor(300, 400))
	assert.Equal(t, 24, regionSizeFor(4000, 3000))
}
