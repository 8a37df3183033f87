package palette

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoTone 左半红、右半蓝，四周一圈透明
func twoTone() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 2; y < 18; y++ {
		for x := 2; x < 38; x++ {
			c := color.NRGBA{R: 220, G: 20, B: 20, A: 255}
			if x >= 20 {
				c = color.NRGBA{R: 20, G: 20, B: 220, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParseMethod(t *testing.T) {
	t.Parallel()

	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodDominantColor, m)

	m, err = ParseMethod("kmeans")
	require.NoError(t, err)
	assert.Equal(t, MethodKMeans, m)
	assert.Equal(t, "kmeans", m.String())

	_, err = ParseMethod("median-cut")
	assert.Error(t, err)
}

func TestSamples_SkipTransparent(t *testing.T) {
	t.Parallel()

	px := samples(twoTone())
	assert.Len(t, px, 36*16)
	for _, c := range px {
		assert.Equal(t, uint8(255), c.A)
	}

	assert.Empty(t, samples(image.NewNRGBA(image.Rect(0, 0, 5, 5))))
	assert.Empty(t, samples(image.NewNRGBA(image.Rect(0, 0, 0, 5))))
}

func TestSamples_Subsampled(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	assert.LessOrEqual(t, len(samples(img)), maxSamples)
}

func TestSelectDiverse(t *testing.T) {
	t.Parallel()

	red := colorful.Color{R: 1, G: 0, B: 0}
	nearRed := colorful.Color{R: 0.95, G: 0.05, B: 0}
	blue := colorful.Color{R: 0, G: 0, B: 1}

	cands := []weightedColor{
		{Col: nearRed, Weight: 5},
		{Col: blue, Weight: 1},
		{Col: red, Weight: 10},
	}

	got := selectDiverse(cands, 2)
	require.Len(t, got, 2)
	assert.Equal(t, red.Hex(), got[0].Hex())
	assert.Equal(t, blue.Hex(), got[1].Hex())

	assert.Len(t, selectDiverse(cands, 10), 3)
	assert.Nil(t, selectDiverse(cands, 0))
	assert.Nil(t, selectDiverse(nil, 3))
}

func TestExtract(t *testing.T) {
	t.Parallel()

	for _, m := range []Method{MethodDominantColor, MethodKMeans} {
		m := m
		t.Run(m.String(), func(t *testing.T) {
			t.Parallel()

			got := Extract(twoTone(), 2, m)
			require.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), 2)
			for _, hex := range Hexes(got) {
				assert.Regexp(t, `^#[0-9a-f]{6}$`, hex)
			}

			assert.LessOrEqual(t, len(Extract(twoTone(), 1<<40, m)), MaxColors)
			assert.Nil(t, Extract(image.NewNRGBA(image.Rect(0, 0, 4, 4)), 3, m))
			assert.Nil(t, Extract(twoTone(), 0, m))
		})
	}
}
