// Package palette 提取抠图结果中前景（非透明像素）的主要颜色。
package palette

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type Method int

const (
	MethodDominantColor Method = iota
	MethodKMeans
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParseMethod 解析配置中的方法名，空字符串视为 dominantcolor
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "dominantcolor":
		return MethodDominantColor, nil
	case "kmeans":
		return MethodKMeans, nil
	default:
		return 0, fmt.Errorf("unknown palette method %q", s)
	}
}

const (
	// maxSamples 参与聚类的最大像素数
	maxSamples = 12000
	// MaxColors 单次提取的颜色数上限
	MaxColors = 64
)

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// Extract 提取至多 k 个前景颜色（k 超过 MaxColors 时按 MaxColors 处理），
// 没有前景像素时返回 nil
func Extract(img image.Image, k int, method Method) []colorful.Color {
	k = min(k, MaxColors)
	switch method {
	case MethodKMeans:
		return ExtractKMeans(img, k)
	default:
		return ExtractDominant(img, k)
	}
}

// Hexes 转为 #rrggbb 字符串
func Hexes(palette []colorful.Color) []string {
	out := make([]string, 0, len(palette))
	for _, c := range palette {
		out = append(out, c.Clamped().Hex())
	}
	return out
}

// samples 按步长采样 alpha > 0 的像素，返回不透明的颜色
func samples(img image.Image) []color.NRGBA {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	out := make([]color.NRGBA, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			c.A = 255
			out = append(out, c)
		}
	}
	return out
}

// ExtractDominant 用 dominantcolor 提取颜色。
// 透明像素先被剔除，剩余像素循环铺满一张正方形图交给 dominantcolor。
func ExtractDominant(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	px := samples(img)
	if len(px) == 0 {
		return nil
	}

	side := int(math.Ceil(math.Sqrt(float64(len(px)))))
	tile := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < side*side; i++ {
		tile.SetNRGBA(i%side, i/side, px[i%len(px)])
	}

	candidates := dominantcolor.FindWeight(tile, max(24, k*8))
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: w})
	}
	return selectDiverse(weighted, k)
}

// ExtractKMeans 用 k-means 聚类提取颜色，按簇大小加权
func ExtractKMeans(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	px := samples(img)
	if len(px) == 0 {
		return nil
	}

	dataset := make(clusters.Observations, 0, len(px))
	for _, c := range px {
		dataset = append(dataset, clusters.Coordinates{
			float64(c.R) / 255.0,
			float64(c.G) / 255.0,
			float64(c.B) / 255.0,
		})
	}

	workK := min(max(k*4, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse 先取权重最大的颜色，之后每次取与已选颜色
// Lab 距离最远（按权重修正）的候选，直到选满 k 个
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		col := c.Col.Clamped()
		l, a, b := col.Lab()
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		maxW = max(maxW, w)
		items = append(items, item{col: col, lab: [3]float64{l, a, b}, w: w})
	}
	k = min(k, len(items))

	selected := make([]bool, len(items))
	best := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[best].w {
			best = i
		}
	}
	order := []int{best}
	selected[best] = true

	for len(order) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range order {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		order = append(order, bestIdx)
	}

	out := make([]colorful.Color, 0, len(order))
	for _, idx := range order {
		out = append(out, items[idx].col)
	}
	return out
}
