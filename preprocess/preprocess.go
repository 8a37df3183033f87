package preprocess

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/chaos-io/cutout/matte"
	"github.com/chaos-io/cutout/rembg"
)

// ErrNoForeground 去背景后没有任何 alpha > 0 的像素
var ErrNoForeground = errors.New("no foreground detected")

// TrimMode 去背景后的裁剪方式
type TrimMode string

const (
	TrimNone   TrimMode = ""
	TrimBBox   TrimMode = "bbox"
	TrimSquare TrimMode = "square"
)

type Preprocessor struct {
	RemBG rembg.Remover
	// MaxSize 最长边上限，0 表示不缩放
	MaxSize int
	Trim    TrimMode
	// SkipTransparent 输入已经带透明信息时不再去背景，只做缩放和裁剪
	SkipTransparent bool
}

func NewPreprocessor(remover rembg.Remover, maxSize int, trim TrimMode) *Preprocessor {
	if remover == nil {
		remover = rembg.NewDefaultRemBG()
	}
	return &Preprocessor{
		RemBG:   remover,
		MaxSize: maxSize,
		Trim:    trim,
	}
}

// Output 预处理结果
type Output struct {
	Image *image.NRGBA
	// Background 估计的背景色，remover 不提供时为空
	Background string
	// BackgroundPixels 被移除的像素数，remover 不提供时为 -1
	BackgroundPixels int
	// Resized 是否做过缩放
	Resized bool
	// InputHadAlpha 输入本身已有非 255 的 alpha
	InputHadAlpha bool
	// Skipped 因 SkipTransparent 跳过了去背景
	Skipped bool
}

// detailedRemover 能额外返回背景色的 remover
type detailedRemover interface {
	Matte(ctx context.Context, img image.Image) (*matte.ImageResult, error)
}

// Process 把输入图片变成
//
//	尺寸 ≤ MaxSize
//	背景像素 alpha 为 0
//	按 Trim 裁剪到主体
func (p *Preprocessor) Process(ctx context.Context, input image.Image) (*Output, error) {
	src := toNRGBA(input)
	resized := resizeWithinMax(src, p.MaxSize)
	out := &Output{
		BackgroundPixels: -1,
		Resized:          resized != src,
		InputHadAlpha:    hasUsefulAlpha(src),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch d, ok := p.RemBG.(detailedRemover); {
	case p.SkipTransparent && out.InputHadAlpha:
		slog.DebugContext(ctx, "input already has transparency, skip background removal")
		out.Skipped = true
		out.Image = cropRect(resized, resized.Bounds())
	case ok:
		res, err := d.Matte(ctx, resized)
		if err != nil {
			return nil, fmt.Errorf("remove background: %w", err)
		}
		out.Image = res.Image
		out.Background = res.Background.Hex()
		out.BackgroundPixels = res.BackgroundPixels
	default:
		img, err := p.RemBG.Remove(ctx, resized)
		if err != nil {
			return nil, fmt.Errorf("remove background: %w", err)
		}
		out.Image = toNRGBA(img)
	}

	if p.Trim == TrimNone {
		return out, nil
	}

	bbox, err := alphaBBox(out.Image, 0)
	if errors.Is(err, ErrNoForeground) {
		slog.WarnContext(ctx, "skip trim", "reason", err)
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	switch p.Trim {
	case TrimSquare:
		out.Image = cropSquare(out.Image, bbox)
	default:
		out.Image = cropRect(out.Image, bbox)
	}
	return out, nil
}

// alphaBBox 从 alpha 通道计算主体 bounding box
// 把 alpha > threshold * 255 的像素当作“主体”
func alphaBBox(img *image.NRGBA, threshold float64) (image.Rectangle, error) {
	b := img.Bounds()
	th := uint8(threshold * 255)

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] <= th {
				continue
			}
			found = true
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if !found {
		return image.Rectangle{}, ErrNoForeground
	}

	return image.Rect(minX, minY, maxX+1, maxY+1), nil
}
