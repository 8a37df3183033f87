package rembg

import (
	"context"
	"image"
	"log/slog"

	"github.com/chaos-io/cutout/config"
	"github.com/chaos-io/cutout/matte"
)

type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// FloodFillRemover 用边界 flood fill 去掉纯色背景
type FloodFillRemover struct {
	opt matte.Options
}

func NewFloodFillRemover(opt matte.Options) *FloodFillRemover {
	return &FloodFillRemover{opt: opt}
}

// NewDefaultRemBG 使用默认 tolerance/feather 的 FloodFillRemover
func NewDefaultRemBG() *FloodFillRemover {
	return NewFloodFillRemover(config.Default().Matte.Options())
}

func (f *FloodFillRemover) Options() matte.Options {
	return f.opt
}

func (f *FloodFillRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	res, err := f.Matte(ctx, img)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// Matte 同 Remove，额外返回估计的背景色等信息
func (f *FloodFillRemover) Matte(ctx context.Context, img image.Image) (*matte.ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := matte.MatteImage(img, f.opt)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "background removed",
		"background", res.Background.Hex(),
		"region", res.RegionSize,
		"pixels", res.BackgroundPixels,
		"tolerance", f.opt.Tolerance,
		"feather", f.opt.Feather)
	return res, nil
}
