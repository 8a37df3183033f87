// Package matte 去除与图像边界相连的纯色背景。
//
// 流程：采样四个角 → 选出背景色 → 从边界做 flood fill 得到背景 mask →
// 背景像素 alpha 置 0 → 可选地对剩余 alpha 做盒式模糊羽化。
// 所有函数都是同步的纯计算，不保留任何状态，可以并发调用。
package matte

import "fmt"

// Options 去背景参数
type Options struct {
	// Tolerance 与背景色的 RGB 欧氏距离阈值，建议 5-90
	Tolerance float64
	// Feather 羽化半径（像素），0 表示不羽化，最大 MaxFeatherRadius
	Feather int
}

// Result Matte 的输出
type Result struct {
	// Pix 新分配的 RGBA 缓冲区，尺寸与输入相同
	Pix []uint8
	// Background 估计出的背景色
	Background Color
	// RegionSize 角落采样的边长
	RegionSize int
	// BackgroundPixels 被判为背景的像素数
	BackgroundPixels int
}

// Remove 对 RGBA 缓冲区去背景，返回新的缓冲区，不修改 pix
func Remove(pix []uint8, width, height int, opt Options) ([]uint8, error) {
	res, err := Matte(pix, width, height, opt)
	if err != nil {
		return nil, err
	}
	return res.Pix, nil
}

// Matte 同 Remove，额外返回背景色等中间结果
func Matte(pix []uint8, width, height int, opt Options) (*Result, error) {
	if err := validate(pix, width, height); err != nil {
		return nil, err
	}

	total := width * height
	region := regionSizeFor(width, height)
	bg := EstimateBackground(sampleCorners(pix, width, height, region))
	mask := BuildMask(pix, width, height, bg, opt.Tolerance)

	out := make([]uint8, len(pix))
	copy(out, pix)

	alpha := make([]uint8, total)
	count := 0
	for p := 0; p < total; p++ {
		if mask[p] {
			out[p*4+3] = 0
			count++
			continue
		}
		alpha[p] = pix[p*4+3]
	}

	if opt.Feather > 0 {
		blurred := FeatherAlpha(alpha, width, height, opt.Feather)
		for p := 0; p < total; p++ {
			// 背景和原本全透明的像素保持为 0
			if !mask[p] && pix[p*4+3] != 0 {
				out[p*4+3] = blurred[p]
			}
		}
	}

	return &Result{
		Pix:              out,
		Background:       bg,
		RegionSize:       region,
		BackgroundPixels: count,
	}, nil
}

func validate(pix []uint8, width, height int) error {
	if width == 0 || height == 0 {
		return ErrEmptyInput
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != width*height*4 {
		return fmt.Errorf("%w: buffer length %d, want %d for %dx%d",
			ErrInvalidDimensions, len(pix), width*height*4, width, height)
	}
	return nil
}
