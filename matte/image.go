package matte

import (
	"image"

	"golang.org/x/image/draw"
)

// RemoveImage 把任意 image.Image 转为原点在 (0,0)、stride 紧凑的 NRGBA 后去背景
func RemoveImage(img image.Image, opt Options) (*image.NRGBA, error) {
	res, err := MatteImage(img, opt)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// ImageResult MatteImage 的输出
type ImageResult struct {
	*Result
	Image *image.NRGBA
}

// MatteImage 同 RemoveImage，额外返回背景色等中间结果
func MatteImage(img image.Image, opt Options) (*ImageResult, error) {
	src := tightNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	res, err := Matte(src.Pix, w, h, opt)
	if err != nil {
		return nil, err
	}
	return &ImageResult{
		Result: res,
		Image: &image.NRGBA{
			Pix:    res.Pix,
			Stride: w * 4,
			Rect:   image.Rect(0, 0, w, h),
		},
	}, nil
}

func tightNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*4 && len(n.Pix) == n.Stride*b.Dy() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
