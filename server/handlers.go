package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	_ "golang.org/x/image/webp"

	"github.com/chaos-io/cutout/config"
	"github.com/chaos-io/cutout/matte"
	"github.com/chaos-io/cutout/palette"
	"github.com/chaos-io/cutout/preprocess"
	"github.com/chaos-io/cutout/rembg"
)

const (
	headerBackground = "X-Background-Color"
	headerResultID   = "X-Result-Id"
)

// errBadRequest 标记调用方输入错误
var errBadRequest = errors.New("bad request")

type paletteResp struct {
	Background string   `json:"background"`
	Palette    []string `json:"palette"`
}

func (s *Server) removeBackground(c *gin.Context) {
	out, err := s.process(c)
	if err != nil {
		abort(c, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out.Image); err != nil {
		abort(c, fmt.Errorf("encode png: %w", err))
		return
	}
	id, err := s.store.Save(buf.Bytes())
	if err != nil {
		abort(c, err)
		return
	}

	c.Header(headerBackground, out.Background)
	c.Header(headerResultID, id)
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) extractPalette(c *gin.Context) {
	out, err := s.process(c)
	if err != nil {
		abort(c, err)
		return
	}

	k := s.cfg.Image.PaletteSize
	if v := c.PostForm("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > palette.MaxColors {
			abort(c, fmt.Errorf("%w: invalid size %q, want 1-%d", errBadRequest, v, palette.MaxColors))
			return
		}
		k = n
	}

	c.JSON(http.StatusOK, paletteResp{
		Background: out.Background,
		Palette:    palette.Hexes(palette.Extract(out.Image, k, s.method)),
	})
}

func (s *Server) result(c *gin.Context) {
	path, err := s.store.Path(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.File(path)
}

// process 解析上传的图片和参数并去背景
func (s *Server) process(c *gin.Context) (*preprocess.Output, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: image: %v", errBadRequest, err)
	}
	if s.cfg.Server.MaxUploadSize > 0 && fh.Size > s.cfg.Server.MaxUploadSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", errBadRequest, s.cfg.Server.MaxUploadSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	// 先读头部尺寸，避免超大图在解码时占满内存
	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", errBadRequest, err)
	}
	if limit := s.cfg.Server.MaxPixels; limit > 0 && int64(ic.Width)*int64(ic.Height) > limit {
		return nil, fmt.Errorf("%w: image %dx%d exceeds %d pixels", errBadRequest, ic.Width, ic.Height, limit)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", errBadRequest, err)
	}

	settings, err := s.settings(c)
	if err != nil {
		return nil, err
	}
	trim := preprocess.TrimMode(s.cfg.Image.Trim)
	if v, ok := c.GetPostForm("trim"); ok {
		trim = preprocess.TrimMode(v)
		switch trim {
		case preprocess.TrimNone, preprocess.TrimBBox, preprocess.TrimSquare:
		default:
			return nil, fmt.Errorf("%w: unknown trim mode %q", errBadRequest, v)
		}
	}

	p := preprocess.NewPreprocessor(
		rembg.NewFloodFillRemover(settings.Options()),
		s.cfg.Image.MaxSize,
		trim,
	)
	p.SkipTransparent = s.cfg.Image.SkipTransparent
	return p.Process(c.Request.Context(), img)
}

// settings 默认取配置文件中的值，表单字段可以覆盖
func (s *Server) settings(c *gin.Context) (config.Settings, error) {
	settings := s.cfg.Matte
	if v := c.PostForm("tolerance"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return settings, fmt.Errorf("%w: invalid tolerance %q", errBadRequest, v)
		}
		settings.Tolerance = t
	}
	if v := c.PostForm("feather"); v != "" {
		f, err := strconv.Atoi(v)
		if err != nil {
			return settings, fmt.Errorf("%w: invalid feather %q", errBadRequest, v)
		}
		settings.Feather = f
	}
	return settings.Normalize(), nil
}

func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, matte.ErrInvalidDimensions),
		errors.Is(err, matte.ErrEmptyInput):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
