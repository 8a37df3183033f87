package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaos-io/cutout/matte"
)

const (
	DefaultTolerance = 32
	DefaultFeather   = 2

	MinTolerance = 5
	MaxTolerance = 90
	MaxFeather   = 12
)

// Settings 去背景参数，对应编辑器里的两个滑块
type Settings struct {
	Tolerance float64 `yaml:"tolerance"`
	Feather   int     `yaml:"feather"`
}

// Normalize 调用方策略：tolerance 限制在 [5, 90]，为 0 或非有限值时取默认值；
// feather 限制在 [0, 12]。引擎本身不做这些限制。
func (s Settings) Normalize() Settings {
	t := s.Tolerance
	if t == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		t = DefaultTolerance
	}
	t = math.Round(t)
	t = math.Max(MinTolerance, math.Min(MaxTolerance, t))

	f := max(0, min(MaxFeather, s.Feather))
	return Settings{Tolerance: t, Feather: f}
}

// Options 转为引擎参数
func (s Settings) Options() matte.Options {
	n := s.Normalize()
	return matte.Options{Tolerance: n.Tolerance, Feather: n.Feather}
}

type ImageConfig struct {
	// MaxSize 最长边上限，超过则先缩放，0 表示不缩放
	MaxSize int `yaml:"max_size"`
	// Trim 裁剪方式: "" 不裁剪, "bbox" 裁到主体, "square" 以主体为中心裁正方形
	Trim          string `yaml:"trim"`
	PaletteSize   int    `yaml:"palette_size"`
	PaletteMethod string `yaml:"palette_method"`
	// SkipTransparent 输入自带透明通道时跳过去背景
	SkipTransparent bool `yaml:"skip_transparent"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	OutputDir string `yaml:"output_dir"`
	// Retention 结果文件保留时长
	Retention   time.Duration `yaml:"retention"`
	CleanupSpec string        `yaml:"cleanup_spec"`
	// MaxUploadSize 上传文件大小上限（字节）
	MaxUploadSize int64 `yaml:"max_upload_size"`
	// MaxPixels 解码前按图像头部尺寸限制的像素总数，0 表示不限制
	MaxPixels int64 `yaml:"max_pixels"`
}

type Config struct {
	Matte  Settings     `yaml:"matte"`
	Image  ImageConfig  `yaml:"image"`
	Server ServerConfig `yaml:"server"`
}

func Default() *Config {
	return &Config{
		Matte: Settings{
			Tolerance: DefaultTolerance,
			Feather:   DefaultFeather,
		},
		Image: ImageConfig{
			MaxSize:       4096,
			PaletteSize:   5,
			PaletteMethod: "dominantcolor",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			OutputDir:     "./output",
			Retention:     24 * time.Hour,
			CleanupSpec:   "@every 1h",
			MaxUploadSize: 32 << 20,
			MaxPixels:     40_000_000,
		},
	}
}

// Load 读取 YAML 配置，文件中没有的字段保留默认值。
// path 为空或文件不存在时返回默认配置。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save 写回配置文件，用于保存用户最近一次使用的参数
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Image.Trim {
	case "", "bbox", "square":
	default:
		return fmt.Errorf("unknown trim mode %q", c.Image.Trim)
	}
	if c.Image.MaxSize < 0 {
		return fmt.Errorf("max_size must not be negative, got %d", c.Image.MaxSize)
	}
	if c.Server.Retention < 0 {
		return fmt.Errorf("retention must not be negative, got %s", c.Server.Retention)
	}
	if c.Server.MaxPixels < 0 {
		return fmt.Errorf("max_pixels must not be negative, got %d", c.Server.MaxPixels)
	}
	return nil
}
