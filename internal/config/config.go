// Package config 加载 ipconv 的配置文件。
//
// 配置文件支持 YAML 与 JSON，字段使用 koanf 标签：
//
//	log:
//	  level: info
//	  format: text
//	  file: ""            # 非空时写入文件并按体积轮转
//	render:
//	  shorten: true
//	  remove_zeroes: false
//	validate:
//	  strict: true
//	cache:
//	  size: 1024          # 0 表示不缓存
//	batch:
//	  workers: 8
//	output: text          # text 或 json
//
// 文件中缺失的字段保留 [Default] 的值。
package config

import (
	"fmt"
	"strings"

	"github.com/omeyang/xip/pkg/observability/xlog"
	"github.com/omeyang/xip/pkg/util/xip"
)

// 输出格式
const (
	OutputText = "text"
	OutputJSON = "json"
)

// 上限值，防止配置错误导致资源耗尽。
const (
	maxWorkers   = 1024
	maxCacheSize = 1 << 20
)

// Config 是 ipconv 的完整配置。
type Config struct {
	Log        LogConfig      `koanf:"log"`
	Render     RenderConfig   `koanf:"render"`
	Validation ValidateConfig `koanf:"validate"`
	Cache      CacheConfig    `koanf:"cache"`
	Batch      BatchConfig    `koanf:"batch"`
	Output     string         `koanf:"output"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      xlog.Level `koanf:"level"`
	Format     string     `koanf:"format"`
	File       string     `koanf:"file"`
	MaxSizeMB  int        `koanf:"max_size_mb"`
	MaxBackups int        `koanf:"max_backups"`
	MaxAgeDays int        `koanf:"max_age_days"`
	Compress   bool       `koanf:"compress"`
}

// RenderConfig IPv6 文本渲染配置。
type RenderConfig struct {
	Shorten      bool `koanf:"shorten"`
	RemoveZeroes bool `koanf:"remove_zeroes"`
}

// ValidateConfig 校验策略配置。
type ValidateConfig struct {
	Strict bool `koanf:"strict"`
}

// CacheConfig 解析缓存配置。
type CacheConfig struct {
	Size int `koanf:"size"`
}

// BatchConfig 批量转换配置。
type BatchConfig struct {
	Workers int `koanf:"workers"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      xlog.LevelInfo,
			Format:     "text",
			MaxSizeMB:  xlog.DefaultMaxSizeMB,
			MaxBackups: xlog.DefaultMaxBackups,
			MaxAgeDays: xlog.DefaultMaxAgeDays,
		},
		Render:     RenderConfig{Shorten: true},
		Validation: ValidateConfig{Strict: true},
		Cache:      CacheConfig{Size: 1024},
		Batch:      BatchConfig{Workers: 8},
		Output:     OutputText,
	}
}

// Validate 检查配置取值，返回第一个错误。
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidValue, c.Log.Format)
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: output %q", ErrInvalidValue, c.Output)
	}
	if c.Batch.Workers < 1 || c.Batch.Workers > maxWorkers {
		return fmt.Errorf("%w: batch.workers %d not in [1, %d]", ErrInvalidValue, c.Batch.Workers, maxWorkers)
	}
	if c.Cache.Size < 0 || c.Cache.Size > maxCacheSize {
		return fmt.Errorf("%w: cache.size %d not in [0, %d]", ErrInvalidValue, c.Cache.Size, maxCacheSize)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalidValue)
	}
	return nil
}

// Strictness 返回配置对应的校验策略。
func (c Config) Strictness() xip.Strictness {
	if c.Validation.Strict {
		return xip.Strict
	}
	return xip.Lenient
}

// FormatOptions 返回配置对应的 IPv6 渲染选项。
func (c Config) FormatOptions() []xip.FormatOption {
	return []xip.FormatOption{
		xip.WithShorten(c.Render.Shorten),
		xip.WithRemoveZeroes(c.Render.RemoveZeroes),
	}
}
