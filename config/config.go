// Package config manages typesetting configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/ByLCY/inkleaf/fonts"
	"github.com/ByLCY/inkleaf/layout"
)

// 度量后端。
const (
	MetricsCanvas = "canvas"
	MetricsGoFont = "gofont"
)

// Config represents the typesetting configuration.
type Config struct {
	Font    FontConfig   `yaml:"font"`
	Page    PageConfig   `yaml:"page"`
	Layout  LayoutConfig `yaml:"layout"`
	Metrics string       `yaml:"metrics"`
	FontSet string       `yaml:"font_set"`
}

// FontConfig 描述正文基础字体。
type FontConfig struct {
	Family     string `yaml:"family"`
	Size       string `yaml:"size"`
	LineHeight string `yaml:"line_height"` // 倍数（1.5 / 1.5x）或绝对长度（24px）
}

// PageConfig 描述 PDF 版面。
type PageConfig struct {
	Width  string `yaml:"width"`
	Height string `yaml:"height"`
	Margin string `yaml:"margin"`
}

// LayoutConfig 描述段落级排版参数。
type LayoutConfig struct {
	LeadingIndent string `yaml:"leading_indent"`
	ParagraphGap  string `yaml:"paragraph_gap"`
	LayerColor    string `yaml:"layer_color,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Font: FontConfig{
			Family:     "serif",
			Size:       "16px",
			LineHeight: "1.5",
		},
		Page: PageConfig{
			Width:  "148mm",
			Height: "210mm",
			Margin: "15mm",
		},
		Layout: LayoutConfig{
			LeadingIndent: "24px",
			ParagraphGap:  "8px",
		},
		Metrics: MetricsCanvas,
		FontSet: string(fonts.LatinModern),
	}
}

// BaseFont 返回配置对应的正文字体描述，字号为像素。
func (c *Config) BaseFont() layout.FontDescriptor {
	font := layout.DefaultFont()
	if c.Font.Family != "" {
		font.FontFamily = c.Font.Family
	}
	if size := layout.ParseRawLengthStr(c.Font.Size).ToPX(); size > 0 {
		font.FontSize = size
	}
	font.LineSpacing = layout.ParseLineHeight(c.Font.LineHeight).Spacing(font.FontSize)
	return font
}

// PageMM 返回版面宽、高与边距（毫米）。
func (c *Config) PageMM() (width, height, margin float64) {
	return mm(c.Page.Width), mm(c.Page.Height), mm(c.Page.Margin)
}

// LeadingIndent 返回首行缩进（像素）。
func (c *Config) LeadingIndent() float64 {
	return layout.ParseRawLengthStr(c.Layout.LeadingIndent).ToPX()
}

// ParagraphGap 返回段间距（像素）。
func (c *Config) ParagraphGap() float64 {
	return layout.ParseRawLengthStr(c.Layout.ParagraphGap).ToPX()
}

// FontSetName 返回内置字体集，未配置时使用 latin-modern。
func (c *Config) FontSetName() fonts.Set {
	if c.FontSet == "" {
		return fonts.LatinModern
	}
	return fonts.Set(c.FontSet)
}

// Validate 检查取值是否可用。
func (c *Config) Validate() error {
	switch strings.ToLower(c.Metrics) {
	case "", MetricsCanvas, MetricsGoFont:
	default:
		return fmt.Errorf("未知的度量后端 %q（可选 %s、%s）", c.Metrics, MetricsCanvas, MetricsGoFont)
	}
	switch c.FontSetName() {
	case fonts.LatinModern, fonts.Go:
	default:
		return fmt.Errorf("未知的内置字体集 %q", c.FontSet)
	}
	for name, v := range map[string]string{
		"font.size":   c.Font.Size,
		"page.width":  c.Page.Width,
		"page.height": c.Page.Height,
	} {
		if v != "" && layout.ParseRawLengthStr(v).Value <= 0 {
			return fmt.Errorf("%s 不是有效长度: %q", name, v)
		}
	}
	return nil
}

func mm(v string) float64 {
	return layout.ParseRawLengthStr(v).ToMM()
}
