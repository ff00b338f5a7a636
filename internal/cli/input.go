package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/inkleaf/config"
	"github.com/ByLCY/inkleaf/dsl"
	"github.com/ByLCY/inkleaf/fonts"
	"github.com/ByLCY/inkleaf/layout"
	canvasrenderer "github.com/ByLCY/inkleaf/renderer/canvas"
)

// paragraphFile 是 JSON/YAML 段落输入的结构。
type paragraphFile struct {
	Meta       layout.DocumentMeta `json:"meta" yaml:"meta"`
	Paragraphs []layout.Paragraph  `json:"paragraphs" yaml:"paragraphs"`
}

// inputKind 按扩展名区分输入：.json/.yaml/.yml 为段落数据，其余按书籍标记解析。
func inputKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "dsl"
	}
}

// parseData 解析绑定数据：以 @ 开头表示文件（JSON 或 YAML），否则按 JSON 字符串解析。
func parseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var data any
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件 %s 失败: %w", path, err)
		}
		if inputKind(path) == "yaml" {
			if err := yaml.Unmarshal(content, &data); err != nil {
				return nil, fmt.Errorf("解析数据 YAML 失败: %w", err)
			}
			return data, nil
		}
		raw = string(content)
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("解析数据 JSON 失败: %w", err)
	}
	return data, nil
}

// buildResult 读取输入并逐段排版。
func buildResult(path string, data any, opts layout.BuildOptions) (*layout.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开输入文件 %s: %w", path, err)
	}
	switch inputKind(path) {
	case "json", "yaml":
		var pf paragraphFile
		if inputKind(path) == "json" {
			err = json.Unmarshal(content, &pf)
		} else {
			err = yaml.Unmarshal(content, &pf)
		}
		if err != nil {
			return nil, fmt.Errorf("解析段落文件 %s 失败: %w", path, err)
		}
		return layout.BuildParagraphs(pf.Meta, pf.Paragraphs, opts), nil
	default:
		doc, err := dsl.ParseFile(path, bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("解析书籍标记失败: %w", err)
		}
		res, err := layout.BuildDocument(doc, data, opts)
		if err != nil {
			return nil, fmt.Errorf("排版失败: %w", err)
		}
		return res, nil
	}
}

// newMetrics 按配置选择度量后端。
func newMetrics(cfg *config.Config, backend string) (layout.FontMetricsProvider, error) {
	if backend == "" {
		backend = cfg.Metrics
	}
	switch strings.ToLower(backend) {
	case config.MetricsGoFont:
		return fonts.NewGoFontProvider(cfg.FontSetName())
	case "", config.MetricsCanvas:
		return canvasrenderer.NewMetrics(cfg.FontSetName())
	default:
		return nil, fmt.Errorf("未知的度量后端 %q", backend)
	}
}

// buildOptions 由配置得到文档级排版参数，maxWidth 为版心宽度（像素）。
func buildOptions(cfg *config.Config, metrics layout.FontMetricsProvider, maxWidth float64) layout.BuildOptions {
	return layout.BuildOptions{
		Metrics:       metrics,
		BaseFont:      cfg.BaseFont(),
		MaxTextWidth:  maxWidth,
		LeadingIndent: cfg.LeadingIndent(),
		Layouter:      canvasrenderer.NewLineCache(),
	}
}

func pageOptions(cfg *config.Config) canvasrenderer.PageOptions {
	w, h, m := cfg.PageMM()
	return canvasrenderer.PageOptions{Width: w, Height: h, Margin: m}
}
