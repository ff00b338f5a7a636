package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkleaf/layout"
	canvasrenderer "github.com/ByLCY/inkleaf/renderer/canvas"
)

var (
	renderOutput   string
	renderData     string
	renderDebug    string
	renderSegments bool
	renderVerbose  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "排版并输出 PDF",
	Long: `排版书籍标记或段落数据并输出 PDF。

输入按扩展名识别：.json/.yaml/.yml 为段落数据，其余按书籍标记解析。
图片路径相对输入文件所在目录解析。

示例:
  inkleaf render book.ink
  inkleaf render book.ink -o out/book.pdf --data '{"chapter": 1}'
  inkleaf render book.ink --data @data.yaml --debug out/layout.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "PDF 输出路径（默认与输入同名）")
	renderCmd.Flags().StringVar(&renderData, "data", "", "绑定到书籍标记的 JSON 数据，@file 表示从文件读取")
	renderCmd.Flags().StringVar(&renderDebug, "debug", "", "排版调试 JSON 输出路径")
	renderCmd.Flags().BoolVar(&renderSegments, "segments", false, "在调试 JSON 中附带分段结果")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "输出详细信息")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath := renderOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".pdf"
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := parseData(renderData)
	if err != nil {
		return err
	}

	// 绘制总是使用 canvas 字体面；排版度量按配置选择
	drawMetrics, err := canvasrenderer.NewMetrics(cfg.FontSetName())
	if err != nil {
		return fmt.Errorf("加载字体失败: %w", err)
	}
	metrics, err := newMetrics(cfg, "")
	if err != nil {
		return err
	}
	r := canvasrenderer.NewRenderer(drawMetrics, canvasrenderer.Options{
		BaseDir:      filepath.Dir(inputPath),
		Page:         pageOptions(cfg),
		ParagraphGap: cfg.ParagraphGap(),
		LayerColor:   cfg.Layout.LayerColor,
	})

	opts := buildOptions(cfg, metrics, pageOptions(cfg).ContentWidth())
	opts.Debug.Segments = renderSegments
	res, err := buildResult(inputPath, data, opts)
	if err != nil {
		return err
	}
	if renderVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "输入文件: %s\n", inputPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "段落数: %d，行数: %d\n", len(res.Paragraphs), countLines(res))
		if cache, ok := opts.Layouter.(*canvasrenderer.LineCache); ok {
			hits, misses := cache.Stats()
			fmt.Fprintf(cmd.ErrOrStderr(), "排版缓存: 命中 %d，未命中 %d，条目 %d\n", hits, misses, cache.Len())
		}
		pages, err := r.PageCount(res)
		if err != nil {
			return fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "页数: %d\n", pages)
	}

	if renderDebug != "" {
		if err := writeDebug(res, renderDebug, opts); err != nil {
			return err
		}
	}

	pdfBytes, err := r.Render(res)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s\n", outputPath)
	return nil
}

func writeDebug(res *layout.Result, debugPath string, opts layout.BuildOptions) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(res, debugPath, opts); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func countLines(res *layout.Result) int {
	n := 0
	for _, pl := range res.Paragraphs {
		n += len(pl.Lines)
	}
	return n
}
