package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkleaf/layout"
)

var (
	layoutOutput   string
	layoutData     string
	layoutWidth    string
	layoutMetrics  string
	layoutSegments bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "排版并输出调试 JSON",
	Long: `排版书籍标记或段落数据，输出每段的行与元素。

--width 覆盖版心宽度（例如 320px、90mm），默认由配置中的页面尺寸计算。
--segments 在输出中附带分段器产出的断点。`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVarP(&layoutOutput, "output", "o", "", "输出文件路径（默认 stdout）")
	layoutCmd.Flags().StringVar(&layoutData, "data", "", "绑定到书籍标记的 JSON 数据，@file 表示从文件读取")
	layoutCmd.Flags().StringVar(&layoutWidth, "width", "", "版心宽度")
	layoutCmd.Flags().StringVar(&layoutMetrics, "metrics", "", "度量后端（canvas 或 gofont，默认取配置）")
	layoutCmd.Flags().BoolVar(&layoutSegments, "segments", false, "附带分段结果")

	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := parseData(layoutData)
	if err != nil {
		return err
	}
	metrics, err := newMetrics(cfg, layoutMetrics)
	if err != nil {
		return err
	}

	width := pageOptions(cfg).ContentWidth()
	if layoutWidth != "" {
		width = layout.ParseRawLengthStr(layoutWidth).ToPX()
		if width <= 0 {
			return fmt.Errorf("无效的版心宽度: %q", layoutWidth)
		}
	}
	opts := buildOptions(cfg, metrics, width)
	opts.Debug.Segments = layoutSegments

	res, err := buildResult(args[0], data, opts)
	if err != nil {
		return err
	}

	if layoutOutput == "" {
		return layout.EncodeDebugJSON(cmd.OutOrStdout(), res, opts)
	}
	if err := os.MkdirAll(filepath.Dir(layoutOutput), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return layout.WriteDebugJSON(res, layoutOutput, opts)
}
