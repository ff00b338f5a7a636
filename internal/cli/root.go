// Package cli implements the inkleaf command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkleaf/config"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "inkleaf",
	Short: "电子书段落排版引擎",
	Long: `inkleaf 把书籍标记或段落数据排成行，并可输出 PDF。

排版结果中的每一行都按字体与句子切成元素，
可用于高亮朗读中的句子或分享单句。

示例:
  inkleaf render book.ink -o book.pdf
  inkleaf layout book.ink --segments
  inkleaf sentences "Hi there. Bye now."`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认 ~/.inkleaf/config.yaml）")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("初始化配置加载器失败: %w", err)
	}
	return loader, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "inkleaf %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
