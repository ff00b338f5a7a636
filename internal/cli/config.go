package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/inkleaf/config"
	"github.com/ByLCY/inkleaf/fonts"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置管理",
	Long: `管理 inkleaf 配置。

配置文件位置: ~/.inkleaf/config.yaml（可用 --config 指定）

子命令:
  show    显示当前配置
  init    生成默认配置文件
  path    显示配置文件路径`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前配置",
	Long: `显示当前生效的配置。

配置中的 ${ENV} 会被替换为环境变量的值；配置文件不存在时显示默认值。`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "生成默认配置文件",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "显示配置文件路径",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "覆盖已有配置文件")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	if loader.Exists() {
		fmt.Fprintf(cmd.OutOrStdout(), "配置文件: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "配置文件: （使用默认值）\n\n")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("输出配置失败: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	font := cfg.BaseFont()
	fmt.Fprintf(cmd.OutOrStdout(), "\n正文: %s %.4gpx，行高 %.4gpx，版心宽度 %.4gpx\n",
		font.FontFamily, font.FontSize, font.LineHeight(), pageOptions(cfg).ContentWidth())
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	if loader.Exists() && !configForce {
		return fmt.Errorf("配置文件已存在: %s\n覆盖请使用 --force", loader.ConfigPath())
	}
	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("生成配置文件失败: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已生成配置文件: %s\n", loader.ConfigPath())
	return nil
}

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "列出内置字体",
	Long: `列出可用 embed:<set>/<family>-<style> 引用的内置字体。

--check 会逐个加载字体数据。`,
	RunE: runFonts,
}

var fontsCheck bool

func init() {
	fontsCmd.Flags().BoolVar(&fontsCheck, "check", false, "加载每个字体并报告大小")
	rootCmd.AddCommand(fontsCmd)
}

func runFonts(cmd *cobra.Command, args []string) error {
	for _, name := range fonts.Names() {
		if !fontsCheck {
			fmt.Fprintln(cmd.OutOrStdout(), name)
			continue
		}
		data, err := fonts.Load(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", name, len(data))
	}
	return nil
}
