package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkleaf/sentence"
)

var (
	sentencesFile  string
	sentencesIndex int
	sentencesAt    int
)

var sentencesCmd = &cobra.Command{
	Use:   "sentences [text]",
	Short: "切分段落中的句子",
	Long: `按句末标点切分段落文本，列出每个句子的序号、起点与长度（按字符计）。

--index 只输出指定句子的文本，便于分享单句；
--at 输出包含指定字符偏移的句子序号。`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSentences,
}

func init() {
	sentencesCmd.Flags().StringVarP(&sentencesFile, "file", "f", "", "从文件读取段落文本")
	sentencesCmd.Flags().IntVar(&sentencesIndex, "index", -1, "只输出第 N 个句子")
	sentencesCmd.Flags().IntVar(&sentencesAt, "at", -1, "查询字符偏移所在的句子序号")

	rootCmd.AddCommand(sentencesCmd)
}

func runSentences(cmd *cobra.Command, args []string) error {
	var text string
	switch {
	case sentencesFile != "":
		content, err := os.ReadFile(sentencesFile)
		if err != nil {
			return fmt.Errorf("读取文件 %s 失败: %w", sentencesFile, err)
		}
		text = strings.TrimRight(string(content), "\n")
	case len(args) == 1:
		text = args[0]
	default:
		return fmt.Errorf("需要段落文本或 --file")
	}

	out := cmd.OutOrStdout()
	if sentencesAt >= 0 {
		fmt.Fprintln(out, sentence.Index(text, sentencesAt))
		return nil
	}
	if sentencesIndex >= 0 {
		if sentencesIndex >= sentence.Count(text) {
			return fmt.Errorf("句子序号越界: %d（共 %d 句）", sentencesIndex, sentence.Count(text))
		}
		fmt.Fprintln(out, sentence.Text(text, sentencesIndex))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTART\tLENGTH\tTEXT")
	for i, s := range sentence.Split(text) {
		span := sentence.Get(text, i)
		fmt.Fprintf(w, "%d\t%d\t%d\t%q\n", i, span.Start, span.Length, s)
	}
	return w.Flush()
}
