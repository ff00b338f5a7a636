package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkleaf/dsl"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "输出书籍标记的 EBNF 语法",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), dsl.Grammar())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grammarCmd)
}
