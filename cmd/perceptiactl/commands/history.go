package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/darkelement/perceptia/internal/output"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the surface recency list, most-recent-first",
	RunE:  runHistory,
}

type historyList []ids.SurfaceId

func (hl historyList) Headers() []string { return []string{"RANK", "SURFACE ID"} }

func (hl historyList) Rows() [][]string {
	rows := make([][]string, 0, len(hl))
	for i, sid := range hl {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.FormatUint(uint64(sid), 10)})
	}
	return rows
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	history, err := introspectClient().History()
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, history)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, history)
	default:
		if len(history) == 0 {
			fmt.Println("History is empty.")
			return nil
		}
		return output.PrintTable(os.Stdout, historyList(history))
	}
}
