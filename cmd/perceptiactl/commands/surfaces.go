package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darkelement/perceptia/internal/introspectclient"
	"github.com/darkelement/perceptia/internal/output"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

var surfacesCmd = &cobra.Command{
	Use:   "surfaces",
	Short: "Inspect surfaces the compositor is managing",
}

var surfacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every surface the compositor is managing",
	Long: `List every surface currently known to the Coordinator, along with its
parent, satellites, show-reason bitmask, and state bitmask.

Examples:
  # List surfaces as a table
  perceptiactl surfaces list

  # List as JSON
  perceptiactl surfaces list -o json`,
	RunE: runSurfaces,
}

func init() {
	surfacesCmd.AddCommand(surfacesListCmd)
}

// surfaceList renders []introspectclient.SurfaceView as a table.
type surfaceList []introspectclient.SurfaceView

func (sl surfaceList) Headers() []string {
	return []string{"ID", "PARENT", "SATELLITES", "SHOW REASON", "STATE"}
}

func (sl surfaceList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(s.Id), 10),
			strconv.FormatUint(uint64(s.ParentId), 10),
			joinSurfaceIds(s.Satellites),
			strconv.FormatUint(uint64(s.ShowReason), 2),
			strconv.FormatUint(uint64(s.State), 2),
		})
	}
	return rows
}

func joinSurfaceIds(sids []ids.SurfaceId) string {
	if len(sids) == 0 {
		return "-"
	}
	parts := make([]string, len(sids))
	for i, sid := range sids {
		parts[i] = strconv.FormatUint(uint64(sid), 10)
	}
	return strings.Join(parts, ",")
}

func runSurfaces(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	surfaces, err := introspectClient().Surfaces()
	if err != nil {
		return fmt.Errorf("failed to fetch surfaces: %w", err)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, surfaces)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, surfaces)
	default:
		if len(surfaces) == 0 {
			fmt.Println("No surfaces managed.")
			return nil
		}
		return output.PrintTable(os.Stdout, surfaceList(surfaces))
	}
}
