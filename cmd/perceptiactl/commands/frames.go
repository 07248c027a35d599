package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/darkelement/perceptia/internal/introspectclient"
	"github.com/darkelement/perceptia/internal/output"
)

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Inspect the frame tree rooted at Root",
}

var framesTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Dump the frame tree rooted at Root",
	Long: `Dump the Display/Workspace/Container/Leaf frame tree as it currently
stands, in the same depth-first spatial order the compositor renders it.

Examples:
  # Print an indented tree
  perceptiactl frames tree

  # Print the raw tree as JSON
  perceptiactl frames tree -o json`,
	RunE: runFrames,
}

func runFrames(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	tree, err := introspectClient().Frames()
	if err != nil {
		return fmt.Errorf("failed to fetch frame tree: %w", err)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, tree)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, tree)
	default:
		printFrameTree(os.Stdout, tree, 0)
		return nil
	}
}

var framesFocusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Interactively pick a leaf frame and show its details",
	Long: `Walk the frame tree, collect every Leaf frame holding a surface, and
prompt interactively to pick one. Since this CLI only reads a server's
state, "focus" here means inspect, not change, the compositor's actual
keyboard focus.`,
	RunE: runFramesFocus,
}

func init() {
	framesCmd.AddCommand(framesTreeCmd)
	framesCmd.AddCommand(framesFocusCmd)
}

func runFramesFocus(cmd *cobra.Command, args []string) error {
	tree, err := introspectClient().Frames()
	if err != nil {
		return fmt.Errorf("failed to fetch frame tree: %w", err)
	}

	var leaves []introspectclient.FrameView
	collectLeaves(tree, &leaves)
	if len(leaves) == 0 {
		fmt.Println("No leaf frames with a surface attached.")
		return nil
	}

	labels := make([]string, len(leaves))
	for i, leaf := range leaves {
		labels[i] = fmt.Sprintf("surface %d [%s] %dx%d", leaf.SurfaceId, leaf.Geometry,
			leaf.Area.Size.Width, leaf.Area.Size.Height)
	}
	prompt := promptui.Select{Label: "Select a frame", Items: labels, Size: 10}
	i, _, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("selection aborted: %w", err)
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, leaves[i])
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, leaves[i])
	default:
		printFrameTree(os.Stdout, leaves[i], 0)
		return nil
	}
}

func collectLeaves(node introspectclient.FrameView, out *[]introspectclient.FrameView) {
	if node.Mode == "Leaf" && node.SurfaceId != 0 {
		*out = append(*out, node)
	}
	for _, child := range node.Children {
		collectLeaves(child, out)
	}
}

func printFrameTree(w *os.File, node introspectclient.FrameView, depth int) {
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s [%s] area=%dx%d+%d+%d", indent, node.Mode, node.Geometry,
		node.Area.Size.Width, node.Area.Size.Height, node.Area.Pos.X, node.Area.Pos.Y)
	if node.SurfaceId != 0 {
		line += fmt.Sprintf(" surface=%d", node.SurfaceId)
	}
	fmt.Fprintln(w, line)
	for _, child := range node.Children {
		printFrameTree(w, child, depth+1)
	}
}
