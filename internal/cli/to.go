package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphorder/pkg/graph"
)

// newToCmd creates the to command group for format conversions.
func newToCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "to",
		Short: "Convert a graph between file formats",
	}
	cmd.AddCommand(newToBinCmd())
	cmd.AddCommand(newToASCIICmd())
	return cmd
}

func newToBinCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "bin <input> <output>",
		Short: "Convert a graph to the binary format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1], format, formatBin)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: bin or ascii (default: by extension)")
	return cmd
}

func newToASCIICmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ascii <input> <output>",
		Short: "Convert a graph to the adjacency-list text format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1], format, formatASCII)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: bin or ascii (default: by extension)")
	return cmd
}

func runConvert(cmd *cobra.Command, input, output, inFormat, outFormat string) error {
	logger := loggerFromContext(cmd.Context())

	prog := newProgress(logger)
	g, err := loadGraphFile(input, inFormat)
	if err != nil {
		return err
	}

	if outFormat == formatASCII {
		err = graph.WriteAdjacencyFile(g, output)
	} else {
		err = graph.WriteBinFile(g, output)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d nodes with %d arcs", g.NumNodes(), g.NumArcs()))

	printSuccess("Wrote %s graph", outFormat)
	printFile(output)
	return nil
}
