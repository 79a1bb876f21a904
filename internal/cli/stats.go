package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphorder/pkg/bisect"
	"github.com/matzehuels/graphorder/pkg/perm"
)

// newStatsCmd creates the stats command, which prints size and encoding
// statistics for a graph, optionally comparing against a permutation.
func newStatsCmd() *cobra.Command {
	var format, permPath string

	cmd := &cobra.Command{
		Use:   "stats <graph>",
		Short: "Print graph statistics and encoding cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0], format, permPath)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: bin or ascii (default: by extension)")
	cmd.Flags().StringVarP(&permPath, "perm", "p", "", "permutation file to evaluate against the identity order")
	return cmd
}

func runStats(cmd *cobra.Command, input, format, permPath string) error {
	g, err := loadGraphFile(input, format)
	if err != nil {
		return err
	}

	n := g.NumNodes()
	m := g.NumArcs()
	avg := 0.0
	if n > 0 {
		avg = float64(m) / float64(n)
	}

	fmt.Println(StyleTitle.Render(input))
	printKeyValue("nodes", fmt.Sprintf("%d", n))
	printKeyValue("arcs", fmt.Sprintf("%d", m))
	printKeyValue("max degree", fmt.Sprintf("%d", g.MaxDegree()))
	printKeyValue("avg degree", fmt.Sprintf("%.2f", avg))

	if m == 0 {
		return nil
	}

	identity, err := bisect.LogGapCost(g, nil)
	if err != nil {
		return err
	}
	printKeyValue("cost (identity)", fmt.Sprintf("%.0f bits, %.2f bits/arc", identity, identity/float64(m)))

	if permPath == "" {
		return nil
	}
	p, err := perm.ReadFile(permPath, n)
	if err != nil {
		return err
	}
	permuted, err := bisect.LogGapCost(g, p)
	if err != nil {
		return err
	}
	saved := (identity - permuted) / identity * 100
	printKeyValue("cost (permuted)", fmt.Sprintf("%.0f bits, %.2f bits/arc", permuted, permuted/float64(m)))
	printKeyValue("saved", fmt.Sprintf("%.1f%%", saved))
	return nil
}
