package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/falcon-go/internal/core/services"
)

var operationsCmd = &cobra.Command{
	Use:   "operations [search]",
	Short: "Search the operation catalog",
	Long: `Search the operation catalog by id, collection or route.

Without --exact the search is a case-insensitive substring match.

Examples:
  falcon operations device
  falcon operations --by collection hosts
  falcon operations --by route /devices/entities --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOperations,
}

var (
	operationsBy    string
	operationsExact bool
	operationsJSON  bool
)

func init() {
	operationsCmd.Flags().StringVar(&operationsBy, "by", services.SearchByID, "Field to search: id, collection or route")
	operationsCmd.Flags().BoolVar(&operationsExact, "exact", false, "Require an exact match")
	operationsCmd.Flags().BoolVar(&operationsJSON, "json", false, "Print descriptors as JSON")
	rootCmd.AddCommand(operationsCmd)
}

func runOperations(cmd *cobra.Command, args []string) error {
	if err := ensurePorts(cmd.Context()); err != nil {
		return err
	}
	search := ""
	if len(args) > 0 {
		search = args[0]
	}

	ops, err := operationFinder.FindOperation(search, operationsBy, operationsExact)
	if err != nil {
		return err
	}

	if operationsJSON {
		data, err := json.MarshalIndent(ops, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(ops) == 0 {
		cmd.Println("No operations found")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATION\tMETHOD\tCOLLECTION\tROUTE")
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.ID, op.Method, op.Collection, op.Route)
	}
	return w.Flush()
}
