package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/catalog"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("falcon version %s\n", version)
		if !versionVerbose {
			return
		}
		cmd.Printf("  user agent:  %s\n", domain.Connection{}.EffectiveUserAgent())
		cmd.Printf("  go:          %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if cat, err := catalog.Default(); err == nil {
			cmd.Printf("  operations:  %d in %d collections\n", cat.Len(), len(cat.Collections()))
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionVerbose, "details", false, "Include runtime and catalog details")
	rootCmd.AddCommand(versionCmd)
}
