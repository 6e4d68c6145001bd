package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/catalog"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
	"github.com/custodia-labs/falcon-go/internal/core/services"
	"github.com/custodia-labs/falcon-go/internal/serviceclass"
)

var serviceCmd = &cobra.Command{
	Use:   "service [collection] [method]",
	Short: "Call a method of a service collection",
	Long: `Call a method of one service collection by operation id or alias.

Collections with a dedicated class add validation and payload helpers:
hosts, event_streams, sensor_update_policies, falcon_container,
incidents and sensor_download. Any other collection dispatches by
operation id. Run with only a collection to list its methods.

Examples:
  falcon service hosts
  falcon service hosts perform_action -k action_name=contain --body '{"ids":["aid"]}'
  falcon service hosts update_device_tags -k action_name=add -k ids=aid1 -k tags=prod
  falcon service sensor_download download_sensor_installer -k id=<sha256> -k download_path=. -k file_name=sensor.rpm`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runService,
}

var (
	serviceFlags      requestFlags
	serviceExtHeaders []string
	serviceNoValidate bool
)

func init() {
	serviceFlags.register(serviceCmd)
	serviceCmd.Flags().StringArrayVar(&serviceExtHeaders, "ext-header", nil, "Header key=value sent with every request of the class")
	serviceCmd.Flags().BoolVar(&serviceNoValidate, "no-validate", false, "Skip payload validation")
	rootCmd.AddCommand(serviceCmd)
}

func newServiceFactory(auth *services.FalconInterface, cat *catalog.Catalog) func(string) (driving.ServiceRequester, error) {
	return func(collection string) (driving.ServiceRequester, error) {
		ext, err := parsePairs(serviceExtHeaders, func(s string) any { return s })
		if err != nil {
			return nil, err
		}
		return serviceclass.Open(collection, serviceclass.Options{
			Auth:                     auth,
			Catalog:                  cat,
			ExtHeaders:               stringMap(ext),
			DisablePayloadValidation: serviceNoValidate,
		})
	}
}

func runService(cmd *cobra.Command, args []string) error {
	if err := ensurePorts(cmd.Context()); err != nil {
		return err
	}
	svc, err := serviceFactory(args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 {
		methods := svc.Methods()
		sort.Strings(methods)
		for _, m := range methods {
			cmd.Println(m)
		}
		return nil
	}

	opts, err := serviceFlags.options()
	if err != nil {
		return err
	}
	resp := svc.Invoke(cmd.Context(), args[1], opts)
	return writeResponse(cmd.OutOrStdout(), resp, serviceFlags.output)
}
