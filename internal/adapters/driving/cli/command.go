package cli

import (
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command [operation-id]",
	Short: "Call any catalogued operation",
	Long: `Call an API operation by its operation id.

Keywords (-k) are matched against the operation's declared query
parameters; unmatched keywords are ignored. Parameters (-p) are sent as
given. Use --override to call a route that is not in the catalog.

Examples:
  falcon command QueryDevicesByFilter -k limit=5 -k filter="hostname:'web*'"
  falcon command GetDeviceDetails -k ids=aid1,aid2
  falcon command refreshActiveStreamSession -k action_name=refresh_active_stream_session -k appId=cli --partition 0
  falcon command --override "GET,/devices/queries/devices/v1" -p limit=1
  falcon command DownloadSensorInstallerById -k id=<sha256> -o sensor.rpm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommand,
}

var (
	commandFlags    requestFlags
	commandOverride string
)

func init() {
	commandFlags.register(commandCmd)
	commandCmd.Flags().StringVar(&commandOverride, "override", "", "Call METHOD,/route directly")
	rootCmd.AddCommand(commandCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && commandOverride == "" {
		return cmd.Help()
	}
	opts, err := commandFlags.options()
	if err != nil {
		return err
	}
	opts.Override = commandOverride

	if err := ensurePorts(cmd.Context()); err != nil {
		return err
	}

	action := ""
	if len(args) > 0 {
		action = args[0]
	}
	resp := commander.Command(cmd.Context(), action, opts)
	return writeResponse(cmd.OutOrStdout(), resp, commandFlags.output)
}
