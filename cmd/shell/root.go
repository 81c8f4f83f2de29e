package shell

import (
	"fmt"
	"github.com/ValentinKolb/mcmock/cmd/util"
	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"os"
)

var (
	log = logger.GetLogger("shell")

	// ShellCmd runs memcached commands against an in-process client
	ShellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Run memcached commands against an emulated client",
		Long: `Run memcached commands against an emulated client. Commands are read line by line from stdin or from --file, type "help" for a list.

The configuration can be set via command line flags or environment variables. The format of the environment variables is MCMOCK_<flag> (e.g. MCMOCK_PREFIX=app:)`,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
		RunE:    run,
	}
)

func init() {
	util.SetupClientFlags(ShellCmd)

	key := "file"
	ShellCmd.Flags().String(key, "", util.WrapString("Read commands from this file instead of stdin"))

	key = "show-config"
	ShellCmd.Flags().Bool(key, false, util.WrapString("Print the configuration before running"))
}

func run(cmd *cobra.Command, _ []string) error {
	config := util.GetClientConfig()
	if viper.GetBool("show-config") {
		fmt.Fprintln(cmd.OutOrStdout(), config.String())
	}

	// every call is counted, logged at debug level and timed
	timer := gometrics.NewTimer()
	metrics := diag.NewMetrics(nil)
	sink := diag.Multi(diag.NewLogger(logger.GetLogger("diag"), timer), metrics)

	client, clock, err := config.NewClient(sink)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	prompt := true
	if path := viper.GetString("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open command file: %w", err)
		}
		defer f.Close()
		in, prompt = f, false
	} else if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		prompt = false
	}

	if err := NewInterpreter(client, clock, metrics).Run(in, cmd.OutOrStdout(), prompt); err != nil {
		return err
	}

	log.Infof("%d operations, mean %.3fms", timer.Count(), timer.Mean()/1e6)
	return nil
}
