package cmd

import (
	"fmt"
	"github.com/ValentinKolb/mcmock/cmd/perf"
	"github.com/ValentinKolb/mcmock/cmd/shell"
	"github.com/ValentinKolb/mcmock/cmd/util"
	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mcmock",
		Short: "in-process memcached client emulation",
		Long: fmt.Sprintf(`mcmock (v%s)

An in-process emulation of a memcached client for tests. Values are
kept in memory with memcached expiration, delayed delete and result
code semantics, no server is ever contacted.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.BindCommandFlags(cmd); err != nil {
				return err
			}
			return diag.InitLoggers(viper.GetString("log-level"))
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mcmock",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mcmock v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(shell.ShellCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
