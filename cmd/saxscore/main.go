// Command saxscore is the CLI front end for the SAXS intensity/fitting
// core: three subcommands (intensity fit, em fit, rigid-body fit), wired
// from one constructor building a *cobra.Command whose PersistentPreRunE
// loads settings before any subcommand body runs.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sarat-asymmetrica/saxscore/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	settings := config.DefaultSettings()

	root := &cobra.Command{
		Use:           "saxscore",
		Short:         "SAXS intensity computation and fitting",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config", "", "path to a settings file (<namespace>::<name> value per line)")
	root.PersistentFlags().Int("threads", 0, "worker thread count (0 = hardware concurrency)")
	root.PersistentFlags().String("output", "", "output directory")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		if cfgPath != "" {
			if err := settings.LoadFile(cfgPath); err != nil {
				return err
			}
		}
		threads, _ := cmd.Flags().GetInt("threads")
		settings.BindThreads(threads)
		// Worker pools built with threadpool.New(0) size themselves from
		// GOMAXPROCS, so the configured thread count is applied there.
		if settings.Threads > 0 {
			runtime.GOMAXPROCS(settings.Threads)
		}
		output, _ := cmd.Flags().GetString("output")
		settings.BindOutputDir(output)
		return nil
	}

	root.AddCommand(newIntensityCmd(settings))
	root.AddCommand(newEMCmd(settings))
	root.AddCommand(newRigidBodyCmd(settings))
	return root
}
