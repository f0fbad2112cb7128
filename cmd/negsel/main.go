// Command negsel trains and applies a 2D negative-selection classifier.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var flags *pflag.FlagSet

var (
	cfgPathFlag        string
	logLevelFlag       string
	logFileFlag        string
	radiusFlag         float64
	detectorsFlag      int
	seedFlag           uint64
	maxAttemptsFlag    int
	gridResolutionFlag int
	modelFlag          string
	plotFlag           string
	inputFlag          string
	forceFlag          bool
)

func init() {
	resetFlags()
}

// Explicitly define a method to facilitate tests
func resetFlags() {
	flags = &pflag.FlagSet{}

	flags.StringVarP(&cfgPathFlag, "config", "c", "",
		"config file (default ./negsel.yaml if present)")
	flags.StringVar(&logLevelFlag, "log-level", "info",
		"log level: debug, info, warn or error")
	flags.StringVar(&logFileFlag, "log-file", "",
		"also write logs to this file")
	flags.Float64VarP(&radiusFlag, "radius", "r", 0.05,
		"self/non-self radius in normalized units")
	flags.IntVarP(&detectorsFlag, "detectors", "n", 1000,
		"number of detectors to generate")
	flags.Uint64Var(&seedFlag, "seed", 42,
		"random seed")
	flags.IntVar(&maxAttemptsFlag, "max-attempts", 100000,
		"consecutive rejected candidates allowed per detector, 0 for no limit")
	flags.IntVar(&gridResolutionFlag, "grid-resolution", 0,
		"grid fallback resolution when sampling gives up, 0 disables it")
	flags.StringVarP(&modelFlag, "model", "m", "model.json",
		"model file")
	flags.StringVarP(&plotFlag, "plot", "p", "result.png",
		"plot output file")
	flags.StringVarP(&inputFlag, "input", "i", "",
		"input CSV file")
	flags.BoolVarP(&forceFlag, "force", "f", false,
		"overwrite an existing file")
}

func attachFlags(cmd *cobra.Command, names []string) {
	cmdFlags := cmd.Flags()
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			cmdFlags.AddFlag(flag)
		} else {
			panic(fmt.Errorf("Could not find flag '%s' to attach to command '%s'", name, cmd.Name()))
		}
	}
}

func attachPersistentFlags(cmd *cobra.Command, names []string) {
	cmdFlags := cmd.PersistentFlags()
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			cmdFlags.AddFlag(flag)
		} else {
			panic(fmt.Errorf("Could not find flag '%s' to attach to command '%s'", name, cmd.Name()))
		}
	}
}

func newMainCmd() *cobra.Command {
	mainCmd := &cobra.Command{
		Use:           "negsel",
		Short:         "negative selection classifier",
		Long:          "negsel generates detectors covering the non-self region of a 2D feature space and classifies points against them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	attachPersistentFlags(mainCmd, []string{"config", "log-level", "log-file"})

	mainCmd.AddCommand(fitCMD())
	mainCmd.AddCommand(classifyCMD())
	mainCmd.AddCommand(evaluateCMD())
	mainCmd.AddCommand(plotCMD())
	mainCmd.AddCommand(runCMD())
	mainCmd.AddCommand(configCMD())
	return mainCmd
}

func main() {
	mainCmd := newMainCmd()
	if err := mainCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "negsel:", err)
		os.Exit(1)
	}
}
