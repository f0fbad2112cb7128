package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hed1ad/negsel/pkg/config"
)

func configInit(cmd *cobra.Command, args []string) error {
	path := config.FileName + ".yaml"
	if len(args) > 0 {
		path = args[0]
	}

	if forceFlag {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if err := config.Default().Write(path); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists, use --force to replace it", path)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "default configuration written to %s\n", path)
	return nil
}

func configCMD() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Long:  "write the default configuration as YAML, to ./negsel.yaml unless a path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return configInit(cmd, args)
		},
	}
	attachFlags(initCmd, []string{"force"})

	configCmd.AddCommand(initCmd)
	return configCmd
}
