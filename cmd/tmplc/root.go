package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFlag string
	verbose    bool
	logger     *zap.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tmplc",
		Short: "compile-time template compiler",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var cfg zap.Config
			if verbose {
				cfg = zap.NewDevelopmentConfig()
			} else {
				cfg = zap.NewProductionConfig()
				cfg.EncoderConfig.TimeKey = ""
			}
			built, err := cfg.Build()
			if err != nil {
				return err
			}
			logger = built
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configFlag, "config", "tmplc.yaml", "path to the config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newPrintConfigCmd())
	return cmd
}
