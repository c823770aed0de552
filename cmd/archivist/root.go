package main

import (
	"archivist/internal/domain/config"
	"archivist/internal/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type app struct {
	cfgPath  string
	logLevel string
	devLog   bool

	cfg config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "archivist",
		Short:         "Normalize an HTML issue archive and cache its images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "archivist.yaml", "config file (missing file = defaults)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.devLog, "dev-log", false, "human readable console logs")

	root.AddCommand(
		newIngestCmd(a),
		newImagesCmd(a),
		newListCmd(a),
		newYearsCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.devLog {
		cfg.Log.Development = true
	}
	a.cfg = cfg

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return err
	}
	a.log = log.With(
		logger.String("run_id", uuid.NewString()),
		logger.String("command", cmd.Name()),
	)
	return nil
}

// override copies a string flag into dst when the user set it explicitly.
func override(cmd *cobra.Command, name string, dst *string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if v, err := cmd.Flags().GetString(name); err == nil {
		*dst = v
	}
}
