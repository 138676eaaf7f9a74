package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/menta2k/image-intake/internal/config"
	"github.com/menta2k/image-intake/internal/logging"
	"github.com/menta2k/image-intake/internal/utils"
)

var (
	configPath string
	debug      bool

	cfg    *config.Config
	logger *logrus.Logger
)

// Execute runs the CLI
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "image-intake",
		Short:        "Pick, orient and downscale images",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd.Annotations[annotationConfig] == configOptional)
			if err != nil {
				return err
			}

			level, format := c.Log.Level, c.Log.Format
			if debug {
				level, format = logging.Debug()
				c.CaptureWorkFaults = false
			}
			l, err := logging.New(level, format)
			if err != nil {
				return err
			}
			l.SetOutput(cmd.ErrOrStderr())

			cfg, logger = c, l
			logger.WithFields(logrus.Fields{
				"config": resolvedConfigPath(),
				"debug":  debug,
			}).Debug("configuration loaded")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/image-intake/config.json)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging; work faults are not captured")

	root.AddCommand(guiCmd(), normalizeCmd(), configCmd(), versionCmd())
	return root
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetConfigPath()
}

// Commands annotated with configOptional run on defaults when the config
// file does not exist yet
const (
	annotationConfig = "config"
	configOptional   = "optional"
)

// loadConfig reads the config file. A missing default file yields the
// defaults; a missing explicit file is an error unless optional is set.
func loadConfig(optional bool) (*config.Config, error) {
	path := resolvedConfigPath()
	if (configPath == "" || optional) && !utils.FileExists(path) {
		return config.Default(), nil
	}

	c, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}
