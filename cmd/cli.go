package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audiyo/internal/audio"
	"audiyo/internal/config"
	"audiyo/internal/log"
	"audiyo/pkg/build"
)

// Opener connects to an audio backend by name.
type Opener func(backend string, opts audio.OpenOptions, logger *zap.SugaredLogger) (audio.Platform, error)

// Picker lets the user choose among devices for a role. It returns false
// when the user backed out.
type Picker func(role audio.Role, devices []audio.Device, current audio.Device, hasCurrent bool) (audio.Device, bool, error)

type cli struct {
	opener Opener
	picker Picker

	// flags
	configPath string
	backend    string
	verbose    bool

	logger   *zap.SugaredLogger
	platform audio.Platform
	registry *audio.Registry
}

// Execute runs the command line against the host's audio backend.
func Execute() error {
	return run(audio.Open, runPicker, os.Args[1:], os.Stdout)
}

func run(opener Opener, picker Picker, args []string, stdout io.Writer) error {
	c := &cli{opener: opener, picker: picker}

	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)

	err := root.Execute()
	if cerr := c.teardown(); err == nil {
		err = cerr
	}
	return err
}

// rootCommand builds the command tree. The registry is built once, before
// any subcommand runs, from the platform the opener returns.
func (c *cli) rootCommand() *cobra.Command {
	buildInfo := build.GetBuildFlags()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       build.VersionString(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.show(cmd.OutOrStdout(), defaultShowTypes)
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "",
		"Path to the configuration file (default: ./audiyo.yaml, then $XDG_CONFIG_HOME/audiyo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&c.backend, "backend", config.DefaultBackend,
		"Audio backend: "+strings.Join(config.Backends, ", "))
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.AddCommand(
		c.newListCommand(),
		c.newShowCommand(),
		c.newSetCommand(),
		c.newInfoCommand(),
		c.newPickCommand(),
	)

	return rootCmd
}

// setup loads the configuration, opens the backend and takes the device
// snapshot. A backend that cannot be opened or enumerated leaves the
// commands with an empty registry rather than failing them.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("backend") {
		cfg.Audio.Backend = c.backend
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --backend: %w", err)
		}
	}
	if c.verbose {
		cfg.Debug = true
	}

	c.logger, err = log.New(cfg.Logging())
	if err != nil {
		return err
	}

	if cfg.Path != "" {
		c.logger.Debugw("Loaded configuration", "path", cfg.Path)
	}

	opts := audio.OpenOptions{
		PulseServer:     cfg.Audio.PulseServer,
		ApplicationName: cfg.Audio.ApplicationName,
	}

	c.platform, err = c.opener(cfg.Audio.Backend, opts, c.logger)
	if err != nil {
		if errors.Is(err, audio.ErrUnknownBackend) {
			return err
		}
		c.logger.Warnw("Audio backend unavailable, continuing without devices", "backend", cfg.Audio.Backend, "error", err)
		c.platform = nil
		c.registry = audio.EmptyRegistry(nil, c.logger)
		return nil
	}

	c.registry, err = audio.NewRegistry(c.platform, c.logger)
	if err != nil {
		c.registry = audio.EmptyRegistry(c.platform, c.logger)
	}

	return nil
}

func (c *cli) teardown() error {
	if c.logger != nil {
		defer c.logger.Sync() //nolint:errcheck
	}

	if c.platform == nil {
		return nil
	}
	if err := c.platform.Close(); err != nil {
		return fmt.Errorf("close audio backend: %w", err)
	}
	return nil
}

func printDevice(w io.Writer, label string, d audio.Device) {
	fmt.Fprintf(w, "%s\t%d\t%s\n", label, d.ID, d.Name)
}
