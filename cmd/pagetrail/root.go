package main

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/listenupapp/pagetrail/internal/config"
	"github.com/listenupapp/pagetrail/internal/di"
	"github.com/listenupapp/pagetrail/internal/logger"
	"github.com/listenupapp/pagetrail/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// globalFlags are shared by every subcommand and forwarded to config.Load.
type globalFlags struct {
	dataPath string
	driver   string
	envFile  string
	logLevel string
}

func (g *globalFlags) args() []string {
	args := []string{"-env-file", g.envFile}
	if g.dataPath != "" {
		args = append(args, "-data-path", g.dataPath)
	}
	if g.driver != "" {
		args = append(args, "-storage-driver", g.driver)
	}
	if g.logLevel != "" {
		args = append(args, "-log-level", g.logLevel)
	}
	return args
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "pagetrail",
		Short:         "Personal reading tracker",
		Long:          "pagetrail inspects and maintains a reading library stored on disk.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.dataPath, "data-path", "", "base path for library data (default ~/.pagetrail)")
	pf.StringVar(&flags.driver, "storage-driver", "", "storage driver: badger, sqlite or memory")
	pf.StringVar(&flags.envFile, "env-file", ".env", "path to .env file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newStatsCmd(flags),
		newListCmd(flags),
		newTagsCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
	)
	return root
}

// withLibrary opens the library described by flags, runs fn and shuts the
// container down so every write is flushed.
func withLibrary(cmd *cobra.Command, flags *globalFlags, fn func(*service.LibraryService) error) (err error) {
	cfg, err := config.Load(flags.args())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Logs go to stderr so stdout stays machine readable.
	log := logger.New(logger.Config{
		Writer:      cmd.ErrOrStderr(),
		Format:      "pretty",
		Level:       logger.ParseLevel(levelOrWarn(flags.logLevel)),
		Environment: cfg.App.Environment,
	})

	injector := di.NewContainerWithConfig(cfg, log)
	defer func() {
		if shutdownErr := injector.Shutdown(); shutdownErr != nil && err == nil {
			err = fmt.Errorf("close library: %w", shutdownErr)
		}
	}()

	if err := di.BootstrapServices(injector); err != nil {
		return fmt.Errorf("open library: %w", err)
	}

	return fn(do.MustInvoke[*service.LibraryService](injector))
}

// levelOrWarn keeps the CLI quiet unless a level was asked for.
func levelOrWarn(level string) string {
	if level == "" {
		return "warn"
	}
	return level
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
