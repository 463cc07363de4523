package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/bootprobe/internal/cliconfig"
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
)

const helpDescription = `
Log a fingerprint of every class loader root when an application starts.

For each deployed context, bootprobe reports the size, digest and earliest
modification time of each directory or archive the application loads from,
together with a shell command to compare them on another machine.

Configure via file ($HOME/.bootprobe/config.toml), BOOTPROBE_* env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  bootprobe run --descriptor /etc/bootprobe/server.toml
  bootprobe run --descriptor server.toml --watch --algorithm blake3
  bootprobe fingerprint --algorithm md5 /srv/app/WEB-INF/lib/app.jar /srv/app
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("bootprobe")
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The root command runs "run".
func newRootCmd() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the server described by a deployment descriptor and log context reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			if err := cfg.ValidateRun(); err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	runCmd.Flags().StringVar(&cfg.Descriptor, "descriptor", cfg.Descriptor, "deployment descriptor (TOML)")
	runCmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "keep running and redeploy contexts whose roots change")
	runCmd.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period before a redeploy")

	fpCmd := &cobra.Command{
		Use:   "fingerprint <path>...",
		Short: "Print size, digest and earliest modification time of files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return printFingerprints(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	root := &cobra.Command{
		Use:           "bootprobe",
		Short:         "Fingerprint application class loader roots at startup",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmd.RunE(cmd, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.bootprobe/config.toml)")
	pf.StringVar(&cfg.Algorithm, "algorithm", cfg.Algorithm, "digest algorithm ("+strings.Join(fingerprint.Algorithms(), ", ")+")")
	pf.StringVar(&cfg.Order, "order", cfg.Order, "directory traversal order (native, sorted)")
	pf.BoolVar(&cfg.Portable, "portable", cfg.Portable, "also compute the order-independent h1 digest")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")

	// The root command accepts the run flags too.
	root.Flags().AddFlagSet(runCmd.Flags())

	root.AddCommand(runCmd, fpCmd)
	return root
}

// loadConfig applies the config file then BOOTPROBE_* env to cfg, leaving
// flags set on the command line untouched.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgPath != "" && !cliconfig.FileExists(cfgPath) {
		return fmt.Errorf("config file %s not found", cfgPath)
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	return cliconfig.ApplyEnvConfig(cfg, changed)
}
