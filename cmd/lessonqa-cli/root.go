package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/config"
	logpkg "github.com/kailas-cloud/lessonqa/internal/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	env        string
	dataset    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "lessonqa-cli",
		Short: "Ask questions about the lesson schedule",
		Long: `lessonqa-cli answers Vietnamese questions about the lesson records
using the same retrieval pipeline and LLM backend as the HTTP API.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file path (default: config/<env>.yaml)")
	root.PersistentFlags().StringVar(&flags.env, "env", "", "environment name (default: $ENV or local)")
	root.PersistentFlags().StringVar(&flags.dataset, "dataset", "", "override dataset.path")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAskCmd(flags),
		newContextCmd(flags),
		newFieldsCmd(flags),
		newVersionCmd(),
	)
	return root
}

// load resolves configuration and a logger for a subcommand.
func (f *globalFlags) load() (*config.Config, *zap.Logger, error) {
	env := f.env
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if f.dataset != "" {
		cfg.Dataset.Path = f.dataset
	}

	// Logs go to stderr; quiet unless asked.
	logger := zap.NewNop()
	if f.verbose {
		lc := cfg.Logging
		lc.Level = "debug"
		logger, err = logpkg.NewLogger("local", lc)
		if err != nil {
			return nil, nil, fmt.Errorf("create logger: %w", err)
		}
	}
	return &cfg, logger, nil
}

func questionArg(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
