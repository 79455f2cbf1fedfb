package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log"

	"github.com/spf13/cobra"

	"github.com/mmcdade/smallsh/core"
	"github.com/mmcdade/smallsh/core/config"
	"github.com/mmcdade/smallsh/core/logger"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}
	if err != nil {
		return nil, err
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return configuration, nil
}

// openEvents wires up the JSON lines event log when one is configured.
func openEvents(configuration *config.Configuration) (logger.Recorder, io.Closer, error) {
	if configuration.EventLogPath() == "" {
		return logger.NopRecorder{}, nil, nil
	}

	fd, err := configuration.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}

	return logger.NewJsonLinesLogRecorder(fd).NewSession(), fd, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smallsh",
	Short: "A small interactive shell.",
	Long: `A small interactive shell with three builtins (cd, status, exit),
input and output redirection, background execution with "&", and a
foreground-only mode toggled by the terminal stop signal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		events, closer, err := openEvents(configuration)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		shell := core.NewShell(core.Options{
			Config: configuration,
			Events: events,
		})
		shell.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path (empty for built-in defaults)")
}
