package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/mmcdade/smallsh/core/logger"
)

var (
	colorSession = color.New(color.FgYellow)
	colorCommand = color.New(color.FgCyan, color.Bold)
	colorBuiltin = color.New(color.FgGreen, color.Bold)
	colorMode    = color.New(color.FgMagenta)
	colorError   = color.New(color.FgRed, color.Bold)
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log", "events"},
	Short:   "Explore the shell event logs.",
}

// openEventLog opens the argument if given, the configured log otherwise.
func openEventLog(args []string) (io.ReadCloser, error) {
	if len(args) == 1 {
		return os.Open(args[0])
	}

	configuration, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if configuration.EventLogPath() == "" {
		return nil, errors.New("no event log configured, pass a file or set event_log")
	}
	return configuration.ReadEventLog()
}

var catCommand = &cobra.Command{
	Use:   "cat [FILE]",
	Short: "Print the event log in a human readable format.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := openEventLog(args)
		if err != nil {
			return err
		}
		defer fd.Close()

		w := cmd.OutOrStdout()
		return logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
			printEntry(w, le)
		})
	},
}

func printEntry(w io.Writer, le *logger.LogEntry) {
	prefix := fmt.Sprintf("%s %s",
		time.UnixMicro(le.TimestampMicros).UTC().Format(time.RFC3339),
		colorSession.Sprint(le.SessionID))

	switch event := le.Event().(type) {
	case *logger.SessionStart:
		fmt.Fprintf(w, "%s session start pid=%d\n", prefix, event.Pid)
	case *logger.RunCommand:
		line := colorCommand.Sprint(strings.Join(event.Command, " "))
		switch {
		case event.Error != "":
			fmt.Fprintf(w, "%s run %s %s\n", prefix, line, colorError.Sprintf("error=%q", event.Error))
		case event.Background:
			fmt.Fprintf(w, "%s run %s [background pid=%d]\n", prefix, line, event.Pid)
		default:
			fmt.Fprintf(w, "%s run %s (%s)\n", prefix, line, event.Status)
		}
	case *logger.Builtin:
		words := append([]string{event.Name}, event.Args...)
		fmt.Fprintf(w, "%s builtin %s\n", prefix, colorBuiltin.Sprint(strings.Join(words, " ")))
	case *logger.BackgroundDone:
		fmt.Fprintf(w, "%s background pid %d done (%s)\n", prefix, event.Pid, event.Status)
	case *logger.ModeChange:
		fmt.Fprintf(w, "%s %s\n", prefix, colorMode.Sprintf("foreground-only=%v", event.ForegroundOnly))
	case *logger.SessionEnd:
		fmt.Fprintf(w, "%s session end\n", prefix)
	default:
		fmt.Fprintf(w, "%s unknown entry\n", prefix)
	}
}

var reportCommand = &cobra.Command{
	Use:   "report [FILE]",
	Short: "Show a report of events.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := openEventLog(args)
		if err != nil {
			return err
		}
		defer fd.Close()

		var report logger.Report
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(catCommand)
	logsCmd.AddCommand(reportCommand)
}
