package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"postulate-api/cmd/postulatectl/output"
	"postulate-api/config"
	"postulate-api/monitor"

	"github.com/spf13/cobra"
)

var logBytes int64

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the end of the API log",
	Long: `Print the last bytes of the API log file. The file is found through
LOG_DIR, the same setting the server and GET /api/admin/logs use.

Examples:
  postulatectl logs
  postulatectl logs --bytes 4096`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		return printLogTail(output.Out, settings.LogFile(), logBytes)
	},
}

func init() {
	logsCmd.Flags().Int64Var(&logBytes, "bytes", monitor.DefaultTailBytes, "How many bytes to print")
	rootCmd.AddCommand(logsCmd)
}

func printLogTail(w io.Writer, path string, n int64) error {
	if n <= 0 {
		n = monitor.DefaultTailBytes
	}
	data, err := monitor.Tail(path, n)
	if errors.Is(err, fs.ErrNotExist) {
		output.Warning("No log file at %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	_, err = w.Write(data)
	return err
}
