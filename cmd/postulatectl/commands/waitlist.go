package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"postulate-api/cmd/postulatectl/output"
	"postulate-api/models"
	"postulate-api/repository"

	"github.com/spf13/cobra"
)

var exportPath string

var waitlistCmd = &cobra.Command{
	Use:   "waitlist",
	Short: "Inspect and export the waitlist",
}

var waitlistStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show signup counts by type",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		stats, err := repository.NewWaitlistRepo(db).Stats(cmd.Context())
		if err != nil {
			return err
		}
		printStats(stats)
		return nil
	},
}

var waitlistExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every waitlist entry as CSV",
	Long: `Write every waitlist entry as CSV, to --out or stdout.

Examples:
  postulatectl waitlist export --out waitlist.csv
  postulatectl waitlist export > waitlist.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), exportPath)
	},
}

func init() {
	waitlistExportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "Output file (default stdout)")
	waitlistCmd.AddCommand(waitlistStatsCmd, waitlistExportCmd)
	rootCmd.AddCommand(waitlistCmd)
}

func printStats(stats models.WaitlistStats) {
	output.Section("Waitlist")
	output.KeyValue("Creators", stats.Creators)
	output.KeyValue("Companies", stats.Companies)
	output.KeyValue("Total", stats.Total)
}

// entrySource is satisfied by repository.WaitlistRepo.
type entrySource interface {
	All(ctx context.Context, fn func([]models.WaitlistEntry) error) error
}

var csvHeader = []string{"id", "email", "name", "type", "company", "message", "created_at"}

func writeCSV(ctx context.Context, w io.Writer, src entrySource) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	n := 0
	err := src.All(ctx, func(batch []models.WaitlistEntry) error {
		for _, e := range batch {
			row := []string{
				e.ID,
				safeCell(e.Email),
				safeCell(deref(e.Name)),
				string(e.Type),
				safeCell(deref(e.Company)),
				safeCell(deref(e.Message)),
				e.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return n, err
	}

	cw.Flush()
	return n, cw.Error()
}

// safeCell stops spreadsheets from evaluating user text as a formula.
func safeCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func runExport(ctx context.Context, path string) error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	w := io.Writer(os.Stdout)
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	n, err := writeCSV(ctx, w, repository.NewWaitlistRepo(db))
	if err != nil {
		return err
	}
	if path != "" {
		output.Success("Exported %d entries to %s", n, path)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
