package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"medication-bot/config"
	"medication-bot/domain"
	"medication-bot/message"
	"medication-bot/service"
)

const progressBarWidth = 20

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type progressFlags struct {
	start  string
	months string
	today  string
	json   bool
}

func newProgressCmd() *cobra.Command {
	var flags progressFlags

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Compute medication progress from the command line",
		Example: `  medication-bot progress --start 20250101 --months 2
  medication-bot progress --start 2025-01-01 --months 3 --today 2025-02-14 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgress(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.start, "start", "s", "", "Start date (YYYY-MM-DD or YYYYMMDD)")
	cmd.Flags().StringVarP(&flags.months, "months", "m", "", "Treatment duration in months")
	cmd.Flags().StringVar(&flags.today, "today", "", "Evaluate as of this date instead of the current day")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the result as JSON")
	return cmd
}

func runProgress(cmd *cobra.Command, flags progressFlags) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	opts := []service.Option{service.WithLocation(loc)}
	if flags.today != "" {
		today, err := time.ParseInLocation(service.DateLayout, flags.today, loc)
		if err != nil {
			return fmt.Errorf("--today must be YYYY-MM-DD: %w", err)
		}
		opts = append(opts, service.WithClock(func() time.Time { return today }))
	}
	svc := service.NewProgressService(nil, opts...)

	result, err := svc.Evaluate(cmd.Context(), domain.ProgressInput{
		StartDateRaw: flags.start,
		MonthsRaw:    flags.months,
	})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(message.Error(err)))
		return errReported
	}

	out := cmd.OutOrStdout()
	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, titleStyle.Render("복약 진행 현황"))
	fmt.Fprintln(out, message.Success(result))
	fmt.Fprintln(out, barStyle.Render(progressBar(result.ProgressPercent, progressBarWidth)))
	return nil
}

func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
