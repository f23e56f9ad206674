package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"TravelPublisher/internal/infrastructure/health"
)

func newHealthCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query the service status endpoint and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:5000", "base URL of the running service")
	return cmd
}

func runHealth(cmd *cobra.Command, addr string) error {
	client := resty.New().SetBaseURL(addr).SetTimeout(10 * time.Second)

	var report health.Report
	resp, err := client.R().SetResult(&report).Get("/")
	if err != nil {
		return fmt.Errorf("reach %s: %w", addr, err)
	}
	if resp.IsError() {
		return fmt.Errorf("service unhealthy: %s: %s", resp.Status(), resp.String())
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Check", "Value"})
	t.AppendRows([]table.Row{
		{"Status", report.Status},
		{"Version", report.Version},
		{"Database connected", report.Database.Connected},
		{"Articles stored", report.Database.ArticlesCount},
		{"OpenAI configured", report.Config.OpenAIAPIConfigured},
		{"Telegram configured", report.Config.TelegramConfigured},
		{"Disk free (GB)", fmt.Sprintf("%.1f", report.Disk.FreeSpaceGB)},
		{"Disk status", report.Disk.Status},
	})
	t.Render()

	if report.Status != "healthy" {
		os.Exit(1)
	}
	return nil
}
