package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cosmoscope/cosmoscope/pkg/config"
	"github.com/cosmoscope/cosmoscope/pkg/tracker"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		since      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show API usage statistics from the request tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(configPath)
			if err != nil {
				return err
			}

			tr, err := tracker.New(cfg.Tracker.DBPath)
			if err != nil {
				return err
			}
			defer tr.Close()

			from := time.Now().Add(-since)
			summaries, err := tr.Summary(context.Background(), from)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Printf("No requests recorded since %s.\n", humanize.Time(from))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tREQUESTS\tERRORS\tCACHE HITS\tHIT RATE\tAVG LATENCY")
			for _, s := range summaries {
				rate := 0.0
				if s.Requests > 0 {
					rate = float64(s.CacheHits) / float64(s.Requests) * 100
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%.1fms\n",
					s.Path, humanize.Comma(s.Requests), humanize.Comma(s.Errors), humanize.Comma(s.CacheHits), rate, s.AvgLatencyMs)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cosmoscope.yaml", "path to config file")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "only include requests newer than this")
	return cmd
}
