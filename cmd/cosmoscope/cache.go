package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

func newCacheCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the caches of a running server",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report models.CacheReport
			if err := adminCall(cmd.Context(), http.MethodGet, serverURL, "/api/v1/cache/stats", nil, &report); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LAYER\tBACKEND\tENTRIES\tACTIVE\tEXPIRED\tSIZE\tHITS\tMISSES\tEVICTIONS")
			for _, row := range []struct {
				name string
				st   models.CacheStats
			}{{"response", report.Response}, {"upstream", report.Upstream}} {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					row.name, row.st.Backend,
					humanize.Comma(row.st.Total), humanize.Comma(row.st.Active), humanize.Comma(row.st.Expired),
					humanize.Bytes(uint64(row.st.ApproximateMemoryBytes)),
					humanize.Comma(row.st.Hits), humanize.Comma(row.st.Misses), humanize.Comma(row.st.Evictions))
			}
			return w.Flush()
		},
	}

	var pattern string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if pattern != "" {
				q.Set("pattern", pattern)
			}
			var res models.CacheClearResult
			if err := adminCall(cmd.Context(), http.MethodDelete, serverURL, "/api/v1/cache", q, &res); err != nil {
				return err
			}
			if pattern == "" {
				fmt.Printf("Cleared %s cache entries.\n", humanize.Comma(int64(res.Removed)))
			} else {
				fmt.Printf("Cleared %s cache entries matching %q.\n", humanize.Comma(int64(res.Removed)), pattern)
			}
			return nil
		},
	}
	clearCmd.Flags().StringVar(&pattern, "pattern", "", "only clear keys containing this substring")

	cmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "base URL of the running server")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

// adminCall performs a request against the server and decodes the data
// field of its envelope into out.
func adminCall(ctx context.Context, method, base, path string, q url.Values, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	target := strings.TrimRight(base, "/") + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("contact server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e models.ErrorEnvelope
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return json.Unmarshal(env.Data, out)
}
