// ABOUTME: Follow-up tracking CLI commands
// ABOUTME: Lists open prospects that have gone quiet, oldest activity first
package cli

import (
	"flag"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

// FollowupListCommand lists prospects needing follow-up
func FollowupListCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("followups", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Maximum number of prospects to show")
	_ = fs.Parse(args)

	stale := viz.GenerateDashboardStats(t.List(), time.Now()).StaleProspects
	if len(stale) == 0 {
		_, _ = fmt.Fprintln(stdout, "No follow-ups due")
		return nil
	}

	// Never-contacted first, then longest silence.
	sort.SliceStable(stale, func(i, j int) bool {
		if (stale[i].DaysSince < 0) != (stale[j].DaysSince < 0) {
			return stale[i].DaysSince < 0
		}
		return stale[i].DaysSince > stale[j].DaysSince
	})

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDAYS SINCE\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "----\t----------\t------\t--")

	for i, s := range stale {
		if i == *limit {
			break
		}
		indicator := "🟡"
		days := fmt.Sprintf("%d", s.DaysSince)
		switch {
		case s.DaysSince < 0:
			indicator = "🔴"
			days = "never"
		case s.DaysSince > 30:
			indicator = "🔴"
		}
		_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", indicator, s.Name, days, s.Status.Label(), s.ID)
	}

	return w.Flush()
}
