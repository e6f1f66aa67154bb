// Command forecast prints the eureka status report or the upcoming ocean
// fishing voyages.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/logging"
	"github.com/thebluefish/eureka-notify/internal/ocean"
	"github.com/thebluefish/eureka-notify/internal/static"
	"github.com/thebluefish/eureka-notify/internal/status"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

func main() {
	dataDir := flag.String("data", "", "Reference data directory (default: bundled tables)")
	at := flag.Int64("at", 0, "Unix seconds to report at (default: now)")
	voyages := flag.Int("ocean", 0, "Print the next N ocean voyages instead of the eureka report")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	logger, err := logging.New(*logLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	now, err := reportTime(*at, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -at: %v\n", err)
		os.Exit(2)
	}

	if *voyages > 0 {
		printVoyages(os.Stdout, now, *voyages)
		return
	}

	var tables *static.Tables
	if *dataDir != "" {
		tables, err = static.LoadDir(*dataDir)
	} else {
		tables, err = static.Default()
	}
	if err != nil {
		logger.Fatal("failed to load reference data", zap.Error(err))
	}

	reporter, err := status.NewReporter(weather.NewResolver(tables, logger), logger)
	if err != nil {
		logger.Fatal("failed to build status reporter", zap.Error(err))
	}

	report, err := reporter.Build(eorzea.FromReal(now))
	if err != nil {
		logger.Fatal("failed to build status report", zap.Error(err))
	}
	printReport(os.Stdout, report, now)
}

// reportTime resolves the -at flag; zero means now
func reportTime(at int64, now time.Time) (time.Time, error) {
	t := now
	if at != 0 {
		t = time.Unix(at, 0)
	}
	if !eorzea.RealInRange(t) {
		return time.Time{}, fmt.Errorf("%d is outside 0..%d", t.Unix(), eorzea.MaxInstant.ToReal().Unix()-1)
	}
	return t, nil
}

func printReport(w io.Writer, r *status.Report, now time.Time) {
	et := eorzea.FromReal(now)
	fmt.Fprintf(w, "ET %02d:%02d (cycle started %s)\n\n", et.Hour(), et.Minute(), r.At.ToReal().Local().Format(time.Kitchen))

	for _, z := range r.Zones {
		fmt.Fprintf(w, "%-8s %-12s next %-12s %s\n",
			strings.TrimPrefix(z.Zone, "Eureka "), z.Current, z.Next, when(z.NextStart, now))
	}
	fmt.Fprintln(w)

	for _, c := range r.Conditions {
		state := ""
		switch {
		case c.Active:
			state = " [ACTIVE]"
		case c.Upcoming:
			state = " [NEXT]"
		}
		fmt.Fprintf(w, "%-10s next %s, previous %s%s\n",
			c.Condition.Name, when(c.Next, now), when(c.Previous, now), state)
	}
	for _, run := range r.Runs {
		fmt.Fprintf(w, "%-10s x%d %s\n", run.Condition.Name, run.Length, when(run.Start, now))
	}
}

func printVoyages(w io.Writer, now time.Time, n int) {
	notable := ocean.DefaultNotifyTiers
	for _, v := range ocean.Schedule(now, n) {
		mark := " "
		if v.Route.InAny(notable...) {
			mark = "*"
		}
		var tiers []string
		for _, t := range v.Route.Tiers() {
			tiers = append(tiers, t.String())
		}
		fmt.Fprintf(w, "%s %s  %-17s %-26s %s (%s)\n",
			mark, v.Departure.Local().Format("Mon 15:04"), v.Route, v.Route.Name(),
			strings.Join(tiers, ","), humanize.RelTime(v.Departure, now, "ago", "from now"))
	}
}

func when(i eorzea.Instant, now time.Time) string {
	t := i.ToReal()
	return fmt.Sprintf("%s (%s)", t.Local().Format("Jan 2 15:04"), humanize.RelTime(t, now, "ago", "from now"))
}
