package util

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"cinematix/models"
)

// PlotShowtimesByHour renders an HTML bar chart of how many showtimes start
// in each hour of the day. Showtimes with unparsable starts are skipped.
func PlotShowtimesByHour(w io.Writer, showtimes []models.Showtime) error {
	counts := map[int]int{}
	for i := range showtimes {
		start, err := showtimes[i].Start()
		if err != nil {
			continue
		}
		counts[start.Hour()]++
	}

	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	labels := make([]string, 0, len(hours))
	values := make([]opts.BarData, 0, len(hours))
	for _, h := range hours {
		labels = append(labels, fmt.Sprintf("%02d:00", h))
		values = append(values, opts.BarData{Value: counts[h]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Showtimes by Hour",
			Width:     "800px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Showtimes by Hour",
		}),
	)
	bar.SetXAxis(labels).AddSeries("Showtimes", values,
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}),
	)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render showtimes chart: %w", err)
	}
	return nil
}

// PlotDailyCounts renders an HTML bar chart of showtimes per calendar day.
func PlotDailyCounts(w io.Writer, showtimes []models.Showtime) error {
	counts := map[string]int{}
	for i := range showtimes {
		start, err := showtimes[i].Start()
		if err != nil {
			continue
		}
		counts[start.Format(DateFormat)]++
	}

	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)

	values := make([]opts.BarData, 0, len(days))
	for _, d := range days {
		values = append(values, opts.BarData{Value: counts[d]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Showtimes by Day",
			Width:     "800px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Showtimes by Day",
			Subtitle: fmt.Sprintf("generated %s", time.Now().Format(time.RFC1123)),
		}),
	)
	bar.SetXAxis(days).AddSeries("Showtimes", values)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render daily counts chart: %w", err)
	}
	return nil
}
