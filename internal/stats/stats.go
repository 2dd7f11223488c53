package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// Granularities lists the buckets in the order the dashboard shows them.
var Granularities = []Granularity{Day, Week, Month, Year}

var ErrUnknownGranularity = errors.New("unknown granularity")

func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case Day, Week, Month, Year:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// Layout returns the time layout used for axis labels.
// Weeks are labelled by month, like months.
func (g Granularity) Layout() string {
	switch g {
	case Year:
		return "2006"
	case Month, Week:
		return "01/2006"
	default:
		return "02/01/2006"
	}
}

const yearLayout = "2006"

type Counts struct {
	NewCoworkersCount int `json:"newCoworkersCount"`
	CoworkersCount    int `json:"coworkersCount"`
}

type DataPoint struct {
	Date Date   `json:"date"`
	Data Counts `json:"data"`
}

// Date is a timestamp that accepts the ISO-8601 shapes the stats endpoint emits.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, ok := parseFlexibleTime(s)
	if !ok {
		return fmt.Errorf("unparseable date %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// parseFlexibleTime tries the date formats the stats endpoint may return.
func parseFlexibleTime(s string) (time.Time, bool) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00", // truncated RFC3339 (no seconds)
		"2006-01-02T15:04:05",    // no offset
		"2006-01-02",
	}
	for _, f := range formats {
		if parsed, err := time.Parse(f, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Localize moves every date into loc so labels and year filtering follow the
// display zone. A nil loc keeps the offset each date was written with.
func Localize(points []DataPoint, loc *time.Location) []DataPoint {
	if loc == nil {
		return points
	}
	localized := make([]DataPoint, len(points))
	for i, p := range points {
		p.Date.Time = p.Date.In(loc)
		localized[i] = p
	}
	return localized
}

func FormatLabel(t time.Time, g Granularity) string {
	return t.Format(g.Layout())
}

func YearOf(p DataPoint) string {
	return p.Date.Format(yearLayout)
}

// Years returns the distinct years present in points, in first-seen order.
func Years(points []DataPoint) []string {
	seen := make(map[string]bool)
	years := make([]string, 0)
	for _, p := range points {
		y := YearOf(p)
		if seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	return years
}

// FilterYear keeps the points of the given year. An empty year keeps everything.
func FilterYear(points []DataPoint, year string) []DataPoint {
	if year == "" {
		return points
	}
	filtered := make([]DataPoint, 0, len(points))
	for _, p := range points {
		if YearOf(p) == year {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// RunningSum returns the cumulative new-coworker count at each point.
func RunningSum(points []DataPoint) []int {
	sums := make([]int, len(points))
	sum := 0
	for i, p := range points {
		sum += p.Data.NewCoworkersCount
		sums[i] = sum
	}
	return sums
}

// GapIfZero is the display rule for counts: a zero is drawn as a gap, not as a
// zero-height bar.
func GapIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

const (
	NewCountLabel   = "Nombre de nouveaux poulets 🐣"
	CumulativeLabel = "Cumul des nouveaux poulets"
	CountLabel      = "Nombre de poulets 🐔"

	NewCountColor = "rgba(247, 166, 11, .6)"
	CountColor    = "rgba(228, 70, 68, .6)"
)

type Dataset struct {
	Label           string `json:"label"`
	Data            []*int `json:"data"`
	BackgroundColor string `json:"backgroundColor"`
}

// Chart is the labels/datasets pair handed to the renderer. Datasets[0] holds
// the new (or cumulative) count, Datasets[1] the total count.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

func (c Chart) Raw() Dataset {
	return c.Datasets[0]
}

func (c Chart) Count() Dataset {
	return c.Datasets[1]
}

func Aggregate(points []DataPoint, year string, g Granularity, cumulative bool) Chart {
	filtered := FilterYear(points, year)
	sums := RunningSum(filtered)

	labels := make([]string, len(filtered))
	raw := make([]*int, len(filtered))
	count := make([]*int, len(filtered))
	for i, p := range filtered {
		labels[i] = FormatLabel(p.Date.Time, g)
		if cumulative {
			raw[i] = GapIfZero(sums[i])
		} else {
			raw[i] = GapIfZero(p.Data.NewCoworkersCount)
		}
		count[i] = GapIfZero(p.Data.CoworkersCount)
	}

	rawLabel := NewCountLabel
	if cumulative {
		rawLabel = CumulativeLabel
	}

	return Chart{
		Labels: labels,
		Datasets: []Dataset{
			{Label: rawLabel, Data: raw, BackgroundColor: NewCountColor},
			{Label: CountLabel, Data: count, BackgroundColor: CountColor},
		},
	}
}
