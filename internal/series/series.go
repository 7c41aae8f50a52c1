// Package series produces chronologically ordered, filtered, cumulative
// P&L series for charting.
package series

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"b3-tracker/internal/assets"
	"b3-tracker/internal/models"
	"b3-tracker/internal/observe"
)

// Category selects which event sources feed the series.
type Category string

const (
	CategoryAll        Category = "all"
	CategoryStructures Category = "structures"
	CategoryRolls      Category = "rolls"
	CategoryExercises  Category = "exercises"
)

// ParseCategory parses a category filter string.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(s)) {
	case CategoryAll, CategoryStructures, CategoryRolls, CategoryExercises:
		return Category(strings.ToLower(s)), nil
	default:
		return CategoryAll, fmt.Errorf("unknown category %q", s)
	}
}

// Period selects the date window of the series.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodCustom  Period = "custom"
)

// ParsePeriod parses a period filter string.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(s)) {
	case PeriodAll, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear, PeriodCustom:
		return Period(strings.ToLower(s)), nil
	default:
		return PeriodAll, fmt.Errorf("unknown period %q", s)
	}
}

// Filter holds the series filter parameters. Asset is a base-asset
// string, or "all"/empty for no asset filter. Start and End bound a
// custom period inclusively; if either is nil the date filter is simply
// not applied, which callers must treat as an incomplete filter rather
// than an error.
type Filter struct {
	Asset    string
	Category Category
	Period   Period
	Start    *time.Time
	End      *time.Time

	// Now anchors the relative period cutoffs. Defaults to time.Now.
	Now func() time.Time

	Tracer observe.Tracer
}

// Entry is one point of the cumulative P&L series. Total carries the
// event's own value; the Cumulative fields carry the running sums up to
// and including this entry, so the series renders as a line chart with
// no further processing.
type Entry struct {
	Date       time.Time       `json:"date"`
	Structures decimal.Decimal `json:"structures"`
	Rolls      decimal.Decimal `json:"rolls"`
	Exercises  decimal.Decimal `json:"exercises"`
	Total      decimal.Decimal `json:"total"`
	Category   Category        `json:"category"`

	CumulativeStructures decimal.Decimal `json:"cumulative_structures"`
	CumulativeRolls      decimal.Decimal `json:"cumulative_rolls"`
	CumulativeExercises  decimal.Decimal `json:"cumulative_exercises"`
	CumulativeTotal      decimal.Decimal `json:"cumulative_total"`
}

// event is a contributing entry before cumulative sums are attached.
type event struct {
	date     time.Time
	category Category
	value    decimal.Decimal
	assets   []string
}

// Generate builds the filtered cumulative series. Only realized events
// contribute: CLOSED operations with nonzero result, EXECUTED rolls
// with a non-nil nonzero realized profit, and EXECUTED exercises with
// nonzero total result. The summary totals in the results package by
// contrast count every record; the two views are intentionally
// different. An empty result is valid, not an error.
func Generate(structures []models.Structure, rolls []models.Roll, exercises []models.Exercise, f Filter) []Entry {
	tracer := f.Tracer
	if tracer == nil {
		tracer = observe.NopTracer{}
	}

	events := collect(structures, rolls, exercises)

	// Asset filter runs per-event before any date filtering. Both sides
	// go through the shared normalization, so an option code selects the
	// same entries as its underlying.
	if asset := strings.ToUpper(strings.TrimSpace(f.Asset)); asset != "" && !strings.EqualFold(asset, "ALL") {
		want := assets.Underlying(asset)
		events = filterEvents(events, func(e event) bool {
			for _, a := range e.assets {
				if assets.Underlying(a) == want {
					return true
				}
			}
			return false
		})
	}

	// Stable sort keeps the original relative order of same-day events.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].date.Before(events[j].date)
	})

	if cutoff, ok := f.cutoff(); ok {
		events = filterEvents(events, func(e event) bool {
			return !e.date.Before(cutoff)
		})
	} else if f.Period == PeriodCustom && f.Start != nil && f.End != nil {
		start, end := *f.Start, *f.End
		events = filterEvents(events, func(e event) bool {
			return !e.date.Before(start) && !e.date.After(end)
		})
	}

	if f.Category != "" && f.Category != CategoryAll {
		events = filterEvents(events, func(e event) bool {
			return e.category == f.Category
		})
	}

	entries := make([]Entry, 0, len(events))
	cumStructures, cumRolls, cumExercises, cumTotal := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range events {
		entry := Entry{
			Date:       e.date,
			Category:   e.category,
			Structures: decimal.Zero,
			Rolls:      decimal.Zero,
			Exercises:  decimal.Zero,
			Total:      e.value,
		}
		switch e.category {
		case CategoryStructures:
			entry.Structures = e.value
			cumStructures = cumStructures.Add(e.value)
		case CategoryRolls:
			entry.Rolls = e.value
			cumRolls = cumRolls.Add(e.value)
		case CategoryExercises:
			entry.Exercises = e.value
			cumExercises = cumExercises.Add(e.value)
		}
		cumTotal = cumTotal.Add(e.value)
		entry.CumulativeStructures = cumStructures
		entry.CumulativeRolls = cumRolls
		entry.CumulativeExercises = cumExercises
		entry.CumulativeTotal = cumTotal
		entries = append(entries, entry)
	}

	tracer.Trace("series generated", map[string]interface{}{
		"entries":  len(entries),
		"asset":    f.Asset,
		"category": string(f.Category),
		"period":   string(f.Period),
	})

	return entries
}

// collect builds one event per contributing record.
func collect(structures []models.Structure, rolls []models.Roll, exercises []models.Exercise) []event {
	var events []event
	for _, st := range structures {
		for _, op := range st.Operations {
			if op.Status != models.OperationClosed || op.Result.IsZero() {
				continue
			}
			date := op.EntryDate
			if op.ExitDate != nil {
				date = *op.ExitDate
			}
			events = append(events, event{
				date:     date,
				category: CategoryStructures,
				value:    op.Result,
				assets:   []string{op.Asset},
			})
		}
	}
	for _, roll := range rolls {
		if roll.Status != models.EventExecuted || roll.RealizedProfit == nil || roll.RealizedProfit.IsZero() {
			continue
		}
		events = append(events, event{
			date:     roll.Date,
			category: CategoryRolls,
			value:    *roll.RealizedProfit,
			assets:   legAssets(roll.OriginalLegs),
		})
	}
	for _, ex := range exercises {
		if ex.Status != models.EventExecuted || ex.TotalResult.IsZero() {
			continue
		}
		var names []string
		for _, opt := range ex.Options {
			names = append(names, opt.Asset)
		}
		events = append(events, event{
			date:     ex.Date,
			category: CategoryExercises,
			value:    ex.TotalResult,
			assets:   names,
		})
	}
	return events
}

// cutoff returns the lower date bound for relative periods.
func (f Filter) cutoff() (time.Time, bool) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	switch f.Period {
	case PeriodWeek:
		return now().AddDate(0, 0, -7), true
	case PeriodMonth:
		return now().AddDate(0, -1, 0), true
	case PeriodQuarter:
		return now().AddDate(0, -3, 0), true
	case PeriodYear:
		return now().AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func filterEvents(events []event, keep func(event) bool) []event {
	out := events[:0]
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func legAssets(legs []models.Leg) []string {
	names := make([]string, 0, len(legs))
	for _, leg := range legs {
		names = append(names, leg.Asset)
	}
	return names
}
