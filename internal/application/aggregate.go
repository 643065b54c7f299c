package application

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"arclens/internal/domain"
)

// timelineDays bounds the activity timeline to the most recent distinct
// active days, not the most recent transactions.
const timelineDays = 30

// dateSentinel is emitted for first/last transaction dates when the
// account has no history.
const dateSentinel = "N/A"

// Aggregates holds everything a single pass over the transaction list
// produces. Base-unit totals stay as big integers; formatting happens in
// the report assembler.
type Aggregates struct {
	TotalTransactions int
	Volume            *big.Int
	GasCost           *big.Int
	GasUsed           *big.Int
	LargestValue      *big.Int
	UniqueContracts   int
	DaysActive        int
	FirstDate         string
	LastDate          string
	Categories        []domain.CategoryCount
	Timeline          []domain.TimelineEntry
}

// Aggregate walks the transaction list once and derives the running totals,
// category tally, and per-day activity timeline.
//
// The list must be sorted ascending by timeStamp; the explorer source
// guarantees this and the first/last dates plus timeline trimming rely on
// it. Malformed numeric fields count as zero instead of failing the pass.
func Aggregate(records []domain.TransactionRecord) Aggregates {
	agg := Aggregates{
		TotalTransactions: len(records),
		Volume:            new(big.Int),
		GasCost:           new(big.Int),
		GasUsed:           new(big.Int),
		LargestValue:      new(big.Int),
		FirstDate:         dateSentinel,
		LastDate:          dateSentinel,
		Categories:        []domain.CategoryCount{},
		Timeline:          []domain.TimelineEntry{},
	}
	if len(records) == 0 {
		return agg
	}

	counterparties := make(map[string]struct{})
	dayCounts := make(map[string]int)
	categoryCounts := make(map[Category]int)
	var categoryOrder []Category

	for _, record := range records {
		value := ParseBigInt(record.Value)
		agg.Volume.Add(agg.Volume, value)
		if value.Cmp(agg.LargestValue) > 0 {
			agg.LargestValue.Set(value)
		}

		gasUsed := ParseBigInt(record.GasUsed)
		agg.GasUsed.Add(agg.GasUsed, gasUsed)
		agg.GasCost.Add(agg.GasCost, new(big.Int).Mul(gasUsed, ParseBigInt(record.GasPrice)))

		if to := strings.ToLower(strings.TrimSpace(record.To)); to != "" {
			counterparties[to] = struct{}{}
		}

		dayCounts[calendarDay(record.TimeStamp)]++

		category := Classify(record)
		if _, seen := categoryCounts[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		categoryCounts[category]++
	}

	agg.UniqueContracts = len(counterparties)
	agg.DaysActive = len(dayCounts)
	agg.FirstDate = calendarDay(records[0].TimeStamp)
	agg.LastDate = calendarDay(records[len(records)-1].TimeStamp)
	agg.Categories = rankCategories(categoryOrder, categoryCounts)
	agg.Timeline = buildTimeline(dayCounts)
	return agg
}

// calendarDay maps a Unix-seconds string to its UTC calendar date. An
// unparsable timestamp counts as zero, consistent with the malformed-field
// rule elsewhere.
func calendarDay(timeStamp string) string {
	seconds, err := strconv.ParseInt(strings.TrimSpace(timeStamp), 10, 64)
	if err != nil {
		seconds = 0
	}
	return time.Unix(seconds, 0).UTC().Format("2006-01-02")
}

// rankCategories orders the tally descending by count. The sort is stable,
// so ties keep first-encountered order.
func rankCategories(order []Category, counts map[Category]int) []domain.CategoryCount {
	ranked := make([]domain.CategoryCount, 0, len(order))
	for _, category := range order {
		ranked = append(ranked, domain.CategoryCount{Name: string(category), Count: counts[category]})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Count > ranked[b].Count
	})
	return ranked
}

// buildTimeline sorts the active days ascending and keeps only the most
// recent timelineDays entries.
func buildTimeline(dayCounts map[string]int) []domain.TimelineEntry {
	days := make([]string, 0, len(dayCounts))
	for day := range dayCounts {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > timelineDays {
		days = days[len(days)-timelineDays:]
	}

	timeline := make([]domain.TimelineEntry, 0, len(days))
	for _, day := range days {
		timeline = append(timeline, domain.TimelineEntry{Date: day, Transactions: dayCounts[day]})
	}
	return timeline
}
