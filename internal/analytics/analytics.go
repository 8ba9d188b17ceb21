// Package analytics computes display-ready aggregates over transaction
// slices. Every function is pure: no state, no I/O, input slices are
// never modified.
package analytics

import (
	"sort"
	"time"

	"bucketeer/internal/models"
)

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// MonthTotals is one month's aggregate amounts, in cents.
type MonthTotals struct {
	Month   Month
	Income  int64
	Expense int64
	Net     int64
}

// MonthlySeries buckets transactions by calendar month and returns one
// entry per month that has at least one transaction, oldest first.
// Months with no activity are absent, not zero-filled.
func MonthlySeries(txs []models.Transaction) []MonthTotals {
	byMonth := make(map[Month]*MonthTotals)
	for i := range txs {
		m := MonthOf(txs[i].Date)
		totals, ok := byMonth[m]
		if !ok {
			totals = &MonthTotals{Month: m}
			byMonth[m] = totals
		}
		switch txs[i].Type {
		case models.TransactionTypeIncome:
			totals.Income += txs[i].Amount
		case models.TransactionTypeExpense:
			totals.Expense += txs[i].Amount
		}
		totals.Net = totals.Income - totals.Expense
	}

	series := make([]MonthTotals, 0, len(byMonth))
	for _, totals := range byMonth {
		series = append(series, *totals)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month.before(series[j].Month) })
	return series
}

// PeriodTotals is the aggregate over an arbitrary date range.
type PeriodTotals struct {
	Income  int64
	Expense int64
	Net     int64
	Count   int
}

// Totals sums transactions dated in [from, to], inclusive on both ends
// at calendar-day granularity.
func Totals(txs []models.Transaction, from, to time.Time) PeriodTotals {
	var totals PeriodTotals
	fromDay := dayOf(from)
	toDay := dayOf(to)
	for i := range txs {
		day := dayOf(txs[i].Date)
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		totals.Count++
		switch txs[i].Type {
		case models.TransactionTypeIncome:
			totals.Income += txs[i].Amount
		case models.TransactionTypeExpense:
			totals.Expense += txs[i].Amount
		}
	}
	totals.Net = totals.Income - totals.Expense
	return totals
}

// Comparison contrasts a period against a baseline.
type Comparison struct {
	Current  PeriodTotals
	Previous PeriodTotals

	// Deltas are current minus previous; positive means more.
	IncomeDelta  int64
	ExpenseDelta int64
	NetDelta     int64
}

// Compare aggregates both periods and computes the deltas.
func Compare(txs []models.Transaction, currentFrom, currentTo, previousFrom, previousTo time.Time) Comparison {
	current := Totals(txs, currentFrom, currentTo)
	previous := Totals(txs, previousFrom, previousTo)
	return Comparison{
		Current:      current,
		Previous:     previous,
		IncomeDelta:  current.Income - previous.Income,
		ExpenseDelta: current.Expense - previous.Expense,
		NetDelta:     current.Net - previous.Net,
	}
}

// BucketTotal is one bucket's share of spending. BucketID is empty for
// unbucketed expenses.
type BucketTotal struct {
	BucketID string
	Total    int64
	Count    int
}

// ExpensesByBucket groups expense transactions by bucket, largest total
// first. Income is ignored; transactions with no bucket group under the
// empty ID.
func ExpensesByBucket(txs []models.Transaction) []BucketTotal {
	byBucket := make(map[string]*BucketTotal)
	for i := range txs {
		if txs[i].Type != models.TransactionTypeExpense {
			continue
		}
		id := ""
		if txs[i].BucketID != nil {
			id = *txs[i].BucketID
		}
		total, ok := byBucket[id]
		if !ok {
			total = &BucketTotal{BucketID: id}
			byBucket[id] = total
		}
		total.Total += txs[i].Amount
		total.Count++
	}

	breakdown := make([]BucketTotal, 0, len(byBucket))
	for _, total := range byBucket {
		breakdown = append(breakdown, *total)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].BucketID < breakdown[j].BucketID
	})
	return breakdown
}

// MonthlyAverageExpense returns the mean monthly expense across the
// months that have at least one transaction of any type. Zero when there
// are no transactions.
func MonthlyAverageExpense(txs []models.Transaction) int64 {
	series := MonthlySeries(txs)
	if len(series) == 0 {
		return 0
	}
	var total int64
	for _, m := range series {
		total += m.Expense
	}
	return total / int64(len(series))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
