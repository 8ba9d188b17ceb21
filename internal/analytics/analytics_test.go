package analytics

import (
	"testing"
	"time"

	"bucketeer/internal/models"
)

func tx(txType models.TransactionType, amount int64, year int, month time.Month, day int) models.Transaction {
	return models.Transaction{
		Type:   txType,
		Amount: amount,
		Date:   time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestMonthlySeries(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeIncome, 500000, 2024, time.January, 1),
		tx(models.TransactionTypeExpense, 120000, 2024, time.January, 5),
		tx(models.TransactionTypeExpense, 4500, 2024, time.March, 12),
		tx(models.TransactionTypeIncome, 500000, 2023, time.December, 1),
	}

	series := MonthlySeries(txs)
	if len(series) != 3 {
		t.Fatalf("expected 3 months, got %d", len(series))
	}

	if series[0].Month != (Month{2023, time.December}) {
		t.Errorf("expected oldest month first, got %+v", series[0].Month)
	}
	jan := series[1]
	if jan.Income != 500000 || jan.Expense != 120000 || jan.Net != 380000 {
		t.Errorf("unexpected January totals: %+v", jan)
	}
	// February has no transactions and must be absent, not zero.
	if series[2].Month != (Month{2024, time.March}) {
		t.Errorf("expected gap months skipped, got %+v", series[2].Month)
	}
}

func TestMonthlySeriesEmpty(t *testing.T) {
	if series := MonthlySeries(nil); len(series) != 0 {
		t.Errorf("expected empty series, got %+v", series)
	}
}

func TestTotalsInclusiveBounds(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeExpense, 100, 2024, time.March, 1),
		tx(models.TransactionTypeExpense, 200, 2024, time.March, 31),
		tx(models.TransactionTypeExpense, 400, 2024, time.April, 1),
		tx(models.TransactionTypeIncome, 1000, 2024, time.March, 15),
	}

	totals := Totals(txs,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC))

	if totals.Expense != 300 {
		t.Errorf("expected both boundary days counted, got expense %d", totals.Expense)
	}
	if totals.Income != 1000 || totals.Net != 700 || totals.Count != 3 {
		t.Errorf("unexpected totals: %+v", totals)
	}
}

func TestCompare(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeExpense, 80000, 2024, time.February, 10),
		tx(models.TransactionTypeExpense, 95000, 2024, time.March, 10),
		tx(models.TransactionTypeIncome, 500000, 2024, time.February, 1),
		tx(models.TransactionTypeIncome, 500000, 2024, time.March, 1),
	}

	cmp := Compare(txs,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))

	if cmp.ExpenseDelta != 15000 {
		t.Errorf("expected expense delta 15000, got %d", cmp.ExpenseDelta)
	}
	if cmp.IncomeDelta != 0 {
		t.Errorf("expected flat income, got %d", cmp.IncomeDelta)
	}
	if cmp.NetDelta != -15000 {
		t.Errorf("expected net delta -15000, got %d", cmp.NetDelta)
	}
}

func TestExpensesByBucket(t *testing.T) {
	home := "bucket-home"
	food := "bucket-food"

	withBucket := func(base models.Transaction, id *string) models.Transaction {
		base.BucketID = id
		return base
	}

	txs := []models.Transaction{
		withBucket(tx(models.TransactionTypeExpense, 120000, 2024, time.March, 1), &home),
		withBucket(tx(models.TransactionTypeExpense, 4500, 2024, time.March, 3), &food),
		withBucket(tx(models.TransactionTypeExpense, 6200, 2024, time.March, 9), &food),
		withBucket(tx(models.TransactionTypeExpense, 999, 2024, time.March, 10), nil),
		withBucket(tx(models.TransactionTypeIncome, 500000, 2024, time.March, 1), &home),
	}

	breakdown := ExpensesByBucket(txs)
	if len(breakdown) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(breakdown))
	}

	if breakdown[0].BucketID != home || breakdown[0].Total != 120000 {
		t.Errorf("expected home largest, got %+v", breakdown[0])
	}
	if breakdown[1].BucketID != food || breakdown[1].Total != 10700 || breakdown[1].Count != 2 {
		t.Errorf("unexpected food group: %+v", breakdown[1])
	}
	if breakdown[2].BucketID != "" {
		t.Errorf("expected unbucketed group under empty ID, got %+v", breakdown[2])
	}
}

func TestMonthlyAverageExpense(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeExpense, 90000, 2024, time.January, 5),
		tx(models.TransactionTypeExpense, 110000, 2024, time.February, 5),
		tx(models.TransactionTypeIncome, 500000, 2024, time.March, 1),
	}

	// March counts as a month with activity even though it has no
	// expenses, so the average divides by 3.
	if got := MonthlyAverageExpense(txs); got != 66666 {
		t.Errorf("expected average 66666, got %d", got)
	}

	if got := MonthlyAverageExpense(nil); got != 0 {
		t.Errorf("expected 0 for no transactions, got %d", got)
	}
}
