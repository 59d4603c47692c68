package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var aggNow = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func expense(amount int64, cat Category, sub, date string) Transaction {
	return Transaction{
		ID: NewID(), Amount: decimal.NewFromInt(amount),
		Type: Expense, Category: cat, SubCategory: sub, Date: date,
	}
}

func income(amount int64, cat Category, sub, date string) Transaction {
	return Transaction{
		ID: NewID(), Amount: decimal.NewFromInt(amount),
		Type: Income, Category: cat, SubCategory: sub, Date: date,
	}
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		window Window
		want   bool
	}{
		{"same day is today", "2026-08-15", WindowToday, true},
		{"yesterday is not today", "2026-08-14", WindowToday, false},
		{"six days back is in week", "2026-08-09", WindowWeek, true},
		{"seven days back is in week", "2026-08-08", WindowWeek, true},
		{"eight days back is out of week", "2026-08-07", WindowWeek, false},
		{"first of month", "2026-08-01", WindowMonth, true},
		{"previous month", "2026-07-31", WindowMonth, false},
		{"july is same quarter", "2026-07-01", WindowQuarter, true},
		{"june is previous quarter", "2026-06-30", WindowQuarter, false},
		{"january is same year", "2026-01-01", WindowYear, true},
		{"last december is out", "2025-12-31", WindowYear, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseDate(tt.date)
			if !ok {
				t.Fatalf("bad test date %q", tt.date)
			}
			if got := InWindow(d, tt.window, aggNow); got != tt.want {
				t.Errorf("InWindow(%s, %s) = %v, want %v", tt.date, tt.window, got, tt.want)
			}
		})
	}
}

func TestValidWindow(t *testing.T) {
	for _, w := range []Window{WindowToday, WindowWeek, WindowMonth, WindowQuarter, WindowYear} {
		if !ValidWindow(w) {
			t.Errorf("ValidWindow(%s) = false", w)
		}
	}
	if ValidWindow("fortnight") {
		t.Error("ValidWindow accepted an unknown window")
	}
}

func TestSummarizeFlow(t *testing.T) {
	txs := []Transaction{
		income(50000, Personal, "Salary", "2026-08-01"),
		income(20000, Business, "Sales", "2026-08-02"),
		expense(8000, Personal, "Rent", "2026-08-03"),
	}
	s := SummarizeFlow(txs, Income)
	if !s.Personal.Equal(decimal.NewFromInt(50000)) || !s.Business.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("income split = %s/%s", s.Personal, s.Business)
	}
	if !s.Total.Equal(decimal.NewFromInt(70000)) {
		t.Errorf("income total = %s, want 70000", s.Total)
	}

	e := SummarizeFlow(txs, Expense)
	if !e.Total.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("expense total = %s, want 8000", e.Total)
	}
}

func TestExpenseBreakdown(t *testing.T) {
	txs := []Transaction{
		expense(6000, Personal, "Rent", "2026-08-10"),
		expense(3000, Personal, "Groceries", "2026-08-11"),
		expense(1000, Personal, "Groceries", "2026-08-12"),
		expense(999, Personal, "Dining", "2026-07-01"), // outside the month
		income(50000, Personal, "Salary", "2026-08-01"),
	}
	slices := ExpenseBreakdown(txs, WindowMonth, aggNow)
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(slices))
	}
	if slices[0].Name != "Rent" || slices[1].Name != "Groceries" {
		t.Errorf("order = %s, %s; want Rent, Groceries", slices[0].Name, slices[1].Name)
	}
	if slices[0].Percent != 60 || slices[1].Percent != 40 {
		t.Errorf("percents = %v, %v; want 60, 40", slices[0].Percent, slices[1].Percent)
	}
}

func TestExpenseBreakdownEmptyWindow(t *testing.T) {
	slices := ExpenseBreakdown(nil, WindowMonth, aggNow)
	if len(slices) != 0 {
		t.Errorf("got %d slices for empty history", len(slices))
	}
}

func TestDailyTrendZeroFills(t *testing.T) {
	txs := []Transaction{
		income(1000, Personal, "Salary", "2026-08-15"),
		expense(300, Personal, "Dining", "2026-08-13"),
	}
	buckets := DailyTrend(txs, 7, aggNow)
	if len(buckets) != 7 {
		t.Fatalf("got %d buckets, want 7", len(buckets))
	}
	if buckets[0].Label != "09 Aug" || buckets[6].Label != "15 Aug" {
		t.Errorf("labels = %s .. %s", buckets[0].Label, buckets[6].Label)
	}
	if !buckets[6].Income.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("today income = %s", buckets[6].Income)
	}
	if !buckets[4].Expense.Equal(decimal.NewFromInt(300)) {
		t.Errorf("13 Aug expense = %s", buckets[4].Expense)
	}
	if !buckets[0].Income.IsZero() || !buckets[0].Expense.IsZero() {
		t.Error("empty day not zero-filled")
	}
	if !buckets[6].Net.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("net = %s", buckets[6].Net)
	}
}

func TestMonthlyTrendZeroFills(t *testing.T) {
	txs := []Transaction{
		income(5000, Personal, "Salary", "2026-06-10"),
		expense(2000, Personal, "Rent", "2026-08-01"),
	}
	buckets := MonthlyTrend(txs, 3, aggNow)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
	if buckets[0].Label != "Jun" || buckets[1].Label != "Jul" || buckets[2].Label != "Aug" {
		t.Errorf("labels = %s %s %s", buckets[0].Label, buckets[1].Label, buckets[2].Label)
	}
	if !buckets[0].Income.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Jun income = %s", buckets[0].Income)
	}
	if !buckets[1].Income.IsZero() || !buckets[1].Expense.IsZero() {
		t.Error("Jul not zero-filled")
	}
	if !buckets[2].Net.Equal(decimal.NewFromInt(-2000)) {
		t.Errorf("Aug net = %s", buckets[2].Net)
	}
}

func TestEvaluateBudget(t *testing.T) {
	budget := Budget{ID: "b1", Category: Personal, SubCategory: "Groceries", Limit: decimal.NewFromInt(8000)}
	txs := []Transaction{
		expense(3000, Personal, "Groceries", "2026-08-05"),
		expense(2000, Personal, "Groceries", "2026-08-10"),
		expense(5000, Personal, "Dining", "2026-08-11"),    // other subcategory
		expense(4000, Business, "Groceries", "2026-08-12"), // other category
	}
	perf := EvaluateBudget(budget, txs, aggNow)
	if !perf.Spent.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("spent = %s, want 5000", perf.Spent)
	}
	if perf.Percentage != 62.5 {
		t.Errorf("percentage = %v, want 62.5", perf.Percentage)
	}
	if perf.OverBudget || perf.Uncapped {
		t.Errorf("flags = over:%v uncapped:%v", perf.OverBudget, perf.Uncapped)
	}
}

func TestEvaluateBudgetRollover(t *testing.T) {
	budget := Budget{ID: "b1", Category: Personal, SubCategory: "Groceries", Limit: decimal.NewFromInt(8000), RolloverEnabled: true}

	t.Run("surplus raises available", func(t *testing.T) {
		txs := []Transaction{
			expense(5000, Personal, "Groceries", "2026-07-10"),
			expense(9000, Personal, "Groceries", "2026-08-10"),
		}
		perf := EvaluateBudget(budget, txs, aggNow)
		if !perf.SurplusFromPrev.Equal(decimal.NewFromInt(3000)) {
			t.Errorf("surplus = %s, want 3000", perf.SurplusFromPrev)
		}
		if !perf.TotalAvailable.Equal(decimal.NewFromInt(11000)) {
			t.Errorf("available = %s, want 11000", perf.TotalAvailable)
		}
		if perf.OverBudget {
			t.Error("9000 of 11000 flagged over budget")
		}
	})

	t.Run("overspent previous month never shrinks available", func(t *testing.T) {
		txs := []Transaction{
			expense(12000, Personal, "Groceries", "2026-07-10"),
			expense(1000, Personal, "Groceries", "2026-08-10"),
		}
		perf := EvaluateBudget(budget, txs, aggNow)
		if !perf.SurplusFromPrev.IsZero() {
			t.Errorf("surplus = %s, want 0", perf.SurplusFromPrev)
		}
		if !perf.TotalAvailable.Equal(decimal.NewFromInt(8000)) {
			t.Errorf("available = %s, want 8000", perf.TotalAvailable)
		}
	})
}

func TestEvaluateBudgetZeroLimitIsUncapped(t *testing.T) {
	budget := Budget{ID: "b1", Category: Personal, SubCategory: "Groceries"}
	perf := EvaluateBudget(budget, nil, aggNow)
	if !perf.Uncapped {
		t.Error("zero-limit budget must be uncapped, not 0% used")
	}
	if perf.OverBudget {
		t.Error("uncapped budget flagged over")
	}
}

func TestSummarizeInvestments(t *testing.T) {
	invs := []Investment{
		{ID: "i1", Name: "NIFTY ETF", BuyPrice: decimal.NewFromInt(100), CurrentPrice: decimal.NewFromInt(150), Quantity: decimal.NewFromInt(10), Date: "2026-01-05"},
		{ID: "i2", Name: "Gold", BuyPrice: decimal.NewFromInt(5000), CurrentPrice: decimal.NewFromInt(4500), Quantity: decimal.NewFromInt(2), Date: "2026-02-01"},
	}
	s := SummarizeInvestments(invs)
	if !s.TotalValue.Equal(decimal.NewFromInt(10500)) {
		t.Errorf("value = %s, want 10500", s.TotalValue)
	}
	if !s.TotalCost.Equal(decimal.NewFromInt(11000)) {
		t.Errorf("cost = %s, want 11000", s.TotalCost)
	}
	if !s.ProfitLoss.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("p/l = %s, want -500", s.ProfitLoss)
	}
}

func TestSummarizeInvestmentsEmpty(t *testing.T) {
	s := SummarizeInvestments(nil)
	if s.ProfitLossPercent != 0 {
		t.Errorf("empty portfolio percent = %v, want 0", s.ProfitLossPercent)
	}
}

func TestNetLiquidity(t *testing.T) {
	accounts := []BankAccount{{ID: "a", Balance: decimal.NewFromInt(50000)}}
	wallets := []Wallet{{ID: "w", Balance: decimal.NewFromInt(2000)}}
	invs := []Investment{{ID: "i", CurrentPrice: decimal.NewFromInt(100), BuyPrice: decimal.NewFromInt(90), Quantity: decimal.NewFromInt(10)}}
	loans := []Loan{{ID: "l", Principal: decimal.NewFromInt(500000), PaidAmount: decimal.NewFromInt(480000)}}
	cards := []CreditCard{{ID: "c", Outstanding: decimal.NewFromInt(5000)}}

	// 50000 + 2000 + 1000 - 20000 - 5000
	got := NetLiquidity(accounts, wallets, invs, loans, cards)
	if !got.Equal(decimal.NewFromInt(28000)) {
		t.Errorf("net liquidity = %s, want 28000", got)
	}
}
