package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Window selects transactions relative to a reference instant.
type Window string

const (
	WindowToday   Window = "today"
	WindowWeek    Window = "week" // trailing 7 days inclusive of today
	WindowMonth   Window = "month"
	WindowQuarter Window = "quarter"
	WindowYear    Window = "year"
)

// ValidWindow reports whether w is one of the supported window names.
func ValidWindow(w Window) bool {
	switch w {
	case WindowToday, WindowWeek, WindowMonth, WindowQuarter, WindowYear:
		return true
	}
	return false
}

// InWindow reports whether the calendar date d falls inside w relative to
// now. Comparisons are purely calendar based; time-of-day is ignored.
func InWindow(d time.Time, w Window, now time.Time) bool {
	switch w {
	case WindowToday:
		return sameDay(d, now)
	case WindowWeek:
		start := startOfDay(now).AddDate(0, 0, -7)
		return !d.Before(start) && !startOfDay(d).After(startOfDay(now))
	case WindowMonth:
		return d.Year() == now.Year() && d.Month() == now.Month()
	case WindowQuarter:
		return d.Year() == now.Year() && quarterOf(d) == quarterOf(now)
	case WindowYear:
		return d.Year() == now.Year()
	}
	return false
}

// FilterByWindow returns the transactions whose date falls inside w.
// Transactions with unparseable dates match no window.
func FilterByWindow(txs []Transaction, w Window, now time.Time) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if d, ok := t.When(); ok && InWindow(d, w, now) {
			out = append(out, t)
		}
	}
	return out
}

// FlowSummary splits a flow total by top-level category.
type FlowSummary struct {
	Personal decimal.Decimal `json:"personal"`
	Business decimal.Decimal `json:"business"`
	Total    decimal.Decimal `json:"total"`
}

// SummarizeFlow totals transactions of the given type, split Personal
// versus Business.
func SummarizeFlow(txs []Transaction, tt TransactionType) FlowSummary {
	var s FlowSummary
	for _, t := range txs {
		if t.Type != tt {
			continue
		}
		switch t.Category {
		case Personal:
			s.Personal = s.Personal.Add(t.Amount)
		case Business:
			s.Business = s.Business.Add(t.Amount)
		}
	}
	s.Total = s.Personal.Add(s.Business)
	return s
}

// CategorySlice is one wedge of the expense breakdown.
type CategorySlice struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent float64         `json:"percent"`
}

// ExpenseBreakdown groups windowed expenses by subcategory, descending by
// amount. Percentages are 0 when the windowed total is zero.
func ExpenseBreakdown(txs []Transaction, w Window, now time.Time) []CategorySlice {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, t := range FilterByWindow(txs, w, now) {
		if t.Type != Expense {
			continue
		}
		sums[t.SubCategory] = sums[t.SubCategory].Add(t.Amount)
		total = total.Add(t.Amount)
	}

	out := make([]CategorySlice, 0, len(sums))
	for name, amount := range sums {
		slice := CategorySlice{Name: name, Amount: amount}
		if total.IsPositive() {
			slice.Percent, _ = amount.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}
		out = append(out, slice)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TrendBucket is one time slice of the cash-flow trend, oldest first.
type TrendBucket struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// DailyTrend buckets the trailing `days` calendar days (including today),
// one bucket per day, zero-filled where nothing happened.
func DailyTrend(txs []Transaction, days int, now time.Time) []TrendBucket {
	buckets := make([]TrendBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := startOfDay(now).AddDate(0, 0, -i)
		b := TrendBucket{
			Label:   day.Format("02 Jan"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, t := range txs {
			if d, ok := t.When(); ok && sameDay(d, day) {
				b = b.accumulate(t)
			}
		}
		b.Net = b.Income.Sub(b.Expense)
		buckets = append(buckets, b)
	}
	return buckets
}

// MonthlyTrend buckets the trailing `months` calendar months (including
// the current one), zero-filled, oldest first.
func MonthlyTrend(txs []Transaction, months int, now time.Time) []TrendBucket {
	buckets := make([]TrendBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		b := TrendBucket{
			Label:   first.Format("Jan"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, t := range txs {
			if d, ok := t.When(); ok && d.Year() == first.Year() && d.Month() == first.Month() {
				b = b.accumulate(t)
			}
		}
		b.Net = b.Income.Sub(b.Expense)
		buckets = append(buckets, b)
	}
	return buckets
}

func (b TrendBucket) accumulate(t Transaction) TrendBucket {
	switch t.Type {
	case Income:
		b.Income = b.Income.Add(t.Amount)
	case Expense:
		b.Expense = b.Expense.Add(t.Amount)
	}
	return b
}

// BudgetPerformance is one budget's current-month utilization.
type BudgetPerformance struct {
	Budget          Budget          `json:"budget"`
	Spent           decimal.Decimal `json:"spent"`
	SurplusFromPrev decimal.Decimal `json:"surplusFromPrev"`
	TotalAvailable  decimal.Decimal `json:"totalAvailable"`
	Percentage      float64         `json:"percentage"`
	Uncapped        bool            `json:"uncapped"` // no effective cap, distinct from 0% used
	OverBudget      bool            `json:"overBudget"`
}

// EvaluateBudget computes the current-calendar-month spend against the
// budget. With rollover enabled, last month's unused surplus raises the
// available amount; an overspent previous month never shrinks it.
func EvaluateBudget(b Budget, txs []Transaction, now time.Time) BudgetPerformance {
	spent := monthlySpend(b, txs, now)

	available := b.Limit
	surplus := decimal.Zero
	if b.RolloverEnabled {
		prev := monthlySpend(b, txs, now.AddDate(0, -1, 0))
		surplus = decimal.Max(decimal.Zero, b.Limit.Sub(prev))
		available = b.Limit.Add(surplus)
	}

	perf := BudgetPerformance{
		Budget:          b,
		Spent:           spent,
		SurplusFromPrev: surplus,
		TotalAvailable:  available,
	}
	if available.IsPositive() {
		perf.Percentage, _ = spent.Div(available).Mul(decimal.NewFromInt(100)).Float64()
		perf.OverBudget = spent.GreaterThan(available)
	} else {
		perf.Uncapped = true
	}
	return perf
}

func monthlySpend(b Budget, txs []Transaction, ref time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if t.Type != Expense || t.Category != b.Category || t.SubCategory != b.SubCategory {
			continue
		}
		if d, ok := t.When(); ok && d.Year() == ref.Year() && d.Month() == ref.Month() {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// InvestmentSummary aggregates the portfolio at current prices.
type InvestmentSummary struct {
	TotalValue        decimal.Decimal `json:"totalValue"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	ProfitLoss        decimal.Decimal `json:"profitLoss"`
	ProfitLossPercent float64         `json:"profitLossPercent"`
}

// SummarizeInvestments totals value, cost, and profit/loss across all
// holdings. The percentage is 0 for an empty or zero-cost portfolio.
func SummarizeInvestments(investments []Investment) InvestmentSummary {
	var s InvestmentSummary
	s.TotalValue = decimal.Zero
	s.TotalCost = decimal.Zero
	for _, inv := range investments {
		s.TotalValue = s.TotalValue.Add(inv.Value())
		s.TotalCost = s.TotalCost.Add(inv.Cost())
	}
	s.ProfitLoss = s.TotalValue.Sub(s.TotalCost)
	if s.TotalCost.IsPositive() {
		s.ProfitLossPercent, _ = s.ProfitLoss.Div(s.TotalCost).Mul(decimal.NewFromInt(100)).Float64()
	}
	return s
}

// TotalLoanOutstanding sums the unpaid principal across all loans.
func TotalLoanOutstanding(loans []Loan) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range loans {
		sum = sum.Add(l.Outstanding())
	}
	return sum
}

// NetLiquidity is the balance-based net position: liquid balances plus
// portfolio value minus loan outstanding and card debt. This is the only
// formula consistent with replaying the ledger against source balances.
func NetLiquidity(accounts []BankAccount, wallets []Wallet, investments []Investment, loans []Loan, cards []CreditCard) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range accounts {
		sum = sum.Add(a.Balance)
	}
	for _, w := range wallets {
		sum = sum.Add(w.Balance)
	}
	sum = sum.Add(SummarizeInvestments(investments).TotalValue)
	sum = sum.Sub(TotalLoanOutstanding(loans))
	for _, c := range cards {
		sum = sum.Sub(c.Outstanding)
	}
	return sum
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func quarterOf(t time.Time) int {
	return (int(t.Month()) - 1) / 3
}
