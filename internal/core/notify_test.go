package core

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func notifyFixtures() ([]Loan, []BankAccount, []Budget, []Transaction) {
	loans := []Loan{{
		ID:               "loan-1",
		Name:             "Car Loan",
		Principal:        decimal.NewFromInt(500000),
		InterestRate:     8.5,
		Tenure:           48,
		PaidAmount:       decimal.NewFromInt(120000),
		StartDate:        "2023-06-01",
		ReminderDay:      5,
		RemindersEnabled: true,
	}}
	accounts := []BankAccount{
		{ID: "acc-1", Name: "HDFC BANK", Nickname: "Salary", Balance: decimal.NewFromInt(650)},
		{ID: "acc-2", Name: "SBI BANK", Balance: decimal.NewFromInt(90000)},
	}
	budgets := []Budget{{ID: "b1", Category: Personal, SubCategory: "Groceries", Limit: decimal.NewFromInt(8000)}}
	txs := []Transaction{expense(7500, Personal, "Groceries", "2026-08-03")}
	return loans, accounts, budgets, txs
}

func TestEMIReminderFiresOnReminderDay(t *testing.T) {
	loans, accounts, budgets, txs := notifyFixtures()
	prefs := DefaultPreferences()

	day5 := time.Date(2026, time.August, 5, 9, 0, 0, 0, time.UTC)
	got := EvaluateNotifications(loans, accounts, budgets, txs, prefs, day5)

	var reminder *Notification
	for i := range got {
		if got[i].ID == "reminder-loan-1-5" {
			reminder = &got[i]
		}
	}
	if reminder == nil {
		t.Fatal("no reminder on the reminder day")
	}
	if reminder.LoanID != "loan-1" || reminder.Type != NotifyWarning {
		t.Errorf("reminder = %+v", reminder)
	}
	if !strings.Contains(reminder.Message, "Car Loan") {
		t.Errorf("message %q does not name the loan", reminder.Message)
	}

	day6 := day5.AddDate(0, 0, 1)
	for _, n := range EvaluateNotifications(loans, accounts, budgets, txs, prefs, day6) {
		if strings.HasPrefix(n.ID, "reminder-") {
			t.Errorf("reminder %s leaked past the reminder day", n.ID)
		}
	}
}

func TestEMIReminderRefiresOnRecomputation(t *testing.T) {
	loans, accounts, budgets, txs := notifyFixtures()
	prefs := DefaultPreferences()
	day5 := time.Date(2026, time.September, 5, 9, 0, 0, 0, time.UTC)

	first := EvaluateNotifications(loans, accounts, budgets, txs, prefs, day5)
	second := EvaluateNotifications(loans, accounts, budgets, txs, prefs, day5.Add(4*time.Hour))

	var a, b string
	for _, n := range first {
		if strings.HasPrefix(n.ID, "reminder-") {
			a = n.ID
		}
	}
	for _, n := range second {
		if strings.HasPrefix(n.ID, "reminder-") {
			b = n.ID
		}
	}
	if a == "" || a != b {
		t.Errorf("recomputation ids %q vs %q; want the same stable id", a, b)
	}
}

func TestLowBalanceAlert(t *testing.T) {
	loans, accounts, budgets, txs := notifyFixtures()
	prefs := DefaultPreferences()
	now := time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)

	got := EvaluateNotifications(loans, accounts, budgets, txs, prefs, now)

	var alert *Notification
	for i := range got {
		if got[i].ID == "low-balance-acc-1" {
			alert = &got[i]
		}
	}
	if alert == nil {
		t.Fatal("no alert for the account under threshold")
	}
	if !strings.Contains(alert.Message, "Salary") {
		t.Errorf("message %q should use the nickname", alert.Message)
	}
	for _, n := range got {
		if n.ID == "low-balance-acc-2" {
			t.Error("healthy account flagged low")
		}
	}
}

func TestBudgetWarnings(t *testing.T) {
	now := time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)
	prefs := DefaultPreferences()
	budget := Budget{ID: "b1", Category: Personal, SubCategory: "Groceries", Limit: decimal.NewFromInt(8000)}

	tests := []struct {
		name      string
		spent     int64
		wantTitle string
	}{
		{"under 90 percent is quiet", 7000, ""},
		{"over 90 percent approaches", 7500, "Approaching Budget Limit"},
		{"over limit warns", 9000, "Over Budget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := []Transaction{expense(tt.spent, Personal, "Groceries", "2026-08-03")}
			got := EvaluateNotifications(nil, nil, []Budget{budget}, txs, prefs, now)
			var title string
			for _, n := range got {
				if n.ID == "budget-b1" {
					title = n.Title
				}
			}
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
		})
	}
}

func TestPreferenceFlagsGateEachFamily(t *testing.T) {
	loans, accounts, budgets, txs := notifyFixtures()
	day5 := time.Date(2026, time.August, 5, 9, 0, 0, 0, time.UTC)

	prefs := NotificationPreferences{LowBalanceThreshold: decimal.NewFromInt(1000)}
	if got := EvaluateNotifications(loans, accounts, budgets, txs, prefs, day5); len(got) != 0 {
		t.Errorf("all flags off still produced %d notifications", len(got))
	}

	prefs.EMIReminders = true
	got := EvaluateNotifications(loans, accounts, budgets, txs, prefs, day5)
	if len(got) != 1 || !strings.HasPrefix(got[0].ID, "reminder-") {
		t.Errorf("EMI-only prefs produced %+v", got)
	}
}

func TestDisabledLoanReminderStaysQuiet(t *testing.T) {
	loans, accounts, budgets, txs := notifyFixtures()
	loans[0].RemindersEnabled = false
	prefs := DefaultPreferences()
	day5 := time.Date(2026, time.August, 5, 9, 0, 0, 0, time.UTC)

	for _, n := range EvaluateNotifications(loans, accounts, budgets, txs, prefs, day5) {
		if strings.HasPrefix(n.ID, "reminder-") {
			t.Errorf("disabled loan fired %s", n.ID)
		}
	}
}
