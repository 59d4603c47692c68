package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
	NotifySuccess NotificationType = "success"
)

// Notification is a transient alert. Notifications are never persisted;
// the full list is recomputed from the current store state, so entries
// whose trigger condition has passed simply stop appearing.
type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	LoanID  string           `json:"loanId,omitempty"`
}

// EvaluateNotifications derives the alert list for "now" from the given
// state and preferences. Each rule family is gated by its preference flag.
func EvaluateNotifications(loans []Loan, accounts []BankAccount, budgets []Budget, txs []Transaction, prefs NotificationPreferences, now time.Time) []Notification {
	var out []Notification

	if prefs.EMIReminders {
		today := now.Day()
		for _, loan := range loans {
			if !loan.RemindersEnabled || loan.ReminderDay != today {
				continue
			}
			emi := decimal.NewFromFloat(LoanEMI(loan))
			out = append(out, Notification{
				// Keyed by loan and day-of-month: fires once per due day,
				// stable across recomputations within the same day.
				ID:      fmt.Sprintf("reminder-%s-%d", loan.ID, today),
				Title:   "Payment Due Today",
				Message: fmt.Sprintf("Your EMI of %s for %q is due today.", FormatCurrency(emi), loan.Name),
				Type:    NotifyWarning,
				LoanID:  loan.ID,
			})
		}
	}

	if prefs.LowBalanceAlerts {
		for _, acc := range accounts {
			if acc.Balance.LessThan(prefs.LowBalanceThreshold) {
				name := acc.Nickname
				if name == "" {
					name = acc.Name
				}
				out = append(out, Notification{
					ID:      fmt.Sprintf("low-balance-%s", acc.ID),
					Title:   "Low Balance",
					Message: fmt.Sprintf("%s is down to %s.", name, FormatCurrency(acc.Balance)),
					Type:    NotifyWarning,
				})
			}
		}
	}

	if prefs.BudgetWarnings {
		threshold := decimal.NewFromFloat(0.9)
		for _, b := range budgets {
			if !b.Limit.IsPositive() {
				continue
			}
			spent := monthlySpend(b, txs, now)
			if !spent.GreaterThan(b.Limit.Mul(threshold)) {
				continue
			}
			n := Notification{
				ID: fmt.Sprintf("budget-%s", b.ID),
			}
			if spent.GreaterThan(b.Limit) {
				n.Title = "Over Budget"
				n.Message = fmt.Sprintf("You have spent %s of your %s %s budget.",
					FormatCurrency(spent), FormatCurrency(b.Limit), b.SubCategory)
				n.Type = NotifyWarning
			} else {
				n.Title = "Approaching Budget Limit"
				n.Message = fmt.Sprintf("You have used %s of your %s %s budget.",
					FormatCurrency(spent), FormatCurrency(b.Limit), b.SubCategory)
				n.Type = NotifyInfo
			}
			out = append(out, n)
		}
	}

	return out
}
