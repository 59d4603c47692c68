// Package insights turns a condensed view of the ledger into actionable
// advisory items via the Gemini API.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// Insight is one advisory item.
type Insight struct {
	Category    string `json:"category"` // savings, investment, business, alert
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"` // high, medium, low
}

// summary is the condensed prompt payload. Only what the model needs:
// recent flows, balances, and obligations.
type summary struct {
	Balance     decimal.Decimal    `json:"balance"`
	Expenses    []core.Transaction `json:"expenses"`
	Income      []core.Transaction `json:"income"`
	Loans       []loanLine         `json:"loans"`
	Investments []holdingLine      `json:"investments"`
}

type loanLine struct {
	Name        string          `json:"name"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type holdingLine struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Advisor generates insights from ledger snapshots.
type Advisor struct {
	client *genai.Client
	model  string
	logger *log.Logger
}

// NewAdvisor builds a Gemini-backed advisor. The model name is the bare
// id, e.g. "gemini-2.5-flash".
func NewAdvisor(ctx context.Context, apiKey, model string, logger *log.Logger) (*Advisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Advisor{
		client: client,
		model:  model,
		logger: logger.WithComponent(log.ComponentInsights),
	}, nil
}

// Close releases the underlying API connection.
func (a *Advisor) Close() error {
	return a.client.Close()
}

// fallback is returned whenever generation fails, so the caller always
// has something to show.
func fallback() []Insight {
	return []Insight{{
		Category:    "alert",
		Title:       "Analysis Unavailable",
		Description: "We couldn't connect to the AI advisor. Check your connection.",
		Impact:      "low",
	}}
}

// BuildSummary condenses a snapshot: total liquid balance, the last 20
// expenses, the last 10 incomes, loan outstandings, and holding values.
func BuildSummary(s ledger.Store) summary {
	balance := decimal.Zero
	for _, a := range s.Accounts {
		balance = balance.Add(a.Balance)
	}
	for _, w := range s.Wallets {
		balance = balance.Add(w.Balance)
	}

	var expenses, income []core.Transaction
	for _, t := range s.Transactions {
		switch t.Type {
		case core.Expense:
			expenses = append(expenses, t)
		case core.Income:
			income = append(income, t)
		}
	}
	if len(expenses) > 20 {
		expenses = expenses[len(expenses)-20:]
	}
	if len(income) > 10 {
		income = income[len(income)-10:]
	}

	loans := make([]loanLine, 0, len(s.Loans))
	for _, l := range s.Loans {
		loans = append(loans, loanLine{Name: l.Name, Outstanding: l.Outstanding()})
	}
	holdings := make([]holdingLine, 0, len(s.Investments))
	for _, inv := range s.Investments {
		holdings = append(holdings, holdingLine{Name: inv.Name, Value: inv.Value()})
	}

	return summary{
		Balance:     balance,
		Expenses:    expenses,
		Income:      income,
		Loans:       loans,
		Investments: holdings,
	}
}

func buildPrompt(sum summary) (string, error) {
	data, err := json.Marshal(sum)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	return fmt.Sprintf(`Analyze this user's financial data and provide 3-4 actionable insights.
Data: %s

Focus on:
1. Business cash flow optimization (if business data present).
2. Savings opportunities.
3. Investment diversification.
4. Debt management alerts.

Return the response as a JSON array of objects with keys: category (savings, investment, business, alert), title, description, and impact (high, medium, low).`, data), nil
}

// Generate asks the model for insights over the snapshot. Any failure,
// from transport to malformed output, degrades to the fallback advisory.
func (a *Advisor) Generate(ctx context.Context, s ledger.Store) []Insight {
	prompt, err := buildPrompt(BuildSummary(s))
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to build prompt", log.FieldError, err)
		return fallback()
	}

	model := a.client.GenerativeModel(a.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		a.logger.ErrorContext(ctx, "generation failed", log.FieldError, err)
		return fallback()
	}

	insights, err := parseResponse(resp)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to parse model output", log.FieldError, err)
		return fallback()
	}
	return insights
}

func parseResponse(resp *genai.GenerateContentResponse) ([]Insight, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response")
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return ParseInsights(text.String())
}

// ParseInsights decodes the model's JSON array, stripping markdown code
// fences the model sometimes wraps its output in.
func ParseInsights(text string) ([]Insight, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out []Insight
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	return out, nil
}
