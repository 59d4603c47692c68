package core

import (
	"encoding/json"
	"math"
)

// PayoffProjection describes how long a balance takes to amortize at a
// fixed monthly payment. Months and TotalInterest are +Inf when the
// payment does not cover the monthly interest.
type PayoffProjection struct {
	Months        float64
	TotalInterest float64
}

// NeverAmortizes reports whether the payment can never retire the balance.
func (p PayoffProjection) NeverAmortizes() bool {
	return math.IsInf(p.Months, 1)
}

// MarshalJSON encodes the infinite case as nulls with an explicit flag,
// since JSON has no representation for +Inf.
func (p PayoffProjection) MarshalJSON() ([]byte, error) {
	type wire struct {
		Months         *float64 `json:"months"`
		TotalInterest  *float64 `json:"totalInterest"`
		NeverAmortizes bool     `json:"neverAmortizes"`
	}
	out := wire{NeverAmortizes: p.NeverAmortizes()}
	if !out.NeverAmortizes {
		out.Months = &p.Months
		out.TotalInterest = &p.TotalInterest
	}
	return json.Marshal(out)
}

// CalculateEMI returns the equal monthly installment for a loan.
// EMI = P·r·(1+r)^n / ((1+r)^n − 1) with r the monthly rate; a
// zero-interest loan is simply principal spread over the tenure.
func CalculateEMI(principal, annualRatePercent float64, tenureMonths int) float64 {
	if tenureMonths <= 0 {
		return 0
	}
	if annualRatePercent == 0 {
		return principal / float64(tenureMonths)
	}
	r := annualRatePercent / 12 / 100
	pow := math.Pow(1+r, float64(tenureMonths))
	return principal * r * pow / (pow - 1)
}

// CalculatePayoffProjection computes months remaining and total interest
// for paying monthlyPayment against outstanding at the given annual rate.
// The displayed month count is rounded up; interest uses the exact count.
func CalculatePayoffProjection(outstanding, annualRatePercent, monthlyPayment float64) PayoffProjection {
	if outstanding <= 0 {
		return PayoffProjection{}
	}
	if monthlyPayment <= 0 {
		return PayoffProjection{Months: math.Inf(1), TotalInterest: math.Inf(1)}
	}
	if annualRatePercent == 0 {
		return PayoffProjection{Months: math.Ceil(outstanding / monthlyPayment)}
	}

	r := annualRatePercent / 12 / 100

	// n = -ln(1 - P·r/E) / ln(1+r); inner <= 0 means the payment never
	// covers the interest accrued each month.
	inner := 1 - outstanding*r/monthlyPayment
	if inner <= 0 {
		return PayoffProjection{Months: math.Inf(1), TotalInterest: math.Inf(1)}
	}
	exact := -math.Log(inner) / math.Log(1+r)
	// Snap near-integer counts before rounding up, so a payment equal to
	// the scheduled EMI projects exactly the remaining tenure instead of
	// one month long on floating-point noise.
	if near := math.Round(exact); math.Abs(exact-near) < 1e-6 {
		exact = near
	}
	return PayoffProjection{
		Months:        math.Ceil(exact),
		TotalInterest: math.Max(0, monthlyPayment*exact-outstanding),
	}
}

// LoanEMI is CalculateEMI over a stored loan's terms.
func LoanEMI(l Loan) float64 {
	principal, _ := l.Principal.Float64()
	return CalculateEMI(principal, l.InterestRate, l.Tenure)
}

// LoanProjection projects the remaining payoff of a stored loan at its
// scheduled EMI.
func LoanProjection(l Loan) PayoffProjection {
	outstanding, _ := l.Outstanding().Float64()
	return CalculatePayoffProjection(outstanding, l.InterestRate, LoanEMI(l))
}
