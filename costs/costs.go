/*
Package costs computes projected-vs-paid cost breakdowns per project.

PURPOSE:
  Rolls up a project's cost figures into remaining balance, percentage
  paid, and a per-rubro percentage-of-paid breakdown. Rubros A/B/C are
  the cost category buckets used in Argentine construction tax/fee
  accounting.

ARITHMETIC POLICY:
  - All amounts are decimal.Decimal; missing inputs are zero values.
  - Percentages round half away from zero to the nearest integer point.
  - Division by zero is defined away: a non-positive denominator always
    yields 0, never an error, NaN, or Infinity.
  - Overpayment is not clamped: paid 150 of projected 100 reports 150%.
  - Remaining balance floors at zero.
*/
package costs

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Rubro is a cost category bucket.
type Rubro string

const (
	RubroA Rubro = "A"
	RubroB Rubro = "B"
	RubroC Rubro = "C"
)

// CostInput carries a project's cost figures. Zero values stand in for
// absent fields.
type CostInput struct {
	ProjectedTotal decimal.Decimal
	PaidTotal      decimal.Decimal
	PaidRubroA     decimal.Decimal
	PaidRubroB     decimal.Decimal
	PaidRubroC     decimal.Decimal
}

// RubroShare is one rubro's slice of the paid total.
type RubroShare struct {
	Paid       decimal.Decimal
	Percentage int64 // paid-in-rubro / paidTotal, in integer points
}

// TaxSummary is the cost/budget aggregate for one project.
type TaxSummary struct {
	ProjectedTotal decimal.Decimal
	PaidTotal      decimal.Decimal
	RemainingTotal decimal.Decimal
	PercentagePaid int64
	RubroBreakdown map[Rubro]RubroShare
}

// Summarize computes the full cost summary. Total for every input in its
// domain: all-zero input yields an all-zero summary.
func Summarize(in CostInput) TaxSummary {
	remaining := in.ProjectedTotal.Sub(in.PaidTotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return TaxSummary{
		ProjectedTotal: in.ProjectedTotal,
		PaidTotal:      in.PaidTotal,
		RemainingTotal: remaining,
		PercentagePaid: percentageOf(in.PaidTotal, in.ProjectedTotal),
		RubroBreakdown: map[Rubro]RubroShare{
			RubroA: {Paid: in.PaidRubroA, Percentage: percentageOf(in.PaidRubroA, in.PaidTotal)},
			RubroB: {Paid: in.PaidRubroB, Percentage: percentageOf(in.PaidRubroB, in.PaidTotal)},
			RubroC: {Paid: in.PaidRubroC, Percentage: percentageOf(in.PaidRubroC, in.PaidTotal)},
		},
	}
}

// ProjectedVsPaidPercentage returns round(100 * paid / projected), or 0
// when projected is not positive.
func ProjectedVsPaidPercentage(projected, paid decimal.Decimal) int64 {
	return percentageOf(paid, projected)
}

// percentageOf is the shared rounding rule: round half away from zero,
// 0 for a non-positive denominator.
func percentageOf(part, whole decimal.Decimal) int64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).Div(whole).Round(0).IntPart()
}
