// Package money computes billing document totals. All functions are
// pure and total: nil or missing inputs contribute zero, never an
// error. Amounts stay in decimal form end to end; rounding happens
// only when a value is formatted for output.
package money

import (
	"github.com/shopspring/decimal"

	"facturio/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// Subtotal returns the sum of quantity x unit price over all items.
// An empty or nil list yields zero.
func Subtotal(items []domain.Item) decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(items[i].Quantity.Mul(items[i].UnitPrice))
	}
	return sum
}

// DiscountAmount returns the document-level discount in currency units.
// The discount is a percentage of the subtotal; nil or non-positive
// percentages yield zero.
func DiscountAmount(items []domain.Item, discountPct *decimal.Decimal) decimal.Decimal {
	if discountPct == nil || !discountPct.IsPositive() {
		return decimal.Zero
	}
	return Subtotal(items).Mul(discountPct.Div(oneHundred))
}

// TaxAmount returns the tax owed on the post-discount base. Tax is
// never computed on the pre-discount subtotal. A non-positive rate
// yields zero.
func TaxAmount(items []domain.Item, taxRate decimal.Decimal, discountPct *decimal.Decimal) decimal.Decimal {
	if !taxRate.IsPositive() {
		return decimal.Zero
	}
	base := Subtotal(items).Sub(DiscountAmount(items, discountPct))
	return base.Mul(taxRate.Div(oneHundred))
}

// AdvanceDeduction returns the advance payment to subtract from the
// final total. The amount is a fixed sum, not a percentage; it passes
// through unchanged when positive and is zero otherwise.
func AdvanceDeduction(advance *decimal.Decimal) decimal.Decimal {
	if advance == nil || !advance.IsPositive() {
		return decimal.Zero
	}
	return *advance
}

// TotalBeforeTax returns the subtotal after discount, before tax.
func TotalBeforeTax(items []domain.Item, discountPct *decimal.Decimal) decimal.Decimal {
	return Subtotal(items).Sub(DiscountAmount(items, discountPct))
}

// Total returns the grand total: subtotal minus discount, plus tax on
// the discounted base, minus the advance payment. The advance payment
// reduces the tax-inclusive total, never the taxable base.
func Total(items []domain.Item, taxRate decimal.Decimal, discountPct, advance *decimal.Decimal) decimal.Decimal {
	subtotal := Subtotal(items)
	discount := DiscountAmount(items, discountPct)
	tax := TaxAmount(items, taxRate, discountPct)
	return subtotal.Sub(discount).Add(tax).Sub(AdvanceDeduction(advance))
}

// DocumentTotal returns the effective total of a document: the stored
// TotalAmount override when present (imported and legacy records),
// otherwise the computed total.
func DocumentTotal(doc *domain.Document) decimal.Decimal {
	if doc.TotalAmount != nil {
		return *doc.TotalAmount
	}
	return Total(doc.Items, doc.TaxRate, doc.Discount, doc.AdvancePayment)
}
