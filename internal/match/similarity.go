// Package match flags probable duplicate billing documents. Two
// detection policies coexist: the general matcher (FindDuplicates, 70%
// name similarity + 10% amount tolerance on raw line totals) and the
// stricter import matcher (FindPotentialDuplicates, tiered 1%/5%
// tolerances on computed totals). Their thresholds and total
// calculations differ and they are not interchangeable.
package match

import (
	"strings"

	"github.com/shopspring/decimal"

	"facturio/internal/domain"
	"facturio/internal/money"
)

var (
	tenPercent  = decimal.NewFromFloat(0.10)
	onePercent  = decimal.NewFromFloat(0.01)
	fivePercent = decimal.NewFromFloat(0.05)
)

// nameSimilarityThreshold is the minimum client-name similarity for the
// general matcher; strictly greater-than applies.
const nameSimilarityThreshold = 0.70

// Pair links a candidate document to an existing one it likely
// duplicates.
type Pair struct {
	Source    *domain.Document `json:"source"`
	SimilarTo *domain.Document `json:"similarTo"`
}

// StringSimilarity scores two strings in [0, 1] using Levenshtein edit
// distance over the lowercased, whitespace-trimmed inputs. Two empty
// strings are identical (1); exactly one empty scores 0.
func StringSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	ca := strings.ToLower(strings.TrimSpace(a))
	cb := strings.ToLower(strings.TrimSpace(b))
	if ca == cb {
		return 1
	}

	ra, rb := []rune(ca), []rune(cb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// levenshtein computes the classic DP edit distance with unit costs
// for insertion, deletion, and substitution.
func levenshtein(a, b []rune) int {
	m, n := len(a), len(b)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

func minInt(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// amountsClose reports whether two amounts differ by at most 10%
// relative to the larger one. Both zero counts as close; exactly one
// zero does not.
func amountsClose(a, b decimal.Decimal) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	if a.IsZero() || b.IsZero() {
		return false
	}
	diff := a.Sub(b).Abs()
	max := decimal.Max(a, b)
	return diff.LessThanOrEqual(max.Mul(tenPercent))
}

// FindDuplicates returns the pairs of (source, existing) documents that
// look like duplicates: client names over 70% similar with raw line
// totals within 10%, or an identical document number. The source
// itself is never compared against its own identifier.
func FindDuplicates(source *domain.Document, existing []domain.Document) []Pair {
	var pairs []Pair

	sourceTotal := money.Subtotal(source.Items)

	for i := range existing {
		candidate := &existing[i]
		if candidate.ID == source.ID {
			continue
		}

		nameSim := StringSimilarity(source.Client.Name, candidate.Client.Name)
		totalsClose := amountsClose(sourceTotal, money.Subtotal(candidate.Items))
		sameNumber := source.DocumentNumber == candidate.DocumentNumber

		if (nameSim > nameSimilarityThreshold && totalsClose) || sameNumber {
			pairs = append(pairs, Pair{Source: source, SimilarTo: candidate})
		}
	}
	return pairs
}

// FindPotentialDuplicates is the import-specific matcher. It flags an
// existing document when it has the same (number, type); or the same
// client name with totals differing by under 1% of the candidate's
// total; or the same issue date with totals differing by under 5%.
// Totals here are tax-aware; discount and advance payment are
// excluded.
func FindPotentialDuplicates(doc *domain.Document, existing []domain.Document) []domain.Document {
	var matches []domain.Document

	docTotal := money.Total(doc.Items, doc.TaxRate, nil, nil)

	for i := range existing {
		candidate := &existing[i]
		if candidate.ID == doc.ID {
			continue
		}

		switch {
		case candidate.DocumentNumber == doc.DocumentNumber && candidate.DocumentType == doc.DocumentType:
			matches = append(matches, *candidate)
		case candidate.Client.Name == doc.Client.Name:
			existingTotal := money.Total(candidate.Items, candidate.TaxRate, nil, nil)
			if existingTotal.Sub(docTotal).Abs().LessThan(docTotal.Mul(onePercent)) {
				matches = append(matches, *candidate)
			}
		case candidate.IssueDate == doc.IssueDate:
			existingTotal := money.Total(candidate.Items, candidate.TaxRate, nil, nil)
			if existingTotal.Sub(docTotal).Abs().LessThan(docTotal.Mul(fivePercent)) {
				matches = append(matches, *candidate)
			}
		}
	}
	return matches
}
