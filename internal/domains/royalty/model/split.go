package model

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShareInput is one author's raw share as stored on the book link.
// SharePercent is a percentage (0..100); nil means unspecified.
type ShareInput struct {
	AuthorID     uuid.UUID
	SharePercent *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// NormalizeShares turns raw link shares into (author, fraction) pairs.
//
// Authors with an explicit share keep share/100. Authors without one split
// whatever percentage remains equally among themselves; when the explicit
// shares already reach or exceed 100, the remainder is clamped to zero and
// the unspecified authors earn nothing. A book where nobody has an explicit
// share splits equally.
func NormalizeShares(inputs []ShareInput) []AuthorShare {
	if len(inputs) == 0 {
		return nil
	}

	explicitTotal := decimal.Zero
	unspecified := 0
	for _, in := range inputs {
		if in.SharePercent != nil {
			explicitTotal = explicitTotal.Add(*in.SharePercent)
		} else {
			unspecified++
		}
	}

	var remainderEach decimal.Decimal
	if unspecified > 0 {
		remainder := hundred.Sub(explicitTotal)
		if remainder.IsNegative() {
			remainder = decimal.Zero
		}
		remainderEach = remainder.Div(decimal.NewFromInt(int64(unspecified)))
	}

	shares := make([]AuthorShare, 0, len(inputs))
	for _, in := range inputs {
		percent := remainderEach
		if in.SharePercent != nil {
			percent = *in.SharePercent
		}
		shares = append(shares, AuthorShare{
			AuthorID: in.AuthorID,
			Fraction: percent.Div(hundred),
		})
	}
	return shares
}

// DistributePaise splits total across shares proportionally, rounded to
// paise with largest-remainder allocation. The parts sum exactly to the
// total scaled by the fraction sum, so a fully allocated book never leaves
// a sub-paisa residue in the ledger.
func DistributePaise(total decimal.Decimal, shares []AuthorShare) []decimal.Decimal {
	if len(shares) == 0 {
		return nil
	}

	totalPaise := total.Round(2).Mul(hundred)

	floors := make([]decimal.Decimal, len(shares))
	remainders := make([]decimal.Decimal, len(shares))
	exactTotal := decimal.Zero
	assigned := decimal.Zero
	for i, share := range shares {
		exact := totalPaise.Mul(share.Fraction)
		floors[i] = exact.Floor()
		remainders[i] = exact.Sub(floors[i])
		exactTotal = exactTotal.Add(exact)
		assigned = assigned.Add(floors[i])
	}

	// Hand the flooring losses back one paisa at a time, largest remainder
	// first. Ties keep input order.
	leftover := int(exactTotal.Round(0).Sub(assigned).IntPart())
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for i := 0; i < leftover && i < len(order); i++ {
		floors[order[i]] = floors[order[i]].Add(decimal.NewFromInt(1))
	}

	amounts := make([]decimal.Decimal, len(shares))
	for i := range floors {
		amounts[i] = floors[i].Div(hundred)
	}
	return amounts
}
