package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func fractionOf(t *testing.T, shares []AuthorShare, id uuid.UUID) decimal.Decimal {
	t.Helper()
	for _, s := range shares {
		if s.AuthorID == id {
			return s.Fraction
		}
	}
	t.Fatalf("author %s not found in shares", id)
	return decimal.Zero
}

func TestNormalizeShares_EqualSplitWhenUnspecified(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	shares := NormalizeShares([]ShareInput{
		{AuthorID: a}, {AuthorID: b}, {AuthorID: c},
	})
	require.Len(t, shares, 3)

	for _, s := range shares {
		assert.InDelta(t, 1.0/3.0, s.Fraction.InexactFloat64(), 1e-9)
	}
}

func TestNormalizeShares_ExplicitShares(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	shares := NormalizeShares([]ShareInput{
		{AuthorID: a, SharePercent: pct(70)},
		{AuthorID: b, SharePercent: pct(30)},
	})
	require.Len(t, shares, 2)

	assert.True(t, fractionOf(t, shares, a).Equal(decimal.NewFromFloat(0.7)))
	assert.True(t, fractionOf(t, shares, b).Equal(decimal.NewFromFloat(0.3)))
}

func TestNormalizeShares_MixedExplicitAndUnspecified(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// One author takes 50%; the other two split the remainder equally.
	shares := NormalizeShares([]ShareInput{
		{AuthorID: a, SharePercent: pct(50)},
		{AuthorID: b},
		{AuthorID: c},
	})
	require.Len(t, shares, 3)

	assert.True(t, fractionOf(t, shares, a).Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, fractionOf(t, shares, b).Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, fractionOf(t, shares, c).Equal(decimal.NewFromFloat(0.25)))
}

func TestNormalizeShares_OverAllocatedClampsRemainder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// Explicit shares already exceed 100: the unspecified author gets zero.
	shares := NormalizeShares([]ShareInput{
		{AuthorID: a, SharePercent: pct(80)},
		{AuthorID: b, SharePercent: pct(40)},
		{AuthorID: c},
	})
	require.Len(t, shares, 3)

	assert.True(t, fractionOf(t, shares, c).IsZero())
	assert.True(t, fractionOf(t, shares, a).Equal(decimal.NewFromFloat(0.8)))
}

func TestNormalizeShares_SingleAuthor(t *testing.T) {
	a := uuid.New()

	shares := NormalizeShares([]ShareInput{{AuthorID: a}})
	require.Len(t, shares, 1)
	assert.True(t, shares[0].Fraction.Equal(decimal.NewFromInt(1)))
}

func TestNormalizeShares_Empty(t *testing.T) {
	assert.Nil(t, NormalizeShares(nil))
	assert.Nil(t, NormalizeShares([]ShareInput{}))
}

func sumOf(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

func TestDistributePaise_ThreeWaySplitSumsExactly(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	shares := NormalizeShares([]ShareInput{
		{AuthorID: a}, {AuthorID: b}, {AuthorID: c},
	})

	// 100.00 three ways cannot be 33.33 each; the extra paisa lands on
	// exactly one line and the total still matches the pool.
	amounts := DistributePaise(decimal.NewFromInt(100), shares)
	require.Len(t, amounts, 3)

	assert.True(t, sumOf(amounts).Equal(decimal.NewFromInt(100)),
		"parts %v should sum to 100.00", amounts)
	for _, amount := range amounts {
		diff := amount.Sub(decimal.NewFromFloat(33.33)).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
			"part %s should be within one paisa of an equal split", amount)
	}
}

func TestDistributePaise_CustomSharesExact(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	shares := NormalizeShares([]ShareInput{
		{AuthorID: a, SharePercent: pct(70)},
		{AuthorID: b, SharePercent: pct(30)},
	})

	amounts := DistributePaise(decimal.NewFromFloat(999.99), shares)
	require.Len(t, amounts, 2)

	assert.True(t, sumOf(amounts).Equal(decimal.NewFromFloat(999.99)))
	assert.True(t, amounts[0].Equal(decimal.NewFromFloat(699.99)), "got %s", amounts[0])
	assert.True(t, amounts[1].Equal(decimal.NewFromFloat(300.00)), "got %s", amounts[1])
}

func TestDistributePaise_SevenWayResidue(t *testing.T) {
	inputs := make([]ShareInput, 7)
	for i := range inputs {
		inputs[i] = ShareInput{AuthorID: uuid.New()}
	}
	shares := NormalizeShares(inputs)

	amounts := DistributePaise(decimal.NewFromFloat(10.00), shares)
	require.Len(t, amounts, 7)
	assert.True(t, sumOf(amounts).Equal(decimal.NewFromFloat(10.00)),
		"parts %v should sum to 10.00", amounts)
}

func TestDistributePaise_SingleAuthorTakesAll(t *testing.T) {
	shares := NormalizeShares([]ShareInput{{AuthorID: uuid.New()}})

	amounts := DistributePaise(decimal.NewFromFloat(75.50), shares)
	require.Len(t, amounts, 1)
	assert.True(t, amounts[0].Equal(decimal.NewFromFloat(75.50)))
}
