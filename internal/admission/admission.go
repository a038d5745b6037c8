package admission

import (
	"math"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/lifecycle"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/rates"
	"auction-marketplace/utils"

	"github.com/shopspring/decimal"
)

// Input describes a candidate bid to be validated before submission.
// Amount is in Currency, which may differ from the product's native
// currency; HighestBid is zero-valued when HasBids is false.
type Input struct {
	Amount     float64
	Currency   string
	Product    models.Product
	Balance    float64
	HighestBid float64
	HasBids    bool
	Now        time.Time
}

// Check validates a candidate bid and returns the amount in the product's
// native currency, or a rejection sentinel from auctionerrors:
// ErrInvalidAmount, ErrAuctionNotStarted, ErrAuctionEnded, ErrAlreadySoldOut,
// ErrNotVerified, ErrBelowMinimum or ErrInsufficientBalance.
//
// ErrInvalidAmount is checked before any monetary comparison so NaN never
// reaches a numeric check. When no rate table is loaded and the currencies
// differ, the raw amount is used unconverted and a warning is logged; the
// check never blocks on a missing table.
func Check(in Input, table *rates.Table) (float64, error) {
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return 0, auctionerrors.ErrInvalidAmount
	}

	if in.Product.IsSoldout {
		return 0, auctionerrors.ErrAlreadySoldOut
	}
	if !in.Product.IsVerified {
		return 0, auctionerrors.ErrNotVerified
	}

	switch lifecycle.Evaluate(in.Now, in.Product.StartDate, in.Product.EndDate, in.Product.IsSoldout).Phase {
	case lifecycle.PhaseUpcoming:
		return 0, auctionerrors.ErrAuctionNotStarted
	case lifecycle.PhaseEnded:
		return 0, auctionerrors.ErrAuctionEnded
	}

	amount := nativeAmount(in, table)
	candidate := decimal.NewFromFloat(amount)

	if candidate.LessThan(minimumBid(in)) {
		return 0, auctionerrors.ErrBelowMinimum
	}
	if candidate.GreaterThan(decimal.NewFromFloat(in.Balance)) {
		return 0, auctionerrors.ErrInsufficientBalance
	}

	return amount, nil
}

// minimumBid is max(highest bid, starting price); when an increment is set
// and bids exist, the floor is raised to highest + increment
func minimumBid(in Input) decimal.Decimal {
	min := decimal.NewFromFloat(in.Product.StartingPrice)

	if in.HasBids {
		highest := decimal.NewFromFloat(in.HighestBid)
		if in.Product.BidIncrement > 0 {
			highest = highest.Add(decimal.NewFromFloat(in.Product.BidIncrement))
		}
		if highest.GreaterThan(min) {
			min = highest
		}
	}

	return min
}

func nativeAmount(in Input, table *rates.Table) float64 {
	if in.Currency == "" || in.Currency == in.Product.Currency {
		return in.Amount
	}
	if table == nil {
		utils.Warn("admission: no rate table loaded, using raw bid amount", map[string]any{
			"product_id":       in.Product.ProductID,
			"bid_currency":     in.Currency,
			"product_currency": in.Product.Currency,
		})
		return in.Amount
	}
	// The converted amount is what gets recorded as the bid, so it is
	// rounded to cents here rather than inside Convert.
	converted := decimal.NewFromFloat(table.Convert(in.Amount, in.Currency, in.Product.Currency))
	out, _ := converted.Round(2).Float64()
	return out
}
