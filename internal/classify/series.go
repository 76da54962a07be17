package classify

import (
	"fmt"
	"sort"

	"github.com/grantwatch/grantcuts/internal/common"
	"github.com/grantwatch/grantcuts/internal/model"
)

// BuildSeries orders one award's transactions by action date and derives the
// totals the evaluator scores against. The sort is stable: transactions
// sharing a date keep their original relative order, which makes the first
// negative date deterministic.
func BuildSeries(transactions []model.Transaction) (*model.AwardSeries, error) {
	if len(transactions) == 0 {
		return nil, common.ErrEmptySeries
	}

	awardID := transactions[0].AwardID
	for _, txn := range transactions {
		if txn.AwardID != awardID {
			return nil, fmt.Errorf("mixed award identifiers in series: %q and %q", awardID, txn.AwardID)
		}
	}

	ordered := make([]model.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	series := &model.AwardSeries{
		AwardID:         awardID,
		Transactions:    ordered,
		FirstActionDate: ordered[0].Date,
		LastActionDate:  ordered[len(ordered)-1].Date,
	}

	var lastOutlay, maxOutlay float64
	var sawOutlay bool

	for _, txn := range ordered {
		switch {
		case txn.Amount > 0:
			series.TotalObligationPos += txn.Amount
		case txn.Amount < 0:
			series.TotalDeobligationNeg += txn.Amount
			if series.FirstNegativeDate == nil {
				date := txn.Date
				series.FirstNegativeDate = &date
			}
		}
		series.FinalBalance += txn.Amount

		if txn.Outlay != nil {
			sawOutlay = true
			lastOutlay = *txn.Outlay
			if *txn.Outlay > maxOutlay {
				maxOutlay = *txn.Outlay
			}
		}
	}

	// Outlay is cumulative, so the latest snapshot is the total. Disordered
	// feeds occasionally report a stale final value; fall back to the
	// maximum in that case.
	if sawOutlay {
		series.TotalOutlayed = lastOutlay
		if maxOutlay > lastOutlay {
			series.TotalOutlayed = maxOutlay
		}
	}

	return series, nil
}
