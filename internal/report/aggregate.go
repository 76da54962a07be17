// Package report derives the summary statistics consumed by exports and the
// terminal report: per-label rollups, county aggregation joined with
// demographics, and city-month deobligation series.
package report

import (
	"sort"
	"time"

	"github.com/grantwatch/grantcuts/internal/model"
)

// LabelSummary aggregates classified awards under one label.
type LabelSummary struct {
	Label          model.Label
	Awards         int
	DeobligatedUSD float64
	AvgConfidence  float64
}

// SummarizeByLabel rolls classifications up per label, in label priority
// order. Labels with no awards are omitted.
func SummarizeByLabel(classifications []model.Classification) []LabelSummary {
	byLabel := make(map[model.Label]*LabelSummary)

	for _, c := range classifications {
		summary, ok := byLabel[c.Label]
		if !ok {
			summary = &LabelSummary{Label: c.Label}
			byLabel[c.Label] = summary
		}
		summary.Awards++
		summary.DeobligatedUSD += -c.TotalDeobligationNeg
		summary.AvgConfidence += c.Confidence
	}

	var summaries []LabelSummary
	for _, label := range model.AllLabels {
		if summary, ok := byLabel[label]; ok {
			summary.AvgConfidence /= float64(summary.Awards)
			summaries = append(summaries, *summary)
		}
	}

	return summaries
}

// CountyRollup aggregates deobligations for one county, joined with its
// ACS demographics when available.
type CountyRollup struct {
	FIPS             string
	County           string
	DeobligatedUSD   float64
	AwardsWithAnyCut int
	Population       float64
	PerCapitaUSD     float64
	CutsPer10K       float64
	PctMinority      float64
	PctBlack         float64
	PctHispanic      float64
	PctAsian         float64
}

// RollupByCounty sums deobligated dollars and counts distinct cut awards per
// recipient county, then joins county demographics by normalized name.
// Counties missing from the lookup still appear, without per-capita rates.
func RollupByCounty(deobligations []model.Transaction, counties []model.CountyDemographics) []CountyRollup {
	lookup := make(map[string]model.CountyDemographics, len(counties))
	for _, county := range counties {
		lookup[county.Name] = county
	}

	type accumulator struct {
		dollars float64
		awards  map[string]bool
	}
	byCounty := make(map[string]*accumulator)

	for _, txn := range deobligations {
		if txn.Amount >= 0 || txn.RecipientCounty == "" {
			continue
		}
		acc, ok := byCounty[txn.RecipientCounty]
		if !ok {
			acc = &accumulator{awards: make(map[string]bool)}
			byCounty[txn.RecipientCounty] = acc
		}
		acc.dollars += -txn.Amount
		acc.awards[txn.AwardID] = true
	}

	rollups := make([]CountyRollup, 0, len(byCounty))
	for name, acc := range byCounty {
		rollup := CountyRollup{
			County:           name,
			DeobligatedUSD:   acc.dollars,
			AwardsWithAnyCut: len(acc.awards),
		}

		if county, ok := lookup[name]; ok {
			rollup.FIPS = county.FIPS
			rollup.Population = county.Population
			rollup.PctMinority = county.PctMinority
			rollup.PctBlack = county.PctBlack
			rollup.PctHispanic = county.PctHispanic
			rollup.PctAsian = county.PctAsian
			if county.Population > 0 {
				rollup.PerCapitaUSD = acc.dollars / county.Population
				rollup.CutsPer10K = float64(len(acc.awards)) / county.Population * 10000
			}
		}

		rollups = append(rollups, rollup)
	}

	sort.Slice(rollups, func(i, j int) bool {
		return rollups[i].County < rollups[j].County
	})

	return rollups
}

// CityMonth aggregates deobligated dollars for one city and month.
type CityMonth struct {
	Month          time.Time
	City           string
	State          string
	DeobligatedUSD float64
	EraFlag        bool
}

// RollupByCityMonth buckets deobligations by recipient city and calendar
// month for the animated map export. The era flag is per transaction date,
// so a city can appear in both eras within one month boundary.
func RollupByCityMonth(deobligations []model.Transaction, cutoff time.Time) []CityMonth {
	type key struct {
		month time.Time
		city  string
		state string
		era   bool
	}
	byKey := make(map[key]float64)

	for _, txn := range deobligations {
		if txn.Amount >= 0 || txn.RecipientCity == "" {
			continue
		}
		k := key{
			month: time.Date(txn.Date.Year(), txn.Date.Month(), 1, 0, 0, 0, 0, time.UTC),
			city:  txn.RecipientCity,
			state: txn.RecipientState,
			era:   !txn.Date.Before(cutoff),
		}
		byKey[k] += -txn.Amount
	}

	rollups := make([]CityMonth, 0, len(byKey))
	for k, dollars := range byKey {
		rollups = append(rollups, CityMonth{
			Month:          k.month,
			City:           k.city,
			State:          k.state,
			DeobligatedUSD: dollars,
			EraFlag:        k.era,
		})
	}

	sort.Slice(rollups, func(i, j int) bool {
		if !rollups[i].Month.Equal(rollups[j].Month) {
			return rollups[i].Month.Before(rollups[j].Month)
		}
		if rollups[i].City != rollups[j].City {
			return rollups[i].City < rollups[j].City
		}
		return rollups[i].State < rollups[j].State
	})

	return rollups
}

// FilterEra keeps only transactions dated on or after the cutoff.
func FilterEra(transactions []model.Transaction, cutoff time.Time) []model.Transaction {
	var filtered []model.Transaction
	for _, txn := range transactions {
		if !txn.Date.Before(cutoff) {
			filtered = append(filtered, txn)
		}
	}
	return filtered
}
