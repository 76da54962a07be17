// Package export writes the presentation-layer artifacts: the awards master
// table, the labeled deobligation transaction feed, the county geo
// aggregation, and the city-month rollup, as CSV files or one XLSX workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/report"
)

const dateLayout = "2006-01-02"

// AwardRow is one awards-master row: a classification plus the descriptive
// columns carried on the award's transactions.
type AwardRow struct {
	model.Classification
	RecipientName  string
	CFDANumber     string
	CFDATitle      string
	AwardingAgency string
	FundingAgency  string
}

// BuildAwardRows joins classifications with descriptive columns taken from
// the first transaction of each award.
func BuildAwardRows(classifications []model.Classification, transactionsByAward map[string][]model.Transaction) []AwardRow {
	rows := make([]AwardRow, 0, len(classifications))
	for _, c := range classifications {
		row := AwardRow{Classification: c}
		if txns := transactionsByAward[c.AwardID]; len(txns) > 0 {
			first := txns[0]
			row.RecipientName = first.RecipientName
			row.CFDANumber = first.CFDANumber
			row.CFDATitle = first.CFDATitle
			row.AwardingAgency = first.AwardingAgency
			row.FundingAgency = first.FundingAgency
		}
		rows = append(rows, row)
	}
	return rows
}

var awardsMasterHeader = []string{
	"awardid",
	"recipient_name",
	"cfda_number",
	"cfda_title",
	"awarding_agency_name",
	"funding_agency_name",
	"label",
	"confidence",
	"breakdown_nodeobligation",
	"breakdown_cancellation",
	"breakdown_rescission",
	"breakdown_partial_res_cumpos",
	"breakdown_admin_or_prepay_adj",
	"total_obligation_pos",
	"total_deobligation_neg",
	"final_balance",
	"total_outlayed",
	"pct_outlayed_of_pos",
	"first_action_date",
	"last_action_date",
	"first_negative_date",
	"pre_era_flag",
	"era_flag",
	"cut_after_cutoff",
}

// WriteAwardsMasterCSV writes one row per classified award.
func WriteAwardsMasterCSV(w io.Writer, rows []AwardRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(awardsMasterHeader); err != nil {
		return fmt.Errorf("failed to write awards master header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.AwardID,
			row.RecipientName,
			row.CFDANumber,
			row.CFDATitle,
			row.AwardingAgency,
			row.FundingAgency,
			string(row.Label),
			formatRatio(row.Confidence),
			formatRatio(row.Breakdown[model.LabelNoDeobligation]),
			formatRatio(row.Breakdown[model.LabelCancellation]),
			formatRatio(row.Breakdown[model.LabelRescission]),
			formatRatio(row.Breakdown[model.LabelPartialRescission]),
			formatRatio(row.Breakdown[model.LabelAdminAdjustment]),
			formatMoney(row.TotalObligationPos),
			formatMoney(row.TotalDeobligationNeg),
			formatMoney(row.FinalBalance),
			formatMoney(row.TotalOutlayed),
			formatRatio(row.PctOutlayedOfPos()),
			row.FirstActionDate.Format(dateLayout),
			row.LastActionDate.Format(dateLayout),
			formatOptionalDate(row.FirstNegativeDate),
			formatFlag(row.PreEraFlag),
			formatFlag(row.EraFlag),
			formatFlag(row.CutAfterCutoff),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write award %s: %w", row.AwardID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var deobligationsHeader = []string{
	"awardid",
	"action_date",
	"federal_action_obligation",
	"deobligated_amount_usd",
	"label",
	"action_type",
	"recipient_name",
	"recipient_city_name",
	"recipient_state_code",
	"recipient_county_name",
	"era_flag",
}

// WriteDeobligationsCSV writes the negative transactions, each labeled with
// its award's classification and flagged against the cutoff date.
func WriteDeobligationsCSV(w io.Writer, deobligations []model.Transaction, labelByAward map[string]model.Label, cutoff time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(deobligationsHeader); err != nil {
		return fmt.Errorf("failed to write deobligations header: %w", err)
	}

	for _, txn := range deobligations {
		if txn.Amount >= 0 {
			continue
		}
		record := []string{
			txn.AwardID,
			txn.Date.Format(dateLayout),
			formatMoney(txn.Amount),
			formatMoney(-txn.Amount),
			string(labelByAward[txn.AwardID]),
			txn.ActionType,
			txn.RecipientName,
			txn.RecipientCity,
			txn.RecipientState,
			txn.RecipientCounty,
			formatFlag(!txn.Date.Before(cutoff)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write deobligation for award %s: %w", txn.AwardID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var geoHeader = []string{
	"county_fips",
	"county_name",
	"deobligated_amount_usd",
	"awards_with_any_cut",
	"population_total",
	"deob_dollars_per_capita",
	"cuts_per_10k_residents",
	"pct_minority",
	"pct_black",
	"pct_hispanic",
	"pct_asian",
}

// WriteGeoAggregationCSV writes the county-level rollup.
func WriteGeoAggregationCSV(w io.Writer, rollups []report.CountyRollup) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(geoHeader); err != nil {
		return fmt.Errorf("failed to write geo header: %w", err)
	}

	for _, rollup := range rollups {
		record := []string{
			rollup.FIPS,
			rollup.County,
			formatMoney(rollup.DeobligatedUSD),
			strconv.Itoa(rollup.AwardsWithAnyCut),
			formatMoney(rollup.Population),
			formatRatio(rollup.PerCapitaUSD),
			formatRatio(rollup.CutsPer10K),
			formatRatio(rollup.PctMinority),
			formatRatio(rollup.PctBlack),
			formatRatio(rollup.PctHispanic),
			formatRatio(rollup.PctAsian),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write county %s: %w", rollup.County, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var cityMonthHeader = []string{
	"month",
	"recipient_city_name",
	"recipient_state_code",
	"era_flag",
	"deobligated_amount_usd",
}

// WriteCityMonthCSV writes the city-month deobligation rollup.
func WriteCityMonthCSV(w io.Writer, rollups []report.CityMonth) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(cityMonthHeader); err != nil {
		return fmt.Errorf("failed to write city-month header: %w", err)
	}

	for _, rollup := range rollups {
		record := []string{
			rollup.Month.Format(dateLayout),
			rollup.City,
			rollup.State,
			formatFlag(rollup.EraFlag),
			formatMoney(rollup.DeobligatedUSD),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write city-month row for %s: %w", rollup.City, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func formatRatio(value float64) string {
	return strconv.FormatFloat(value, 'f', 4, 64)
}

func formatFlag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

func formatOptionalDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format(dateLayout)
}
