package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/report"
)

// Workbook sheet names.
const (
	sheetAwards    = "Awards"
	sheetCounties  = "Counties"
	sheetSummary   = "Summary"
	sheetCityMonth = "CityMonth"
)

// WriteWorkbook writes the full export as one XLSX workbook with awards,
// county, city-month, and label summary sheets.
func WriteWorkbook(w io.Writer, rows []AwardRow, counties []report.CountyRollup, cities []report.CityMonth, summaries []report.LabelSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeAwardsSheet(f, rows); err != nil {
		return err
	}
	if err := writeCountiesSheet(f, counties); err != nil {
		return err
	}
	if err := writeCityMonthSheet(f, cities); err != nil {
		return err
	}
	if err := writeSummarySheet(f, summaries); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeAwardsSheet(f *excelize.File, rows []AwardRow) error {
	if _, err := f.NewSheet(sheetAwards); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetAwards, err)
	}

	header := make([]any, len(awardsMasterHeader))
	for i, name := range awardsMasterHeader {
		header[i] = name
	}
	if err := setRow(f, sheetAwards, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		values := []any{
			row.AwardID,
			row.RecipientName,
			row.CFDANumber,
			row.CFDATitle,
			row.AwardingAgency,
			row.FundingAgency,
			string(row.Label),
			row.Confidence,
			row.Breakdown[model.LabelNoDeobligation],
			row.Breakdown[model.LabelCancellation],
			row.Breakdown[model.LabelRescission],
			row.Breakdown[model.LabelPartialRescission],
			row.Breakdown[model.LabelAdminAdjustment],
			row.TotalObligationPos,
			row.TotalDeobligationNeg,
			row.FinalBalance,
			row.TotalOutlayed,
			row.PctOutlayedOfPos(),
			row.FirstActionDate.Format(dateLayout),
			row.LastActionDate.Format(dateLayout),
			formatOptionalDate(row.FirstNegativeDate),
			row.PreEraFlag,
			row.EraFlag,
			row.CutAfterCutoff,
		}
		if err := setRow(f, sheetAwards, i+2, values); err != nil {
			return err
		}
	}

	return nil
}

func writeCountiesSheet(f *excelize.File, counties []report.CountyRollup) error {
	if _, err := f.NewSheet(sheetCounties); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetCounties, err)
	}

	header := make([]any, len(geoHeader))
	for i, name := range geoHeader {
		header[i] = name
	}
	if err := setRow(f, sheetCounties, 1, header); err != nil {
		return err
	}

	for i, county := range counties {
		values := []any{
			county.FIPS,
			county.County,
			county.DeobligatedUSD,
			county.AwardsWithAnyCut,
			county.Population,
			county.PerCapitaUSD,
			county.CutsPer10K,
			county.PctMinority,
			county.PctBlack,
			county.PctHispanic,
			county.PctAsian,
		}
		if err := setRow(f, sheetCounties, i+2, values); err != nil {
			return err
		}
	}

	return nil
}

func writeCityMonthSheet(f *excelize.File, cities []report.CityMonth) error {
	if _, err := f.NewSheet(sheetCityMonth); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetCityMonth, err)
	}

	header := make([]any, len(cityMonthHeader))
	for i, name := range cityMonthHeader {
		header[i] = name
	}
	if err := setRow(f, sheetCityMonth, 1, header); err != nil {
		return err
	}

	for i, city := range cities {
		values := []any{
			city.Month.Format(dateLayout),
			city.City,
			city.State,
			city.EraFlag,
			city.DeobligatedUSD,
		}
		if err := setRow(f, sheetCityMonth, i+2, values); err != nil {
			return err
		}
	}

	return nil
}

func writeSummarySheet(f *excelize.File, summaries []report.LabelSummary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetSummary, err)
	}

	if err := setRow(f, sheetSummary, 1, []any{"label", "awards", "deobligated_amount_usd", "avg_confidence"}); err != nil {
		return err
	}

	for i, summary := range summaries {
		values := []any{
			string(summary.Label),
			summary.Awards,
			summary.DeobligatedUSD,
			summary.AvgConfidence,
		}
		if err := setRow(f, sheetSummary, i+2, values); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to compute cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d on sheet %s: %w", row, sheet, err)
	}
	return nil
}
