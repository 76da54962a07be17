package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/report"
)

func TestWriteWorkbook(t *testing.T) {
	rows := BuildAwardRows([]model.Classification{sampleClassification()}, nil)
	counties := []report.CountyRollup{{FIPS: "25025", County: "SUFFOLK", DeobligatedUSD: 80_000, AwardsWithAnyCut: 1}}
	cities := []report.CityMonth{{Month: day(2025, 3, 1), City: "BOSTON", State: "MA", EraFlag: true, DeobligatedUSD: 80_000}}
	summaries := []report.LabelSummary{{Label: model.LabelRescission, Awards: 1, DeobligatedUSD: 80_000, AvgConfidence: 0.76}}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, rows, counties, cities, summaries))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{sheetAwards, sheetCounties, sheetCityMonth, sheetSummary}, sheets)

	awards, err := f.GetRows(sheetAwards)
	require.NoError(t, err)
	require.Len(t, awards, 2)
	assert.Equal(t, "awardid", awards[0][0])
	assert.Equal(t, "FAIN-1", awards[1][0])

	summary, err := f.GetRows(sheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "RESCISSION", summary[1][0])
}

func TestWriteWorkbook_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil, nil, nil, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	// Header-only sheets are still written.
	awards, err := f.GetRows(sheetAwards)
	require.NoError(t, err)
	require.Len(t, awards, 1)
}
