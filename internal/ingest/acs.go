package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/grantwatch/grantcuts/internal/model"
)

// ACS DP05 column codes used for the demographic lookup.
const (
	acsPopulationColumn    = "DP05_0001E"
	acsBlackColumn         = "DP05_0038E"
	acsAsianColumn         = "DP05_0047E"
	acsHispanicColumn      = "DP05_0076E"
	acsWhiteNotHispColumn  = "DP05_0037E"
	acsGeoIDPrefixedLength = 5
)

// ACSParser parses ACS DP05 demographic tables into county lookups.
type ACSParser struct{}

// NewACSParser creates a new parser.
func NewACSParser() *ACSParser {
	return &ACSParser{}
}

// ParseFile reads a DP05 table and returns one CountyDemographics per
// county row. Census exports carry a .csv extension but are tab-delimited.
func (p *ACSParser) ParseFile(ctx context.Context, reader io.Reader) ([]model.CountyDemographics, error) {
	r := csv.NewReader(reader)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read DP05 header: %w", err)
	}

	var rows [][]string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read DP05 record: %w", readErr)
		}
		rows = append(rows, record)
	}

	return p.buildCounties(header, rows)
}

// ParseWorkbook reads the first sheet of a DP05 XLSX export.
func (p *ACSParser) ParseWorkbook(_ context.Context, reader io.Reader) ([]model.CountyDemographics, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	return p.buildCounties(rows[0], rows[1:])
}

func (p *ACSParser) buildCounties(header []string, rows [][]string) ([]model.CountyDemographics, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	geoColumn, ok := index["GEO_ID"]
	if !ok {
		if geoColumn, ok = index["GEOID"]; !ok {
			return nil, fmt.Errorf("no GEO_ID/GEOID column in DP05 table")
		}
	}
	nameColumn, ok := index["NAME"]
	if !ok {
		if nameColumn, ok = index["Geographic Area Name"]; !ok {
			return nil, fmt.Errorf("no NAME column in DP05 table")
		}
	}

	field := func(record []string, name string) float64 {
		i, present := index[name]
		if !present || i >= len(record) {
			return 0
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return 0
		}
		return value
	}

	var counties []model.CountyDemographics
	for _, record := range rows {
		if geoColumn >= len(record) || nameColumn >= len(record) {
			continue
		}

		geoID := strings.TrimSpace(record[geoColumn])
		// Census exports carry a second header row of human-readable
		// labels; only summary-level GEO_IDs like "0500000US25001" count.
		if len(geoID) < acsGeoIDPrefixedLength || !strings.Contains(geoID, "US") {
			continue
		}

		population := field(record, acsPopulationColumn)
		county := model.CountyDemographics{
			// GEO_ID looks like "0500000US25001"; the county FIPS is the tail.
			FIPS:       geoID[len(geoID)-acsGeoIDPrefixedLength:],
			Name:       NormalizeCountyName(countyFromAreaName(record[nameColumn])),
			Population: population,
		}

		if population > 0 {
			county.PctBlack = field(record, acsBlackColumn) / population * 100
			county.PctAsian = field(record, acsAsianColumn) / population * 100
			county.PctHispanic = field(record, acsHispanicColumn) / population * 100
			county.PctMinority = 100 - field(record, acsWhiteNotHispColumn)/population*100
		}

		counties = append(counties, county)
	}

	return counties, nil
}

// countyFromAreaName trims the state suffix from names like
// "Suffolk County, Massachusetts".
func countyFromAreaName(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
