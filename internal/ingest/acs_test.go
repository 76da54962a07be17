package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acsSample() string {
	lines := []string{
		"GEO_ID\tNAME\tDP05_0001E\tDP05_0037E\tDP05_0038E\tDP05_0047E\tDP05_0076E",
		"Geography\tGeographic Area Name\tEstimate!!Total population\tEstimate!!White alone\tEstimate!!Black\tEstimate!!Asian\tEstimate!!Hispanic",
		"0500000US25025\tSuffolk County, Massachusetts\t800000\t360000\t184000\t80000\t176000",
		"0500000US25017\tMiddlesex County, Massachusetts\t1600000\t1064000\t88000\t224000\t144000",
	}
	return strings.Join(lines, "\n")
}

func TestACSParser_ParseFile(t *testing.T) {
	parser := NewACSParser()
	counties, err := parser.ParseFile(context.Background(), strings.NewReader(acsSample()))
	require.NoError(t, err)
	require.Len(t, counties, 2)

	suffolk := counties[0]
	assert.Equal(t, "25025", suffolk.FIPS)
	assert.Equal(t, "SUFFOLK", suffolk.Name)
	assert.Equal(t, 800000.0, suffolk.Population)
	assert.InDelta(t, 23.0, suffolk.PctBlack, 0.01)
	assert.InDelta(t, 10.0, suffolk.PctAsian, 0.01)
	assert.InDelta(t, 22.0, suffolk.PctHispanic, 0.01)
	assert.InDelta(t, 55.0, suffolk.PctMinority, 0.01)

	assert.Equal(t, "25017", counties[1].FIPS)
	assert.Equal(t, "MIDDLESEX", counties[1].Name)
}

func TestACSParser_SkipsLabelRow(t *testing.T) {
	// The second header row of human-readable labels must never produce
	// a county entry.
	parser := NewACSParser()
	counties, err := parser.ParseFile(context.Background(), strings.NewReader(acsSample()))
	require.NoError(t, err)

	for _, county := range counties {
		assert.NotEqual(t, "raphy", county.FIPS)
		assert.Len(t, county.FIPS, 5)
	}
}

func TestACSParser_ZeroPopulation(t *testing.T) {
	data := "GEO_ID\tNAME\tDP05_0001E\n" +
		"0500000US25001\tBarnstable County, Massachusetts\t0"

	parser := NewACSParser()
	counties, err := parser.ParseFile(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, counties, 1)

	// No division by zero; percentages stay at their zero value.
	assert.Equal(t, 0.0, counties[0].Population)
	assert.Equal(t, 0.0, counties[0].PctMinority)
}

func TestACSParser_MissingGeoColumn(t *testing.T) {
	data := "NAME\tDP05_0001E\nSuffolk County, Massachusetts\t800000"

	parser := NewACSParser()
	_, err := parser.ParseFile(context.Background(), strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEO_ID")
}

func TestCountyFromAreaName(t *testing.T) {
	assert.Equal(t, "Suffolk County", countyFromAreaName("Suffolk County, Massachusetts"))
	assert.Equal(t, "Dukes County", countyFromAreaName("Dukes County, Massachusetts"))
	assert.Equal(t, "Suffolk", countyFromAreaName("Suffolk"))
}
