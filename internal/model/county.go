package model

// CountyDemographics holds the ACS DP05 figures for one county, keyed both
// by FIPS code and by the county name as it appears on recipient records.
type CountyDemographics struct {
	FIPS        string
	Name        string
	Population  float64
	PctMinority float64
	PctBlack    float64
	PctHispanic float64
	PctAsian    float64
}
