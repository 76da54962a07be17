package storage

import (
	"context"
	"testing"

	"github.com/grantwatch/grantcuts/internal/model"
)

func TestSQLiteStorage_CountyDemographicsRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	counties := []model.CountyDemographics{
		{FIPS: "25025", Name: "Suffolk", Population: 766_381, PctMinority: 55.2, PctBlack: 23.1, PctHispanic: 22.8, PctAsian: 9.7},
		{FIPS: "25017", Name: "Middlesex", Population: 1_628_706, PctMinority: 33.4, PctBlack: 5.5, PctHispanic: 9.1, PctAsian: 14.0},
	}

	if err := store.SaveCountyDemographics(ctx, counties); err != nil {
		t.Fatalf("Failed to save counties: %v", err)
	}

	got, err := store.GetCountyDemographics(ctx)
	if err != nil {
		t.Fatalf("Failed to get counties: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 counties, got %d", len(got))
	}

	// Ordered by FIPS.
	if got[0].FIPS != "25017" || got[1].FIPS != "25025" {
		t.Errorf("Expected FIPS order 25017, 25025; got %s, %s", got[0].FIPS, got[1].FIPS)
	}
	if got[1].Name != "Suffolk" {
		t.Errorf("Expected Suffolk, got %s", got[1].Name)
	}
	if got[1].PctMinority != 55.2 {
		t.Errorf("Expected pct_minority 55.2, got %v", got[1].PctMinority)
	}
}

func TestSQLiteStorage_CountyDemographicsUpsert(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	original := []model.CountyDemographics{{FIPS: "25025", Name: "Suffolk", Population: 700_000}}
	if err := store.SaveCountyDemographics(ctx, original); err != nil {
		t.Fatalf("Failed to save counties: %v", err)
	}

	// A fresh ACS vintage replaces the existing row.
	updated := []model.CountyDemographics{{FIPS: "25025", Name: "Suffolk", Population: 766_381}}
	if err := store.SaveCountyDemographics(ctx, updated); err != nil {
		t.Fatalf("Failed to upsert counties: %v", err)
	}

	got, err := store.GetCountyDemographics(ctx)
	if err != nil {
		t.Fatalf("Failed to get counties: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 county after upsert, got %d", len(got))
	}
	if got[0].Population != 766_381 {
		t.Errorf("Expected updated population, got %v", got[0].Population)
	}
}

func TestSQLiteStorage_CountyDemographicsValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveCountyDemographics(ctx, nil); err == nil {
		t.Error("Expected error for empty batch")
	}

	missingFIPS := []model.CountyDemographics{{Name: "Nowhere"}}
	if err := store.SaveCountyDemographics(ctx, missingFIPS); err == nil {
		t.Error("Expected error for county without FIPS code")
	}
}
