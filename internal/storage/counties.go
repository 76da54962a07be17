package storage

import (
	"context"
	"fmt"

	"github.com/grantwatch/grantcuts/internal/model"
)

// SaveCountyDemographics upserts the county demographic lookup.
func (s *SQLiteStorage) SaveCountyDemographics(ctx context.Context, counties []model.CountyDemographics) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(counties) == 0 {
		return fmt.Errorf("counties must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO county_demographics (
			fips, name, population, pct_minority, pct_black, pct_hispanic, pct_asian
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, county := range counties {
		if county.FIPS == "" {
			return fmt.Errorf("county %q has no FIPS code", county.Name)
		}

		_, err = stmt.ExecContext(ctx,
			county.FIPS,
			county.Name,
			county.Population,
			county.PctMinority,
			county.PctBlack,
			county.PctHispanic,
			county.PctAsian,
		)
		if err != nil {
			return fmt.Errorf("failed to insert county %s: %w", county.FIPS, err)
		}
	}

	return tx.Commit()
}

// GetCountyDemographics retrieves the full county demographic lookup.
func (s *SQLiteStorage) GetCountyDemographics(ctx context.Context) ([]model.CountyDemographics, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fips, name, population, pct_minority, pct_black, pct_hispanic, pct_asian
		FROM county_demographics ORDER BY fips
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query county demographics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counties []model.CountyDemographics
	for rows.Next() {
		var county model.CountyDemographics
		err := rows.Scan(
			&county.FIPS,
			&county.Name,
			&county.Population,
			&county.PctMinority,
			&county.PctBlack,
			&county.PctHispanic,
			&county.PctAsian,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan county: %w", err)
		}
		counties = append(counties, county)
	}

	return counties, rows.Err()
}
