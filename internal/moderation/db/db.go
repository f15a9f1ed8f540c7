package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-marketplace/internal/models"
)

// ErrDisputeExists is returned when a report already carries a dispute.
var ErrDisputeExists = errors.New("report already disputed")

type DB struct {
	Bun *bun.DB
}

// nextReportID computes the next manually-assigned id: highest existing id
// plus one, or 1 when the table is empty. Same scheme as events, serialized by
// the caller's transaction.
func nextReportID(ctx context.Context, tx bun.Tx) (int64, error) {
	var max sql.NullInt64
	err := tx.NewSelect().
		ColumnExpr("MAX(id)").
		Table("reports").
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("failed to read highest report id: %w", err)
	}
	if !max.Valid {
		return 1, nil
	}
	return max.Int64 + 1, nil
}

// CreateReport → verify the listing and reported user exist, assign the id,
// insert. One transaction.
func (d *DB) CreateReport(report models.Report) (*models.Report, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Listing)(nil)).
			Where("id = ?", report.ListingID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("listing %d not found: %w", report.ListingID, sql.ErrNoRows)
		}

		exists, err = tx.NewSelect().
			Model((*models.User)(nil)).
			Where("id = ?", report.ReportedUserID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("user %s not found: %w", report.ReportedUserID, sql.ErrNoRows)
		}

		if report.ID == 0 {
			id, err := nextReportID(ctx, tx)
			if err != nil {
				return err
			}
			report.ID = id
		}

		_, err = tx.NewInsert().Model(&report).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReportByID → fetch one report by its ID
func (d *DB) GetReportByID(id int64) (*models.Report, error) {
	var report models.Report
	err := d.Bun.NewSelect().
		Model(&report).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports → all reports
func (d *DB) ListReports() ([]models.Report, error) {
	var reports []models.Report
	err := d.Bun.NewSelect().
		Model(&reports).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// SetReportVerified → moderator marks the report checked
func (d *DB) SetReportVerified(id int64, verified bool) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Report)(nil)).
		Set("verified = ?", verified).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("report %d not found: %w", id, sql.ErrNoRows)
	}
	return nil
}

// CreateDispute → one per report. Insert the dispute and flag the report as
// disputed in the same transaction; a second dispute fails with
// ErrDisputeExists.
func (d *DB) CreateDispute(dispute models.Dispute) (*models.Dispute, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var report models.Report
		err := tx.NewSelect().
			Model(&report).
			Where("id = ?", dispute.ReportID).
			Limit(1).
			Scan(ctx)
		if err != nil {
			return fmt.Errorf("report %d not found: %w", dispute.ReportID, err)
		}

		exists, err := tx.NewSelect().
			Model((*models.Dispute)(nil)).
			Where("report_id = ?", dispute.ReportID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrDisputeExists
		}

		if _, err := tx.NewInsert().Model(&dispute).Exec(ctx); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*models.Report)(nil)).
			Set("disputed = ?", true).
			Where("id = ?", dispute.ReportID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}

// GetDisputeByReport → fetch the dispute keyed by its report
func (d *DB) GetDisputeByReport(reportID int64) (*models.Dispute, error) {
	var dispute models.Dispute
	err := d.Bun.NewSelect().
		Model(&dispute).
		Where("report_id = ?", reportID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}
