package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	MarkHandled(ctx context.Context, id, handledBy string, resolution domain.ReportResolution) error
	ListRecent(ctx context.Context, limit int) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (reporter_id, reporter_name, reported_user, reason, category)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		report.ReporterID,
		report.ReporterName,
		report.ReportedUser,
		report.Reason,
		report.Category,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	const query = `
        SELECT id, reporter_id, reporter_name, reported_user, reason, category,
               handled, handled_by, resolution, created_at
        FROM reports WHERE id=$1`
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.ReporterID,
		&report.ReporterName,
		&report.ReportedUser,
		&report.Reason,
		&report.Category,
		&report.Handled,
		&report.HandledBy,
		&report.Resolution,
		&report.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) MarkHandled(ctx context.Context, id, handledBy string, resolution domain.ReportResolution) error {
	const query = `
        UPDATE reports SET handled=true, handled_by=$1, resolution=$2
        WHERE id=$3 AND handled=false`
	_, err := r.pool.Exec(ctx, query, handledBy, resolution, id)
	return err
}

func (r *reportRepository) ListRecent(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 25
	}
	const query = `
        SELECT id, reporter_id, reporter_name, reported_user, reason, category,
               handled, handled_by, resolution, created_at
        FROM reports ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.ReporterID,
			&report.ReporterName,
			&report.ReportedUser,
			&report.Reason,
			&report.Category,
			&report.Handled,
			&report.HandledBy,
			&report.Resolution,
			&report.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
