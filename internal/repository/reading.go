package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cardiolog/cardiolog-go/internal/model"
)

var ErrReadingNotFound = errors.New("reading not found")

const readingColumns = `id, user_id, systolic, diastolic, pulse, created_at`

// ReadingRepository handles blood-pressure reading persistence. Every query
// is scoped by the owning user ID.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository creates a new ReadingRepository.
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Create inserts a reading and sets its generated ID and server-side timestamp.
func (r *ReadingRepository) Create(ctx context.Context, reading *model.Reading) error {
	query := `INSERT INTO readings (user_id, systolic, diastolic, pulse, created_at) VALUES (?, ?, ?, ?, ?)`

	createdAt := nowUTC()
	result, err := r.db.ExecContext(ctx, query,
		reading.UserID,
		reading.Systolic,
		reading.Diastolic,
		reading.Pulse,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}

	reading.ID = id
	reading.CreatedAt = createdAt
	return nil
}

// ListByUser returns all readings of a user, newest first. The result is
// never nil.
func (r *ReadingRepository) ListByUser(ctx context.Context, userID string) ([]model.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	defer rows.Close()

	readings := []model.Reading{}
	for rows.Next() {
		var rd model.Reading
		if err := scanReading(rows, &rd); err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}

	return readings, rows.Err()
}

// GetByID retrieves a reading only if it belongs to userID.
func (r *ReadingRepository) GetByID(ctx context.Context, userID string, id int64) (*model.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE id = ? AND user_id = ?`

	rd := &model.Reading{}
	if err := scanReading(r.db.QueryRowContext(ctx, query, id, userID), rd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReadingNotFound
		}
		return nil, err
	}

	return rd, nil
}

// Delete removes a reading owned by userID and returns it. A reading owned
// by somebody else is reported as ErrReadingNotFound.
func (r *ReadingRepository) Delete(ctx context.Context, userID string, id int64) (*model.Reading, error) {
	rd, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting reading: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("deleting reading: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrReadingNotFound
	}

	return rd, nil
}

// Aggregate computes the mean systolic, diastolic and pulse over all of a
// user's readings together with the most recent one. Means and latest come
// from the same single read of the user's rows.
func (r *ReadingRepository) Aggregate(ctx context.Context, userID string) (model.ReadingAggregate, error) {
	readings, err := r.ListByUser(ctx, userID)
	if err != nil {
		return model.ReadingAggregate{}, fmt.Errorf("aggregating readings: %w", err)
	}
	return model.Summarize(readings), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner, rd *model.Reading) error {
	err := row.Scan(&rd.ID, &rd.UserID, &rd.Systolic, &rd.Diastolic, &rd.Pulse, &rd.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scanning reading: %w", err)
	}
	rd.CreatedAt = rd.CreatedAt.UTC()
	return nil
}
