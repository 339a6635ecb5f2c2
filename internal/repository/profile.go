package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardiolog/cardiolog-go/internal/model"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDuplicateProfile = errors.New("profile already exists for user")
)

// ProfileRepository handles the one-to-one medical profile of a user.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves the profile owned by userID.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT id, user_id, name, age, weight, height, blood_type, created_at, updated_at
		FROM profiles WHERE user_id = ?`

	var (
		p         model.Profile
		age       sql.NullInt64
		weight    sql.NullFloat64
		height    sql.NullFloat64
		bloodType sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Name, &age, &weight, &height, &bloodType, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	p.Weight = nullFloat(weight)
	p.Height = nullFloat(height)
	if bloodType.Valid {
		v := bloodType.String
		p.BloodType = &v
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	return &p, nil
}

// Create inserts a profile. A second profile for the same user yields
// ErrDuplicateProfile via the unique user_id index.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	query := `INSERT INTO profiles (id, user_id, name, age, weight, height, blood_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := nowUTC()

	_, err := r.db.ExecContext(ctx, query,
		id, p.UserID, p.Name,
		nullableInt(p.Age), nullableFloat(p.Weight), nullableFloat(p.Height), nullableString(p.BloodType),
		now, now,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateProfile
		}
		return fmt.Errorf("inserting profile: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Update overwrites the mutable columns of the profile owned by p.UserID.
func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `UPDATE profiles SET name = ?, age = ?, weight = ?, height = ?, blood_type = ?, updated_at = ?
		WHERE user_id = ?`

	now := nowUTC()
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		nullableInt(p.Age), nullableFloat(p.Weight), nullableFloat(p.Height), nullableString(p.BloodType),
		now, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	p.UpdatedAt = now
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
