package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/cardiolog/cardiolog-go/internal/model"
	"github.com/cardiolog/cardiolog-go/internal/repository"
)

var (
	ErrReadingFieldsRequired = errors.New("systolic, diastolic and pulse are required")
	ErrReadingNotFound       = errors.New("reading not found")
)

// ReadingStore is the owner-scoped persistence the reading service needs.
type ReadingStore interface {
	Create(ctx context.Context, reading *model.Reading) error
	ListByUser(ctx context.Context, userID string) ([]model.Reading, error)
	Delete(ctx context.Context, userID string, id int64) (*model.Reading, error)
	Aggregate(ctx context.Context, userID string) (model.ReadingAggregate, error)
}

// ReadingService handles blood-pressure readings of the authenticated user.
type ReadingService struct {
	repo     ReadingStore
	validate *validator.Validate
}

// NewReadingService creates a new ReadingService.
func NewReadingService(repo ReadingStore) *ReadingService {
	return &ReadingService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Add records a new reading for owner.
func (s *ReadingService) Add(ctx context.Context, owner model.Identity, req model.ReadingRequest) (model.Reading, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Reading{}, ErrReadingFieldsRequired
	}

	reading := model.Reading{
		UserID:    owner.ID,
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
		Pulse:     req.Pulse,
	}
	if err := s.repo.Create(ctx, &reading); err != nil {
		return model.Reading{}, err
	}

	return reading, nil
}

// List returns the owner's readings, newest first.
func (s *ReadingService) List(ctx context.Context, owner model.Identity) ([]model.Reading, error) {
	readings, err := s.repo.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if readings == nil {
		readings = []model.Reading{}
	}
	return readings, nil
}

// Delete removes one of the owner's readings. Readings of other users are
// reported as ErrReadingNotFound.
func (s *ReadingService) Delete(ctx context.Context, owner model.Identity, id int64) (model.Reading, error) {
	reading, err := s.repo.Delete(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReadingNotFound) {
			return model.Reading{}, ErrReadingNotFound
		}
		return model.Reading{}, err
	}
	return *reading, nil
}

// Stats returns the means over all of the owner's readings, their category
// and the latest reading.
func (s *ReadingService) Stats(ctx context.Context, owner model.Identity) (model.StatsResponse, error) {
	agg, err := s.repo.Aggregate(ctx, owner.ID)
	if err != nil {
		return model.StatsResponse{}, err
	}

	category := model.CategoryUnknown
	if agg.AvgSystolic != nil && agg.AvgDiastolic != nil {
		category = model.Classify(*agg.AvgSystolic, *agg.AvgDiastolic)
	}

	return model.StatsResponse{
		Stats: model.Stats{
			AvgSystolic:  agg.AvgSystolic,
			AvgDiastolic: agg.AvgDiastolic,
			AvgPulse:     agg.AvgPulse,
			Count:        agg.Count,
			Category:     category,
		},
		Latest: agg.Latest,
	}, nil
}
