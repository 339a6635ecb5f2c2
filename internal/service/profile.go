package service

import (
	"context"
	"errors"

	"github.com/cardiolog/cardiolog-go/internal/model"
	"github.com/cardiolog/cardiolog-go/internal/repository"
)

// ProfileStore is the persistence the profile service needs.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, p *model.Profile) error
}

// ProfileService reads and upserts the medical profile of the caller.
type ProfileService struct {
	repo ProfileStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo ProfileStore) *ProfileService {
	return &ProfileService{repo: repo}
}

// Me returns the caller's account merged with their profile. Profile fields
// are empty when no profile exists yet.
func (s *ProfileService) Me(ctx context.Context, owner model.Identity) (model.MeResponse, error) {
	p, err := s.repo.GetByUserID(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return meResponse(owner, nil), nil
		}
		return model.MeResponse{}, err
	}
	return meResponse(owner, p), nil
}

// UpdateMe applies patch to the caller's profile, creating it on first use.
func (s *ProfileService) UpdateMe(ctx context.Context, owner model.Identity, patch model.ProfilePatch) (model.MeResponse, error) {
	p, err := s.repo.GetByUserID(ctx, owner.ID)
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		p = &model.Profile{UserID: owner.ID}
		patch.Apply(p)

		err = s.repo.Create(ctx, p)
		if err == nil {
			return meResponse(owner, p), nil
		}
		if !errors.Is(err, repository.ErrDuplicateProfile) {
			return model.MeResponse{}, err
		}

		// Lost a creation race with a concurrent request; update theirs.
		p, err = s.repo.GetByUserID(ctx, owner.ID)
		if err != nil {
			return model.MeResponse{}, err
		}
	case err != nil:
		return model.MeResponse{}, err
	}

	patch.Apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return model.MeResponse{}, err
	}

	return meResponse(owner, p), nil
}

func meResponse(owner model.Identity, p *model.Profile) model.MeResponse {
	resp := model.MeResponse{
		ID:        owner.ID,
		Email:     owner.Email,
		CreatedAt: owner.CreatedAt,
	}
	if p != nil {
		resp.Name = p.Name
		resp.Age = p.Age
		resp.Weight = p.Weight
		resp.Height = p.Height
		resp.BloodType = p.BloodType
	}
	return resp
}
