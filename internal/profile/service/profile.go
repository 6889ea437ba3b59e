package service

import (
	"context"

	"solodesk/internal/profile/repository"
	apperrors "solodesk/pkg/errors"
	"solodesk/pkg/logger"
	"solodesk/pkg/model"
	"solodesk/pkg/store"

	validate "github.com/go-playground/validator/v10"
)

type ProfileService interface {
	GetProfile(ctx context.Context, ownerID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, ownerID string, p model.Profile) (*model.Profile, error)

	// CurrentLink and SetLink satisfy the link service's ProfileLinks
	// dependency.
	CurrentLink(ctx context.Context, ownerID string) (string, error)
	SetLink(ctx context.Context, ownerID, slug string) error
}

type profileService struct {
	profiles repository.ProfileRepository
	validate *validate.Validate
	log      *logger.Logger
}

func NewProfileService(profiles repository.ProfileRepository, log *logger.Logger) ProfileService {
	return &profileService{
		profiles: profiles,
		validate: validate.New(),
		log:      log,
	}
}

func (s *profileService) GetProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	p, err := s.profiles.FindByOwner(ctx, ownerID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.NotFound("Profile")
		}
		s.log.Error("Failed to load profile", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to load profile", err)
	}
	return p, nil
}

func (s *profileService) SaveProfile(ctx context.Context, ownerID string, p model.Profile) (*model.Profile, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, apperrors.Validation("Profile validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	saved, err := s.profiles.Upsert(ctx, ownerID, p)
	if err != nil {
		s.log.Error("Failed to save profile", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to save profile", err)
	}
	s.log.Info("Profile saved", "user_id", ownerID)
	return saved, nil
}

func (s *profileService) CurrentLink(ctx context.Context, ownerID string) (string, error) {
	p, err := s.profiles.FindByOwner(ctx, ownerID)
	if store.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.BookingLink, nil
}

func (s *profileService) SetLink(ctx context.Context, ownerID, slug string) error {
	return s.profiles.SetBookingLink(ctx, ownerID, slug)
}
