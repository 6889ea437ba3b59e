package service

import (
	"context"
	"regexp"
	"strings"

	"solodesk/internal/bookinglink/repository"
	apperrors "solodesk/pkg/errors"
	"solodesk/pkg/logger"
	"solodesk/pkg/store"
)

// CleanupOutcome reports what happened to the previous slug mapping during a
// rename. Cleanup failure never fails the rename itself.
type CleanupOutcome string

const (
	CleanupNone     CleanupOutcome = "none"
	CleanupReleased CleanupOutcome = "released"
	CleanupClean    CleanupOutcome = "already-clean"
	CleanupFailed   CleanupOutcome = "failed"
)

// AssignResult is the outcome of a slug assignment.
type AssignResult struct {
	Slug    string         `json:"slug"`
	Cleanup CleanupOutcome `json:"cleanup,omitempty"`
}

// ProfileLinks is the slice of the profile layer the link service needs:
// reading the owner's current slug and persisting the new one.
type ProfileLinks interface {
	CurrentLink(ctx context.Context, ownerID string) (string, error)
	SetLink(ctx context.Context, ownerID, slug string) error
}

type LinkService interface {
	Assign(ctx context.Context, ownerID, desired string) (*AssignResult, error)
	Resolve(ctx context.Context, slug string) (string, error)
}

type linkService struct {
	links    repository.LinkRepository
	profiles ProfileLinks
	log      *logger.Logger
}

func NewLinkService(links repository.LinkRepository, profiles ProfileLinks, log *logger.Logger) LinkService {
	return &linkService{links: links, profiles: profiles, log: log}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// NormalizeSlug lowercases and trims the desired slug. Validation happens
// separately so callers see the normalized value in error messages.
func NormalizeSlug(desired string) string {
	return strings.ToLower(strings.TrimSpace(desired))
}

func validateSlug(slug string) error {
	if len(slug) < 3 {
		return apperrors.InvalidInput("Booking link must be at least 3 characters")
	}
	if !slugPattern.MatchString(slug) {
		return apperrors.InvalidInput("Booking link may only contain lowercase letters, digits and hyphens")
	}
	return nil
}

// Assign claims the desired slug for ownerID. When the owner is renaming an
// existing link the old mapping is released best-effort: a failed release is
// logged and reported but never blocks the new mapping.
func (s *linkService) Assign(ctx context.Context, ownerID, desired string) (*AssignResult, error) {
	slug := NormalizeSlug(desired)
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	existing, err := s.links.Find(ctx, slug)
	switch {
	case err == nil && existing.UserID != ownerID:
		return nil, apperrors.Conflict("That booking link is already taken").WithDetails(map[string]any{
			"slug": slug,
		})
	case err != nil && !store.IsNotFound(err):
		s.log.Error("Failed to check slug availability", "slug", slug, "error", err)
		return nil, apperrors.Internal("Failed to check booking link availability", err)
	}

	previous, err := s.profiles.CurrentLink(ctx, ownerID)
	if err != nil {
		s.log.Error("Failed to load current booking link", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to load current booking link", err)
	}

	result := &AssignResult{Slug: slug, Cleanup: CleanupNone}
	if previous != "" && previous != slug {
		result.Cleanup = s.releasePrevious(ctx, ownerID, previous)
	}

	if err := s.links.Upsert(ctx, slug, ownerID); err != nil {
		s.log.Error("Failed to write slug mapping", "slug", slug, "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to save booking link", err)
	}

	if err := s.profiles.SetLink(ctx, ownerID, slug); err != nil {
		s.log.Error("Failed to persist booking link preference", "user_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to save booking link", err)
	}

	s.log.Info("Booking link assigned", "user_id", ownerID, "slug", slug, "cleanup", string(result.Cleanup))
	return result, nil
}

// releasePrevious deletes the old mapping when this owner still holds it.
// Every failure path is non-fatal; the worst case is a stale mapping that
// still resolves to the owner.
func (s *linkService) releasePrevious(ctx context.Context, ownerID, previous string) CleanupOutcome {
	old, err := s.links.Find(ctx, previous)
	if store.IsNotFound(err) {
		return CleanupClean
	}
	if err != nil {
		s.log.Warn("Failed to inspect previous booking link", "slug", previous, "error", err)
		return CleanupFailed
	}
	if old.UserID != ownerID {
		// Someone else claimed it since the rename started; leave it alone.
		return CleanupClean
	}

	if err := s.links.Delete(ctx, previous); err != nil {
		if store.IsNotFound(err) {
			return CleanupClean
		}
		s.log.Warn("Failed to release previous booking link", "slug", previous, "error", err)
		return CleanupFailed
	}
	return CleanupReleased
}

// Resolve maps a public slug to its owner. Unlike the availability check in
// Assign, absence here is a real failure.
func (s *linkService) Resolve(ctx context.Context, slug string) (string, error) {
	mapping, err := s.links.Find(ctx, NormalizeSlug(slug))
	if err != nil {
		if store.IsNotFound(err) {
			return "", apperrors.NotFound("Booking page").WithDetails(map[string]any{"slug": slug})
		}
		s.log.Error("Failed to resolve booking link", "slug", slug, "error", err)
		return "", apperrors.Internal("Failed to resolve booking link", err)
	}
	if mapping.UserID == "" {
		s.log.Warn("Slug mapping has no owner", "slug", slug)
		return "", apperrors.NotFound("Booking page")
	}
	return mapping.UserID, nil
}
