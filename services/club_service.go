package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JordyAP28/sistema-deportivo/models"
	"github.com/JordyAP28/sistema-deportivo/repositories"
	"github.com/JordyAP28/sistema-deportivo/storage"
)

type ClubInput struct {
	Name      string  `json:"name"`
	City      *string `json:"city,omitempty"`
	FoundedAt *int    `json:"founded_at,omitempty"`
}

type ClubService interface {
	CreateClub(ctx context.Context, input ClubInput) (*models.Club, error)
	GetClubByID(ctx context.Context, id int) (*models.Club, error)
	ListClubs(ctx context.Context, limit, offset int) ([]*models.Club, error)
	UpdateClub(ctx context.Context, id int, input ClubInput) (*models.Club, error)
	DeleteClub(ctx context.Context, id int) error
	UploadCrest(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error)
}

type clubService struct {
	clubRepo repositories.ClubRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewClubService(clubRepo repositories.ClubRepository, uploader storage.FileUploader, logger *slog.Logger) ClubService {
	if logger == nil {
		logger = slog.Default()
	}
	return &clubService{clubRepo: clubRepo, uploader: uploader, logger: logger}
}

func (s *clubService) CreateClub(ctx context.Context, input ClubInput) (*models.Club, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrClubNameRequired
	}

	club := &models.Club{
		Name:      strings.TrimSpace(input.Name),
		City:      input.City,
		FoundedAt: input.FoundedAt,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, repositories.ErrClubNameConflict) {
			return nil, ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return club, nil
}

func (s *clubService) GetClubByID(ctx context.Context, id int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	s.populateCrestURL(club)
	return club, nil
}

func (s *clubService) ListClubs(ctx context.Context, limit, offset int) ([]*models.Club, error) {
	if limit <= 0 {
		limit = 20
	}
	clubs, err := s.clubRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	for _, club := range clubs {
		s.populateCrestURL(club)
	}
	return clubs, nil
}

func (s *clubService) UpdateClub(ctx context.Context, id int, input ClubInput) (*models.Club, error) {
	club, err := s.GetClubByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrClubNameRequired
	}

	club.Name = strings.TrimSpace(input.Name)
	club.City = input.City
	club.FoundedAt = input.FoundedAt

	if err := s.clubRepo.Update(ctx, club); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubNotFound):
			return nil, ErrClubNotFound
		case errors.Is(err, repositories.ErrClubNameConflict):
			return nil, ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to update club %d: %w", id, err)
	}
	s.populateCrestURL(club)
	return club, nil
}

func (s *clubService) DeleteClub(ctx context.Context, id int) error {
	if err := s.clubRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to delete club %d: %w", id, err)
	}
	return nil
}

func (s *clubService) UploadCrest(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error) {
	club, err := s.GetClubByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("clubs/%d/crest_%d", clubID, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest for club %d: %w", clubID, err)
	}

	oldKey := club.CrestKey
	if err := s.clubRepo.UpdateCrestKey(ctx, clubID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to save crest key for club %d: %w", clubID, err)
	}
	club.CrestKey = &result.Key
	s.populateCrestURL(club)

	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous crest object",
				slog.Int("club_id", clubID), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}
	return club, nil
}

func (s *clubService) populateCrestURL(club *models.Club) {
	if club.CrestKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*club.CrestKey)
		club.CrestURL = &url
	}
}
