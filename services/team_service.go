package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

type CreateTeamInput struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type CreatePlayerInput struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Position    *string `json:"position"`
	ShirtNumber *int    `json:"shirt_number"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, id int, input CreateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	UploadCrest(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)

	AddPlayer(ctx context.Context, teamID int, input CreatePlayerInput) (*models.Player, error)
	GetPlayer(ctx context.Context, playerID int) (*models.Player, error)
	ListPlayers(ctx context.Context, teamID int) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, playerID int, input CreatePlayerInput) (*models.Player, error)
	RemovePlayer(ctx context.Context, playerID int) error
	UploadPlayerPhoto(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

// uploader может быть nil, если объектное хранилище не настроено.
func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:      strings.TrimSpace(input.Name),
		ShortName: strings.TrimSpace(input.ShortName),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load team players: %w", err)
	}
	team.Players = make([]models.Player, 0, len(players))
	for _, p := range players {
		s.populatePlayerPhotoURL(p)
		team.Players = append(team.Players, *p)
	}

	s.populateTeamCrestURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		s.populateTeamCrestURL(t)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	team.Name = strings.TrimSpace(input.Name)
	team.ShortName = strings.TrimSpace(input.ShortName)

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	s.populateTeamCrestURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	// Удаление файла из хранилища не откатывает удаление команды.
	if s.uploader != nil && team.CrestKey != nil && *team.CrestKey != "" {
		if err := s.uploader.Delete(ctx, *team.CrestKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete team crest from storage",
				slog.Int("team_id", id),
				slog.String("key", *team.CrestKey),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

func (s *teamService) UploadCrest(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrCrestUnavailable
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("teams/%d/crest_%d%s", teamID, time.Now().Unix(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest: %w", err)
	}

	oldKey := team.CrestKey
	if err := s.teamRepo.UpdateCrestKey(ctx, teamID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist crest key: %w", err)
	}
	team.CrestKey = &result.Key

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous crest",
				slog.Int("team_id", teamID),
				slog.String("key", *oldKey),
				slog.Any("error", err),
			)
		}
	}

	s.populateTeamCrestURL(team)
	return team, nil
}

func (s *teamService) AddPlayer(ctx context.Context, teamID int, input CreatePlayerInput) (*models.Player, error) {
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, fmt.Errorf("%w: player first name is required", ErrValidationFailed)
	}
	if input.ShirtNumber != nil && (*input.ShirtNumber < 1 || *input.ShirtNumber > 99) {
		return nil, fmt.Errorf("%w: shirt number must be between 1 and 99", ErrValidationFailed)
	}

	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	player := &models.Player{
		TeamID:      teamID,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Position:    input.Position,
		ShirtNumber: input.ShirtNumber,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *teamService) GetPlayer(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	s.populatePlayerPhotoURL(player)
	return player, nil
}

func (s *teamService) ListPlayers(ctx context.Context, teamID int) ([]*models.Player, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		s.populatePlayerPhotoURL(p)
	}
	return players, nil
}

func (s *teamService) UpdatePlayer(ctx context.Context, playerID int, input CreatePlayerInput) (*models.Player, error) {
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, fmt.Errorf("%w: player first name is required", ErrValidationFailed)
	}
	if input.ShirtNumber != nil && (*input.ShirtNumber < 1 || *input.ShirtNumber > 99) {
		return nil, fmt.Errorf("%w: shirt number must be between 1 and 99", ErrValidationFailed)
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	player.FirstName = strings.TrimSpace(input.FirstName)
	player.LastName = strings.TrimSpace(input.LastName)
	player.Position = input.Position
	player.ShirtNumber = input.ShirtNumber

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	s.populatePlayerPhotoURL(player)
	return player, nil
}

func (s *teamService) RemovePlayer(ctx context.Context, playerID int) error {
	err := s.playerRepo.Delete(ctx, playerID)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return ErrPlayerNotFound
	}
	return err
}

func (s *teamService) UploadPlayerPhoto(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error) {
	if s.uploader == nil {
		return nil, ErrCrestUnavailable
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("players/%d/photo_%d%s", playerID, time.Now().Unix(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	oldKey := player.PhotoKey
	if err := s.playerRepo.UpdatePhotoKey(ctx, playerID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist photo key: %w", err)
	}
	player.PhotoKey = &result.Key

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous player photo",
				slog.Int("player_id", playerID),
				slog.String("key", *oldKey),
				slog.Any("error", err),
			)
		}
	}

	s.populatePlayerPhotoURL(player)
	return player, nil
}

func (s *teamService) populateTeamCrestURL(team *models.Team) {
	if team == nil || s.uploader == nil || team.CrestKey == nil || *team.CrestKey == "" {
		return
	}
	if url := s.uploader.GetPublicURL(*team.CrestKey); url != "" {
		team.CrestURL = &url
	}
}

func (s *teamService) populatePlayerPhotoURL(player *models.Player) {
	if player == nil || s.uploader == nil || player.PhotoKey == nil || *player.PhotoKey == "" {
		return
	}
	if url := s.uploader.GetPublicURL(*player.PhotoKey); url != "" {
		player.PhotoURL = &url
	}
}

func imageExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		return "", fmt.Errorf("unsupported image content type: %q", contentType)
	}
}
