package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Dosada05/petanque-manager/models"
	"github.com/Dosada05/petanque-manager/storage"
)

type ExportService interface {
	ExportStandings(ctx context.Context, tournamentID int) (*ExportResult, error)
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type exportService struct {
	tournaments TournamentService
	uploader    storage.FileUploader
	now         func() time.Time
	logger      *slog.Logger
}

// NewExportService returns a service that refuses every export when uploader is nil.
func NewExportService(tournaments TournamentService, uploader storage.FileUploader, logger *slog.Logger) ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &exportService{
		tournaments: tournaments,
		uploader:    uploader,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With(slog.String("service", "export")),
	}
}

func (s *exportService) ExportStandings(ctx context.Context, tournamentID int) (*ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}
	snapshot, err := s.tournaments.StandingsSnapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	body, err := StandingsCSV(snapshot.Standings)
	if err != nil {
		return nil, fmt.Errorf("failed to render standings: %w", err)
	}

	key := fmt.Sprintf("exports/tournament_%d/standings_round_%d_%s.csv",
		snapshot.Tournament.ID, snapshot.Tournament.CurrentRound, s.now().Format("20060102T150405Z"))
	result, err := s.uploader.Upload(ctx, key, "text/csv; charset=utf-8", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to upload standings: %w", err)
	}

	s.logger.InfoContext(ctx, "standings exported",
		slog.Int("tournament_id", tournamentID), slog.String("key", result.Key))
	return &ExportResult{Key: result.Key, URL: result.Location}, nil
}

// StandingsCSV renders the ranking with a header row.
func StandingsCSV(standings []models.Standing) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"rank", "team", "players", "wins", "losses", "points_for", "points_against", "points_difference"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, st := range standings {
		record := []string{
			strconv.Itoa(st.Rank),
			strconv.Itoa(st.TeamNumber),
			st.Players,
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.Losses),
			strconv.Itoa(st.PointsFor),
			strconv.Itoa(st.PointsAgainst),
			strconv.Itoa(st.PointsDifference),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
