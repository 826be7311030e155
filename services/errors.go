package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrNotFound           = errors.New("not found")
	ErrTournamentNotFound = fmt.Errorf("tournament %w", ErrNotFound)
	ErrTeamNotFound       = fmt.Errorf("team %w", ErrNotFound)
	ErrMatchNotFound      = fmt.Errorf("match %w", ErrNotFound)

	// Ошибки валидации
	ErrValidationFailed      = errors.New("validation failed")
	ErrTournamentNameEmpty   = fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	ErrInvalidTournamentType = fmt.Errorf("%w: invalid tournament type", ErrValidationFailed)
	ErrInvalidTerrainCount   = fmt.Errorf("%w: terrain count must be at least 1", ErrValidationFailed)
	ErrInvalidPlayerCount    = fmt.Errorf("%w: player count does not match the tournament format", ErrValidationFailed)
	ErrPlayerNameEmpty       = fmt.Errorf("%w: player name is required", ErrValidationFailed)
	ErrScoreRequired         = fmt.Errorf("%w: both scores are required", ErrValidationFailed)
	ErrInvalidScore          = fmt.Errorf("%w: score out of range", ErrValidationFailed)
	ErrEqualScores           = fmt.Errorf("%w: a match cannot end in a tie", ErrValidationFailed)
	ErrInvalidTerrain        = fmt.Errorf("%w: terrain out of range", ErrValidationFailed)

	// Ошибки бизнес-правил (конфликты состояния)
	ErrRoundIncomplete     = errors.New("current round is not complete")
	ErrNotEnoughTeams      = errors.New("at least two teams are required")
	ErrQuadretteTeamCount  = errors.New("quadrette requires exactly four teams")
	ErrScheduleExhausted   = errors.New("all scheduled rounds have been played")
	ErrTeamHasMatches      = errors.New("team already has matches")
	ErrTournamentCompleted = errors.New("tournament is completed")
	ErrByeMatchImmutable   = errors.New("bye matches cannot be scored")

	// Экспорт и аутентификация
	ErrExportDisabled     = errors.New("standings export is not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
