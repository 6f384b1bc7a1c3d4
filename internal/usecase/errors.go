package usecase

import (
	"errors"

	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/view"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUnexpectedTeamCount   = match.ErrUnexpectedTeamCount
	ErrTargetNotFound        = view.ErrTargetNotFound
)
