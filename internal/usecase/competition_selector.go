package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/matchlens/internal/domain/competition"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

// CompetitionSelector owns the competition/season disclosure list, the root
// of the selection cascade.
type CompetitionSelector struct {
	client AnalyticsClient
	doc    *view.Document
	bus    *Bus
	logger *logging.Logger

	mu       sync.Mutex
	options  []competition.SeasonOption
	groups   []competition.Group
	expanded map[string]bool
	selected string
}

func NewCompetitionSelector(client AnalyticsClient, doc *view.Document, bus *Bus, logger *logging.Logger) *CompetitionSelector {
	if logger == nil {
		logger = logging.Default()
	}
	return &CompetitionSelector{
		client:   client,
		doc:      doc,
		bus:      bus,
		logger:   logger.Named("competition_selector"),
		expanded: make(map[string]bool),
	}
}

// Load fetches the option list, renders it and selects the first option.
// On failure the list stays empty.
func (s *CompetitionSelector) Load(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionSelector.Load")
	defer span.End()

	options, err := s.client.ListCompetitions(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "fetch competitions failed", "error", err)
		return fmt.Errorf("list competitions: %w", err)
	}

	s.mu.Lock()
	s.options = options
	s.groups = competition.GroupByCompetition(options)
	s.expanded = make(map[string]bool, len(s.groups))
	err = s.renderLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if len(options) == 0 {
		s.logger.WarnContext(ctx, "competition list is empty")
		return nil
	}
	return s.Select(ctx, options[0].Value())
}

// Select applies a "{competition_id}-{season_id}" value and publishes
// SelectionChanged exactly once, after the label and list are updated.
// Ids come from the matched option, so ids that contain "-" still select.
func (s *CompetitionSelector) Select(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)

	s.mu.Lock()
	option, ok := competition.Find(s.options, value)
	if ok {
		s.selected = option.Value()
	}
	s.mu.Unlock()
	if !ok {
		if _, _, err := competition.ParseValue(value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return fmt.Errorf("%w: competition season %s", ErrNotFound, value)
	}
	competitionID, seasonID := option.CompetitionID, option.SeasonID

	if err := s.doc.SetText(view.IDCompetitionLabel, option.Label()); err != nil {
		return err
	}
	if err := s.doc.SetHidden(view.IDCompetitionList, true); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "competition season selected", "competition_id", competitionID, "season_id", seasonID)
	s.bus.PublishSelectionChanged(ctx, SelectionChanged{CompetitionID: competitionID, SeasonID: seasonID})
	return nil
}

func (s *CompetitionSelector) ToggleList() error {
	_, err := s.doc.ToggleHidden(view.IDCompetitionList)
	return err
}

// ToggleGroup shows or hides the seasons of one competition only.
func (s *CompetitionSelector) ToggleGroup(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, group := range s.groups {
		if group.Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: competition group %q", ErrNotFound, name)
	}
	s.expanded[name] = !s.expanded[name]
	return s.renderLocked(ctx)
}

func (s *CompetitionSelector) Expanded(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[name]
}

func (s *CompetitionSelector) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *CompetitionSelector) Options() []competition.SeasonOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]competition.SeasonOption(nil), s.options...)
}

func (s *CompetitionSelector) renderLocked(ctx context.Context) error {
	markup, err := view.Render(ctx, view.CompetitionList(s.groups, s.expanded))
	if err != nil {
		return fmt.Errorf("render competition list: %w", err)
	}
	return s.doc.SetHTML(view.IDCompetitionList, markup)
}
