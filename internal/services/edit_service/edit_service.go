package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/lib/logger/sl"
)

type Section string

const (
	SectionTimings    Section = "timings"
	SectionPrices     Section = "prices"
	SectionFacilities Section = "facilities"
	SectionGallery    Section = "gallery"
)

type Phase string

const (
	PhaseViewing Phase = "viewing"
	PhaseEditing Phase = "editing"
	PhaseSaving  Phase = "saving"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrNotEditing     = errors.New("section is not being edited")
	ErrAlreadyEditing = errors.New("section is already being edited")
	ErrSaveInFlight   = errors.New("save already in progress")
	ErrNoCommitted    = errors.New("no committed state to edit")
)

// SettingsState is the committed state the editor drafts against.
type SettingsState interface {
	Settings() *models.ParkSettings
	UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.ParkSettings, error)
}

// EditService runs the per-section edit sessions of the admin panel. Each
// section moves viewing -> editing -> saving independently; a draft never
// touches the committed state until its Save succeeds.
type EditService struct {
	log   *slog.Logger
	state SettingsState

	mu       sync.Mutex
	sections map[Section]*sectionState
}

type sectionState struct {
	phase Phase
	draft models.SettingsUpdate
}

func NewEditService(log *slog.Logger, state SettingsState) *EditService {
	return &EditService{
		log:   log,
		state: state,
		sections: map[Section]*sectionState{
			SectionTimings:    {phase: PhaseViewing},
			SectionPrices:     {phase: PhaseViewing},
			SectionFacilities: {phase: PhaseViewing},
			SectionGallery:    {phase: PhaseViewing},
		},
	}
}

// Phase returns the current phase of the section.
func (s *EditService) Phase(section Section) (Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sections[section]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}

	return st.phase, nil
}

// Draft returns the section's draft while it is being edited.
func (s *EditService) Draft(section Section) (models.SettingsUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sections[section]
	if !ok {
		return models.SettingsUpdate{}, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	if st.phase == PhaseViewing {
		return models.SettingsUpdate{}, fmt.Errorf("%w: %s", ErrNotEditing, section)
	}

	return st.draft, nil
}

// StartEdit opens an edit session on the section, seeding the draft from
// the committed state so untouched fields save back unchanged.
func (s *EditService) StartEdit(section Section) error {
	const op = "service.EditService.StartEdit"

	committed := s.state.Settings()
	if committed == nil && section != SectionGallery {
		return fmt.Errorf("%s: %w", op, ErrNoCommitted)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sections[section]
	if !ok {
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownSection, section)
	}
	if st.phase != PhaseViewing {
		return fmt.Errorf("%s: %w: %s", op, ErrAlreadyEditing, section)
	}

	st.phase = PhaseEditing
	st.draft = seedDraft(section, committed)

	return nil
}

// SetDraft replaces the section's draft. Fields outside the section are
// rejected so one session can never leak writes into another section.
func (s *EditService) SetDraft(section Section, upd models.SettingsUpdate) error {
	const op = "service.EditService.SetDraft"

	if err := checkSectionFields(section, upd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sections[section]
	if !ok {
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownSection, section)
	}
	if st.phase != PhaseEditing {
		return fmt.Errorf("%s: %w: %s", op, ErrNotEditing, section)
	}

	st.draft = upd

	return nil
}

// Cancel discards the draft and returns the section to viewing. The
// committed state is untouched.
func (s *EditService) Cancel(section Section) error {
	const op = "service.EditService.Cancel"

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sections[section]
	if !ok {
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownSection, section)
	}
	if st.phase == PhaseSaving {
		return fmt.Errorf("%s: %w: %s", op, ErrSaveInFlight, section)
	}

	st.phase = PhaseViewing
	st.draft = models.SettingsUpdate{}

	return nil
}

// Save commits the section's draft. On failure the draft and the editing
// phase survive so the admin can retry or cancel; a save already in flight
// rejects a second one instead of queueing it.
func (s *EditService) Save(ctx context.Context, section Section) (*models.ParkSettings, error) {
	const op = "service.EditService.Save"
	log := s.log.With(
		slog.String("op", op),
		slog.String("section", string(section)),
	)

	s.mu.Lock()
	st, ok := s.sections[section]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnknownSection, section)
	}
	switch st.phase {
	case PhaseSaving:
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w: %s", op, ErrSaveInFlight, section)
	case PhaseViewing:
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w: %s", op, ErrNotEditing, section)
	}
	st.phase = PhaseSaving
	draft := st.draft
	s.mu.Unlock()

	// The gallery session has no settings payload, its edits were applied
	// item by item. Saving just closes the session.
	if section == SectionGallery {
		s.finish(section, true)
		return nil, nil
	}

	updated, err := s.state.UpdateSettings(ctx, draft)
	if err != nil {
		s.finish(section, false)
		log.Error("failed to save section", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.finish(section, true)
	log.Info("section saved")

	return updated, nil
}

// ResetAll drops every draft and returns all sections to viewing. Used
// when the admin session ends.
func (s *EditService) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.sections {
		st.phase = PhaseViewing
		st.draft = models.SettingsUpdate{}
	}
}

func (s *EditService) finish(section Section, saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sections[section]
	if saved {
		st.phase = PhaseViewing
		st.draft = models.SettingsUpdate{}
	} else {
		st.phase = PhaseEditing
	}
}

func seedDraft(section Section, committed *models.ParkSettings) models.SettingsUpdate {
	var draft models.SettingsUpdate

	switch section {
	case SectionTimings:
		timings := committed.Timings
		draft.Timings = &timings
	case SectionPrices:
		prices := committed.Prices
		draft.Prices = &prices
	case SectionFacilities:
		facilities := committed.Facilities
		draft.Facilities = &facilities
	}

	return draft
}

func checkSectionFields(section Section, upd models.SettingsUpdate) error {
	allowed := map[Section]bool{
		SectionTimings:    upd.Prices == nil && upd.Facilities == nil,
		SectionPrices:     upd.Timings == nil && upd.Facilities == nil,
		SectionFacilities: upd.Timings == nil && upd.Prices == nil,
		SectionGallery:    upd.IsZero(),
	}

	ok, known := allowed[section]
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	if !ok {
		return fmt.Errorf("update carries fields outside section %s", section)
	}

	return nil
}
