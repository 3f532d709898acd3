package service

import (
	"context"
	"fmt"
	"log"

	"caliper/internal/model"
	"caliper/internal/repository"
	"caliper/internal/scoring"
)

// InstrumentService loads the instrument once at startup and publishes it
// read-only for the lifetime of the process. The engine it constructs is
// the only scoring path; nothing mutates the instrument after Load.
type InstrumentService struct {
	repo   repository.InstrumentRepo
	inst   *model.Instrument
	engine *scoring.Engine
}

// NewInstrumentService creates a new instrument service
func NewInstrumentService(repo repository.InstrumentRepo) *InstrumentService {
	return &InstrumentService{repo: repo}
}

// Load fetches and validates the configured instrument. Any integrity
// problem (dangling question or dimension references, unordered bands) is
// a broken deployment: callers should treat an error here as fatal.
func (s *InstrumentService) Load(ctx context.Context, instrumentID string) error {
	inst, err := s.repo.GetByID(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("load instrument %s: %w", instrumentID, err)
	}
	if inst == nil {
		return fmt.Errorf("instrument %s not found", instrumentID)
	}

	engine, err := scoring.NewEngine(inst)
	if err != nil {
		return err
	}

	s.inst = inst
	s.engine = engine
	log.Printf("Loaded instrument %s (%s) with %d questions, %d rules",
		inst.ID, inst.Version, len(inst.Questions), len(inst.ConsistencyRules))
	return nil
}

// Instrument returns the loaded read-only instrument
func (s *InstrumentService) Instrument() *model.Instrument {
	return s.inst
}

// Engine returns the scoring engine built over the loaded instrument
func (s *InstrumentService) Engine() *scoring.Engine {
	return s.engine
}
