package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type appService struct {
	source      RecordSource
	log         *logrus.Logger
	newShuffler func() core.Shuffler
}

// Option configures an appService.
type Option func(*appService)

// WithShuffler overrides the random source used to sample the first page of
// suggestions. Each dashboard gets its own generator from fn.
func WithShuffler(fn func() core.Shuffler) Option {
	return func(s *appService) { s.newShuffler = fn }
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(source RecordSource, log *logrus.Logger, opts ...Option) ApplicationService {
	s := &appService{
		source: source,
		log:    log,
		newShuffler: func() core.Shuffler {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenDashboard returns an empty dashboard bound to store.
func (s *appService) OpenDashboard(store SearchStore) *Dashboard {
	return newDashboard(s, store)
}

// FetchRecords performs one fetch from the configured source.
func (s *appService) FetchRecords(ctx context.Context) ([]core.RawRecord, error) {
	start := time.Now()
	records, err := s.source.Fetch(ctx)
	if err != nil {
		s.log.WithError(err).WithField("source", s.source.Name()).Error("record fetch failed")
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"source":   s.source.Name(),
		"records":  len(records),
		"duration": time.Since(start).String(),
	}).Info("records fetched")
	return records, nil
}

// Verify fetches and merges the records without touching any dashboard.
func (s *appService) Verify(ctx context.Context) (*VerifyResult, error) {
	raw, err := s.FetchRecords(ctx)
	if err != nil {
		return nil, err
	}
	merged := core.Merge(raw)
	records := merged.Records()

	res := &VerifyResult{
		Source:    s.source.Name(),
		RawCount:  len(raw),
		Merged:    merged.Len(),
		Malformed: merged.Malformed(),
		ByState:   make(map[string]int),
		Orders:    len(core.AggregateByOrder(records)),
		FetchedAt: time.Now().UTC(),
	}
	for _, m := range records {
		res.ByState[m.Status().String()]++
		if m.SRID == "" || m.CONo == "" {
			res.MissingKey++
		}
		res.Quantity = res.Quantity.Add(m.QtySold)
		res.Amount = res.Amount.Add(m.Amount)
	}
	return res, nil
}

// SourceName describes the configured source.
func (s *appService) SourceName() string { return s.source.Name() }

// Schemas reflects JSON schemas for the raw record and the view model.
func (s *appService) Schemas() (*SchemaResult, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(decimal.Decimal{}) {
				return &jsonschema.Schema{Type: "string", Description: "decimal number"}
			}
			return nil
		},
	}
	record := reflector.Reflect(&core.RawRecord{})
	view := reflector.Reflect(&ViewModel{})
	if record == nil || view == nil {
		return nil, fmt.Errorf("schema reflection produced no output")
	}
	return &SchemaResult{Record: record, View: view}, nil
}
