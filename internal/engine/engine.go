package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/queryir"
	"github.com/roach88/atomstore/internal/querymatch"
	"github.com/roach88/atomstore/internal/schema"
	"github.com/roach88/atomstore/internal/store"
)

// DefaultVehicleMarker is the text that marks the first rule line of the
// vehicles file.
const DefaultVehicleMarker = "(= (vehicle-rule"

// Domain names one backing store.
type Domain string

const (
	DomainVehicles     Domain = "vehicles"
	DomainTransactions Domain = "transactions"
	DomainLocations    Domain = "locations"
)

// Domains lists every domain in a stable order.
var Domains = []Domain{DomainVehicles, DomainTransactions, DomainLocations}

// ParseDomain converts a name to a Domain.
func ParseDomain(name string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q (want vehicles, transactions or locations)", name)
}

// Outcome classifies the result of an operation for logs and metrics.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeValidation Outcome = "validation"
	OutcomeError      Outcome = "error"
)

// RequestIDGenerator generates ids for request correlation in logs.
// Implemented by UUIDv7Generator (production), FixedGenerator and
// SequenceGenerator (tests).
type RequestIDGenerator interface {
	Generate() string
}

// Observer receives one call per completed operation.
// Implemented by metrics.Metrics.
type Observer interface {
	Operation(op string, outcome Outcome, elapsed time.Duration)
}

// Stores holds the backing store of each domain.
type Stores struct {
	Vehicles     *store.Store
	Transactions *store.Store
	Locations    *store.Store
}

// Engine performs queries and domain operations. It holds no record state;
// every call re-reads the stores. Safe for concurrent use.
type Engine struct {
	stores   Stores
	schemas  *schema.Set
	marker   string
	ids      RequestIDGenerator
	logger   *slog.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithSchemas replaces the built-in schema set.
func WithSchemas(set *schema.Set) Option {
	return func(e *Engine) {
		e.schemas = set
	}
}

// WithVehicleMarker sets the marker used by RegisterVehicle.
// Default: DefaultVehicleMarker.
func WithVehicleMarker(marker string) Option {
	return func(e *Engine) {
		e.marker = marker
	}
}

// WithRequestIDs sets the request id generator. Default: UUIDv7Generator.
func WithRequestIDs(gen RequestIDGenerator) Option {
	return func(e *Engine) {
		e.ids = gen
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver installs an Observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// New creates an Engine over stores.
//
// Every store must be set. The schema set must contain the schemas the
// operations project with (see schema.Builtin).
func New(stores Stores, opts ...Option) (*Engine, error) {
	if stores.Vehicles == nil || stores.Transactions == nil || stores.Locations == nil {
		return nil, errors.New("engine: every domain store must be set")
	}

	e := &Engine{
		stores: stores,
		marker: DefaultVehicleMarker,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.marker == "" {
		return nil, fmt.Errorf("engine: %w", store.ErrEmptyMarker)
	}

	if e.schemas == nil {
		set, err := schema.Builtin()
		if err != nil {
			return nil, fmt.Errorf("engine: built-in schemas: %w", err)
		}
		e.schemas = set
	}
	if err := e.schemas.Require(
		schema.VehicleRegistration,
		schema.VehiclePairs,
		schema.Transaction,
		schema.LocationDetail,
	); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return e, nil
}

// Schemas returns the active schema set.
func (e *Engine) Schemas() *schema.Set {
	return e.schemas
}

// Store returns the backing store of d.
func (e *Engine) Store(d Domain) (*store.Store, error) {
	switch d {
	case DomainVehicles:
		return e.stores.Vehicles, nil
	case DomainTransactions:
		return e.stores.Transactions, nil
	case DomainLocations:
		return e.stores.Locations, nil
	}
	return nil, fmt.Errorf("unknown domain %q", d)
}

// QueryByKey returns the first record of d whose leading atom is key.
// A missing record is (nil, false, nil).
func (e *Engine) QueryByKey(ctx context.Context, d Domain, key string) (atom.List, bool, error) {
	c := e.begin("query_by_key", "domain", d, "key", key)

	s, err := e.Store(d)
	if err != nil {
		return nil, false, c.end(err)
	}
	m, err := querymatch.Compile(queryir.Key(key))
	if err != nil {
		return nil, false, c.end(&ValidationError{Fields: []string{"key"}, Message: err.Error()})
	}

	rec, ok, err := s.FindFirst(ctx, store.Predicate(m))
	if err != nil {
		return nil, false, c.end(err)
	}
	c.found(ok)
	return rec, ok, nil
}

// QueryAllMatching returns every record of d matching p, in file order.
// An invalid predicate is a *ValidationError.
func (e *Engine) QueryAllMatching(ctx context.Context, d Domain, p queryir.Predicate) ([]atom.List, error) {
	c := e.begin("query_all_matching", "domain", d)

	s, err := e.Store(d)
	if err != nil {
		return nil, c.end(err)
	}
	m, err := querymatch.Compile(p)
	if err != nil {
		return nil, c.end(&ValidationError{Fields: []string{"predicate"}, Message: err.Error()})
	}

	recs, err := s.FindAll(ctx, store.Predicate(m))
	if err != nil {
		return nil, c.end(err)
	}
	if recs == nil {
		recs = []atom.List{}
	}
	c.found(len(recs) > 0)
	return recs, nil
}

// WriteResult describes a record written by an operation.
type WriteResult struct {
	// Record is the serialized line as written.
	Record string `json:"record"`

	// RecordID is atom.RecordID of the record.
	RecordID string `json:"record_id"`
}

func newWriteResult(rec atom.List) WriteResult {
	return WriteResult{
		Record:   atom.Serialize(rec),
		RecordID: atom.RecordID(rec),
	}
}

// call tracks one operation for logging and observation.
type call struct {
	e     *Engine
	op    string
	log   *slog.Logger
	start time.Time
	done  bool
}

func (e *Engine) begin(op string, attrs ...any) *call {
	log := e.logger.With("request_id", e.ids.Generate(), "op", op)
	log.Debug("operation started", attrs...)
	return &call{e: e, op: op, log: log, start: time.Now()}
}

// found finishes a successful call, recording not-found when ok is false.
func (c *call) found(ok bool) {
	if ok {
		c.finish(OutcomeOK, nil)
	} else {
		c.finish(OutcomeNotFound, nil)
	}
}

// end finishes a call. A nil err is success; the error is returned unchanged.
func (c *call) end(err error) error {
	switch {
	case err == nil:
		c.finish(OutcomeOK, nil)
	case IsValidation(err):
		c.finish(OutcomeValidation, err)
	default:
		c.finish(OutcomeError, err)
	}
	return err
}

func (c *call) finish(outcome Outcome, err error) {
	if c.done {
		return
	}
	c.done = true
	elapsed := time.Since(c.start)

	switch outcome {
	case OutcomeError:
		c.log.Error("operation failed", "outcome", outcome, "elapsed", elapsed, "error", err)
	case OutcomeValidation:
		c.log.Info("operation rejected", "outcome", outcome, "error", err)
	default:
		c.log.Info("operation completed", "outcome", outcome, "elapsed", elapsed)
	}

	if c.e.observer != nil {
		c.e.observer.Operation(c.op, outcome, elapsed)
	}
}
