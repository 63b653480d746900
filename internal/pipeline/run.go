// Package pipeline sequences one trip-generation run: validate, cache
// lookup, generate, sanitize, repair, normalize, persist. An Orchestrator is
// scoped to a single request; concurrent runs share nothing but the
// document store.
package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"tripforge/internal/docstore"
	"tripforge/internal/genclient"
	"tripforge/internal/jsonrepair"
	"tripforge/internal/normalize"
	"tripforge/internal/prompt"
	"tripforge/internal/trip"
)

// parseRounds bounds how many times a parse failure re-drives the whole
// generation call. A fresh model call may produce cleanly-formed output.
const parseRounds = 2

// ImageResolver supplies a cover image URL for a new template. It is total;
// an implementation that always returns "" is valid.
type ImageResolver interface {
	Resolve(ctx context.Context, destination, category string) string
}

// Ports are the external collaborators a run drives.
type Ports struct {
	Store  docstore.Store
	Gen    *genclient.Client
	Images ImageResolver

	Now   func() time.Time
	NewID func() string
}

// Request is one trip-generation trigger.
type Request struct {
	UserID string
	Params trip.Parameters
}

// Result is the terminal outcome of a run. On persistence failure the
// computed itinerary is still populated so the caller can retry the write
// without paying for generation again.
type Result struct {
	Instance  trip.Instance
	Itinerary trip.Itinerary
	Failure   *Failure
}

// Orchestrator runs the pipeline for exactly one request. The one-shot
// guard is set before the first suspension point and reset only on failure,
// so a duplicate trigger while a run is in flight is a no-op and a retry
// after failure re-enters validation.
type Orchestrator struct {
	ports  Ports
	logger *log.Logger

	// OnEvent, when set, observes every state transition. Called from the
	// run's goroutine.
	OnEvent func(Event)

	running atomic.Bool
}

func New(ports Ports, logger *log.Logger) *Orchestrator {
	if ports.Now == nil {
		ports.Now = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{ports: ports, logger: logger}
}

// ErrAlreadyRunning reports a duplicate trigger while a run is in flight or
// after it completed successfully.
var ErrAlreadyRunning = errors.New("pipeline: run already triggered")

// Trigger starts the run if no run is in flight. Exactly one of the
// concurrent callers wins; the rest get ErrAlreadyRunning.
func (o *Orchestrator) Trigger(ctx context.Context, req Request) (Result, error) {
	if !o.running.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyRunning
	}
	res := o.run(ctx, req)
	if res.Failure != nil {
		// Reset the guard so a caller-initiated retry can re-enter. On
		// success the guard stays set: done is terminal per run.
		o.running.Store(false)
	}
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request) Result {
	o.emit(Event{State: StateValidating})

	if strings.TrimSpace(req.UserID) == "" {
		return o.fail(FailAuth, errors.New("missing user identity"))
	}
	if err := req.Params.Validate(); err != nil {
		return o.fail(FailValidation, err)
	}

	// Concert trips are personal (artist, date) and never shared, so the
	// template cache is bypassed entirely.
	if req.Params.Category != trip.CategoryConcert {
		o.emit(Event{State: StateCacheLookup})
		key := trip.Key(req.Params)
		tpl, err := o.ports.Store.GetTemplate(ctx, key)
		switch {
		case err == nil:
			return o.materialize(ctx, req, tpl)
		case errors.Is(err, docstore.ErrNotFound):
			// Cache miss, fall through to generation.
		default:
			o.logger.Printf("pipeline: cache lookup for %q failed, regenerating: %v", key, err)
		}
	}

	itin, failure := o.generate(ctx, req)
	if failure != nil {
		return o.failWith(failure)
	}
	return o.persist(ctx, req, itin)
}

// materialize writes a TripInstance referencing an existing template. No
// generation call is made on this path.
func (o *Orchestrator) materialize(ctx context.Context, req Request, tpl trip.Template) Result {
	o.emit(Event{State: StateMaterializing})

	inst := o.newInstance(req)
	inst.TemplateKey = tpl.Key
	if err := o.ports.Store.PutInstance(ctx, inst); err != nil {
		return o.failPersist(err, tpl.Itinerary)
	}
	return o.succeed(inst, tpl.Itinerary)
}

// generate drives the model call plus the sanitize/repair/normalize chain.
// A parse failure re-drives the whole chain with a fresh model call, up to
// parseRounds times.
func (o *Orchestrator) generate(ctx context.Context, req Request) (trip.Itinerary, *Failure) {
	promptText := prompt.Compile(prompt.ForCategory(req.Params.Category), req.Params)

	gen := *o.ports.Gen
	gen.OnAttempt = func(attempt int) {
		o.emit(Event{State: StateGenerating, Attempt: attempt})
	}

	var lastParseErr error
	for round := 1; round <= parseRounds; round++ {
		raw, err := gen.Generate(ctx, req.Params, promptText)
		if err != nil {
			var vErr *genclient.ValidationError
			if errors.As(err, &vErr) {
				return trip.Itinerary{}, newFailure(FailValidation, err)
			}
			var gErr *genclient.Error
			if errors.As(err, &gErr) && gErr.Transient {
				return trip.Itinerary{}, newFailure(FailGenerationTransient, err)
			}
			return trip.Itinerary{}, newFailure(FailGeneration, err)
		}

		o.emit(Event{State: StateSanitizing})
		cleaned := jsonrepair.Sanitize(raw)

		o.emit(Event{State: StateRepairing})
		repaired := jsonrepair.Repair(cleaned)
		doc, err := jsonrepair.Parse(repaired)
		if err != nil {
			lastParseErr = err
			o.logger.Printf("pipeline: parse failed on round %d, regenerating: %v", round, err)
			continue
		}

		o.emit(Event{State: StateNormalizing})
		itin, err := normalize.Itinerary(doc, req.Params.DurationDays)
		if err != nil {
			lastParseErr = err
			o.logger.Printf("pipeline: normalize failed on round %d, regenerating: %v", round, err)
			continue
		}
		return itin, nil
	}
	return trip.Itinerary{}, newFailure(FailParse, lastParseErr)
}

func (o *Orchestrator) persist(ctx context.Context, req Request, itin trip.Itinerary) Result {
	// The caller abandoned the run while generation was in flight. Discard
	// the result instead of persisting a partially-observed write.
	if ctx.Err() != nil {
		return o.fail(FailGeneration, ctx.Err())
	}

	o.emit(Event{State: StatePersisting})

	inst := o.newInstance(req)
	if req.Params.Category == trip.CategoryConcert {
		embedded := itin
		inst.Itinerary = &embedded
		if err := o.ports.Store.PutInstance(ctx, inst); err != nil {
			return o.failPersist(err, itin)
		}
		return o.succeed(inst, itin)
	}

	key := trip.Key(req.Params)
	tpl := trip.Template{
		Key:       key,
		Itinerary: itin,
		CreatedAt: o.ports.Now(),
	}
	if o.ports.Images != nil {
		tpl.ImageURL = o.ports.Images.Resolve(ctx, req.Params.Destination, string(req.Params.Category))
	}
	// Two concurrent misses for the same key may both write here. Last
	// write wins; the content is derived from the same parameters.
	if err := o.ports.Store.PutTemplate(ctx, tpl); err != nil {
		return o.failPersist(err, itin)
	}

	inst.TemplateKey = key
	if err := o.ports.Store.PutInstance(ctx, inst); err != nil {
		return o.failPersist(err, itin)
	}
	return o.succeed(inst, itin)
}

func (o *Orchestrator) newInstance(req Request) trip.Instance {
	id := ""
	if o.ports.NewID != nil {
		id = o.ports.NewID()
	}
	return trip.Instance{
		ID:           id,
		UserID:       req.UserID,
		Destination:  req.Params.Destination,
		Category:     req.Params.Category,
		StartDate:    req.Params.StartDate,
		EndDate:      req.Params.EndDate,
		TravelerType: req.Params.TravelerType,
		Budget:       req.Params.Budget,
		Active:       true,
		CreatedAt:    o.ports.Now(),
	}
}

func (o *Orchestrator) succeed(inst trip.Instance, itin trip.Itinerary) Result {
	o.emit(Event{State: StateDone, InstanceID: inst.ID})
	return Result{Instance: inst, Itinerary: itin}
}

func (o *Orchestrator) fail(kind FailureKind, err error) Result {
	return o.failWith(newFailure(kind, err))
}

// failPersist keeps the computed itinerary in the result so a retry can
// skip re-generation.
func (o *Orchestrator) failPersist(err error, itin trip.Itinerary) Result {
	f := newFailure(FailPersistence, err)
	o.emit(Event{State: StateFailed, Message: f.Message, Failure: f})
	return Result{Itinerary: itin, Failure: f}
}

func (o *Orchestrator) failWith(f *Failure) Result {
	o.emit(Event{State: StateFailed, Message: f.Message, Failure: f})
	return Result{Failure: f}
}

func (o *Orchestrator) emit(ev Event) {
	if o.OnEvent != nil {
		o.OnEvent(ev)
	}
}
