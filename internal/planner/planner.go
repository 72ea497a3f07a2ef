package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ai-travel-planner/internal/candidate"
	"ai-travel-planner/internal/llm"
	"ai-travel-planner/internal/shared"
	"ai-travel-planner/internal/trip"
)

// AgentName labels the itinerary generation step in usage metadata.
const AgentName = "Itinerary"

// CandidateSource gathers the candidate pools for a request.
type CandidateSource interface {
	Aggregate(ctx context.Context, req trip.Request) candidate.Pools
}

// Settings tunes the pipeline.
type Settings struct {
	GenerationTimeout time.Duration
	// Debug logs the compiled prompt and the raw model response.
	Debug bool
}

// Planner runs the itinerary pipeline: aggregate, prompt, generate, extract, reconcile.
type Planner struct {
	candidates CandidateSource
	textGen    llm.TextGenerator
	settings   Settings
}

// NewPlanner creates a new Planner instance.
func NewPlanner(candidates CandidateSource, textGen llm.TextGenerator, settings Settings) *Planner {
	return &Planner{
		candidates: candidates,
		textGen:    textGen,
		settings:   settings,
	}
}

// Plan builds a complete itinerary for req.
// It only fails on an invalid request or when ctx is done; search and generation
// failures degrade to fallback content.
func (p *Planner) Plan(ctx context.Context, req trip.Request) (*Itinerary, []shared.AgentMeta, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	pools := p.candidates.Aggregate(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	log.Printf("[planner] %s: %d flights, %d lodging, %d points of interest",
		req.Destination, len(pools.Flights), len(pools.Lodging), len(pools.PointsOfInterest))

	genReq, err := CompilePrompt(req, pools)
	if err != nil {
		return nil, nil, err
	}

	payload, meta := p.generate(ctx, genReq)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	it := Reconcile(payload, req, pools)
	if got := len(payload.Days); got != genReq.RequiredDays {
		log.Printf("[planner] generated %d of %d days for %s", got, genReq.RequiredDays, req.Destination)
	}

	return it, []shared.AgentMeta{meta}, nil
}

func (p *Planner) generate(ctx context.Context, genReq GenerationRequest) (Payload, shared.AgentMeta) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: AgentName}

	if p.settings.Debug {
		log.Printf("[planner] prompt:\n%s", genReq.Prompt)
	}

	genCtx := ctx
	if p.settings.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, p.settings.GenerationTimeout)
		defer cancel()
	}

	resp, err := p.textGen.GenerateContent(genCtx, genReq.Prompt)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("generation timed out after %s: %w", p.settings.GenerationTimeout, err)
		}
		log.Printf("[planner] generation failed, using fallback plan: %v", err)
		meta.Fallback = true
		return FallbackPayload(), meta
	}

	if p.settings.Debug {
		log.Printf("[planner] raw response:\n%s", resp.Content)
	}

	payload := Extract(resp.Content)
	if payload.Fallback {
		log.Printf("[planner] could not extract a plan from the response, using fallback plan")
		meta.Fallback = true
	}
	return payload, meta
}
