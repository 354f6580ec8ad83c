package orchestrator

import (
	"context"
	"fmt"
	"time"

	nodex "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/nodes"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/metrics"
)

type stepFunc func(ctx context.Context, in nodex.GraphState) (nodex.GraphState, error)

type step struct {
	name string
	run  stepFunc
}

// Step names, in execution order.
const (
	StepInput             = "input"
	StepMemoryRetrieve    = "memory_retrieve"
	StepProfileBuilder    = "profile_builder"
	StepLLMResponse       = "llm_response"
	StepSentimentAnalysis = "sentiment_analysis"
	StepMemoryStore       = "memory_store"
)

func (o *Orchestrator) buildPipeline() []step {
	return []step{
		{StepInput, func(ctx context.Context, in nodex.GraphState) (nodex.GraphState, error) {
			return nodex.Input(ctx, in, o.memory)
		}},
		{StepMemoryRetrieve, func(ctx context.Context, in nodex.GraphState) (nodex.GraphState, error) {
			return nodex.MemoryRetrieve(ctx, in, o.memory, o.retrievalLimit)
		}},
		{StepProfileBuilder, func(ctx context.Context, in nodex.GraphState) (nodex.GraphState, error) {
			return nodex.ProfileBuilder(ctx, in, o.profiles, o.extractor)
		}},
		{StepLLMResponse, func(ctx context.Context, in nodex.GraphState) (nodex.GraphState, error) {
			return nodex.LLMResponse(ctx, in, o.profiles, o.models.Response(), o.business)
		}},
		{StepSentimentAnalysis, func(ctx context.Context, in nodex.GraphState) (nodex.GraphState, error) {
			return nodex.SentimentAnalysis(ctx, in, o.profiles, o.models.Sentiment())
		}},
		{StepMemoryStore, func(ctx context.Context, in nodex.GraphState) (nodex.GraphState, error) {
			return nodex.MemoryStore(ctx, in, o.memory, o.profiles)
		}},
	}
}

// run executes every step in order and stops at the first error.
func (o *Orchestrator) run(ctx context.Context, st nodex.GraphState) (nodex.GraphState, error) {
	for _, s := range o.pipeline {
		started := time.Now()
		seen := len(st.Degraded)

		next, err := s.run(ctx, st)
		o.metrics.ObserveStep(s.name, time.Since(started))
		if err != nil {
			o.metrics.IncRun(metrics.StatusError)
			return st, fmt.Errorf("step %s: %w", s.name, err)
		}
		if len(next.Degraded) > seen {
			o.metrics.IncDegraded(next.Degraded[seen:]...)
		}
		st = next
	}
	o.metrics.IncRun(metrics.StatusOK)
	return st, nil
}
