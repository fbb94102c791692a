package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	contractx "github.com/caredesk/healthchat/assistant/contract"
)

const fallbackApology = "I apologize, but an unexpected error occurred. Please try again later."

// Entry registers a provider with an explicit priority. Higher priorities are
// attempted first; ties keep registration order.
type Entry struct {
	Provider contractx.Provider
	Priority int
}

// Orchestrator routes each query through the registered providers in priority
// order and guarantees an answer by invoking the fallback unconditionally
// when every prioritized attempt fails.
type Orchestrator struct {
	entries  []Entry
	fallback contractx.Provider
}

func New(fallback contractx.Provider, entries ...Entry) (*Orchestrator, error) {
	if fallback == nil {
		return nil, errors.New("fallback provider is required")
	}
	for _, e := range entries {
		if e.Provider == nil {
			return nil, errors.New("registered provider is nil")
		}
	}

	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	return &Orchestrator{entries: sorted, fallback: fallback}, nil
}

// Answer never fails: provider errors and panics are absorbed, and the
// fallback provider is consulted directly when the prioritized chain yields
// no success.
func (o *Orchestrator) Answer(ctx context.Context, query contractx.Query) (answer contractx.Answer) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("orchestrator recovered")
			answer = contractx.ErrorAnswer(fallbackApology)
			answer.SessionID = query.SessionID
		}
	}()

	log.Info().Str("query", query.Text).Msg("processing chat query")

	for _, entry := range o.entries {
		provider := entry.Provider
		if provider.Health() != contractx.HealthHealthy {
			log.Debug().
				Str("provider", provider.Name()).
				Bool("enabled", provider.Enabled()).
				Stringer("health", provider.Health()).
				Msg("skipping provider")
			continue
		}

		result, err := o.attempt(ctx, provider, query)
		if err != nil {
			log.Warn().Err(err).Str("provider", provider.Name()).Msg("provider failed")
			continue
		}
		if result.IsError() {
			log.Warn().Str("provider", provider.Name()).Str("error", result.Error).Msg("provider returned error answer")
			continue
		}

		log.Info().Str("provider", provider.Name()).Msg("query answered")
		result.SessionID = query.SessionID
		return result
	}

	// The fallback is invoked directly, bypassing its health gate, so an
	// answer is always produced.
	log.Info().Str("provider", o.fallback.Name()).Msg("using fallback provider")
	result, err := o.attempt(ctx, o.fallback, query)
	if err != nil {
		result = contractx.ErrorAnswer(fallbackApology)
	}
	result.SessionID = query.SessionID
	return result
}

// attempt shields the orchestrator from panicking providers.
func (o *Orchestrator) attempt(ctx context.Context, provider contractx.Provider, query contractx.Query) (answer contractx.Answer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider %s panicked: %v", provider.Name(), r)
		}
	}()
	return provider.ProcessQuery(ctx, query)
}

// Status reports per-provider enablement and health, computed fresh on each
// call.
func (o *Orchestrator) Status() map[string]contractx.ProviderStatus {
	status := make(map[string]contractx.ProviderStatus, len(o.entries))
	for _, entry := range o.entries {
		p := entry.Provider
		status[p.Name()] = contractx.ProviderStatus{
			Name:    p.Name(),
			Enabled: p.Enabled(),
			Health:  p.Health().String(),
		}
	}
	return status
}
