package orchestrator

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/caredesk/healthchat/assistant/contract"
)

type fakeProvider struct {
	name    string
	enabled bool
	health  contractx.Health
	answer  contractx.Answer
	err     error
	panics  bool
	calls   int
}

func (f *fakeProvider) ProcessQuery(ctx context.Context, query contractx.Query) (contractx.Answer, error) {
	f.calls++
	if f.panics {
		panic("provider exploded")
	}
	if f.err != nil {
		return contractx.Answer{}, f.err
	}
	return f.answer, nil
}

func (f *fakeProvider) Name() string             { return f.name }
func (f *fakeProvider) Enabled() bool            { return f.enabled }
func (f *fakeProvider) Health() contractx.Health { return f.health }

func healthyProvider(name string, source contractx.Source) *fakeProvider {
	return &fakeProvider{
		name:    name,
		enabled: true,
		health:  contractx.HealthHealthy,
		answer:  contractx.NewAnswer("answer from "+name, source, nil),
	}
}

func query(text string) contractx.Query {
	return contractx.Query{Text: text}
}

func TestAnswerPrefersHighestPriority(t *testing.T) {
	remote := healthyProvider("remote", contractx.SourceRemote)
	local := healthyProvider("local", contractx.SourceRuleBased)

	orch, err := New(local,
		Entry{Provider: remote, Priority: 100},
		Entry{Provider: local, Priority: 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), query("how many patients"))
	if answer.Source != contractx.SourceRemote {
		t.Fatalf("source=%s, want remote", answer.Source)
	}
	if local.calls != 0 {
		t.Fatalf("local provider called %d times, want 0", local.calls)
	}
}

func TestAnswerRegistrationOrderBreaksTies(t *testing.T) {
	first := healthyProvider("first", contractx.SourceSystem)
	second := healthyProvider("second", contractx.SourceSystem)
	fallback := healthyProvider("fallback", contractx.SourceRuleBased)

	orch, err := New(fallback,
		Entry{Provider: first, Priority: 50},
		Entry{Provider: second, Priority: 50},
	)
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), query("hi"))
	if answer.Text != "answer from first" {
		t.Fatalf("got %q, want first provider's answer", answer.Text)
	}
}

func TestAnswerSkipsNonHealthyProviders(t *testing.T) {
	disabled := &fakeProvider{name: "disabled", health: contractx.HealthDisabled}
	unhealthy := &fakeProvider{name: "unhealthy", enabled: true, health: contractx.HealthUnhealthy}
	local := healthyProvider("local", contractx.SourceRuleBased)

	orch, err := New(local,
		Entry{Provider: disabled, Priority: 100},
		Entry{Provider: unhealthy, Priority: 50},
		Entry{Provider: local, Priority: 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), query("hello"))
	if answer.Source != contractx.SourceRuleBased {
		t.Fatalf("source=%s, want rules", answer.Source)
	}
	if disabled.calls != 0 || unhealthy.calls != 0 {
		t.Fatal("skipped providers must not be invoked")
	}
}

func TestAnswerFallsThroughOnProviderError(t *testing.T) {
	remote := &fakeProvider{
		name:    "remote",
		enabled: true,
		health:  contractx.HealthHealthy,
		err:     errors.New("network down"),
	}
	local := healthyProvider("local", contractx.SourceRuleBased)

	orch, err := New(local,
		Entry{Provider: remote, Priority: 100},
		Entry{Provider: local, Priority: 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), query("hello"))
	if answer.Source != contractx.SourceRuleBased {
		t.Fatalf("source=%s, want rules", answer.Source)
	}
	if answer.IsError() {
		t.Fatalf("fallback answer flagged as error: %s", answer.Error)
	}
}

func TestAnswerFallsThroughOnErrorAnswer(t *testing.T) {
	remote := &fakeProvider{
		name:    "remote",
		enabled: true,
		health:  contractx.HealthHealthy,
		answer:  contractx.ErrorAnswer("model refused"),
	}
	local := healthyProvider("local", contractx.SourceRuleBased)

	orch, err := New(local,
		Entry{Provider: remote, Priority: 100},
		Entry{Provider: local, Priority: 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), query("hello"))
	if answer.Source != contractx.SourceRuleBased {
		t.Fatalf("source=%s, want rules", answer.Source)
	}
}

func TestAnswerSurvivesPanickingProvider(t *testing.T) {
	remote := &fakeProvider{name: "remote", enabled: true, health: contractx.HealthHealthy, panics: true}
	local := healthyProvider("local", contractx.SourceRuleBased)

	orch, err := New(local,
		Entry{Provider: remote, Priority: 100},
		Entry{Provider: local, Priority: 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), query("hello"))
	if answer.Source != contractx.SourceRuleBased {
		t.Fatalf("source=%s, want rules", answer.Source)
	}
}

func TestAnswerInvokesFallbackUnconditionally(t *testing.T) {
	// The fallback itself is registered as unhealthy; the direct final
	// invocation must bypass that gate.
	local := healthyProvider("local", contractx.SourceRuleBased)
	local.health = contractx.HealthUnhealthy

	orch, err := New(local, Entry{Provider: local, Priority: 10})
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), query("hello"))
	if answer.Source != contractx.SourceRuleBased {
		t.Fatalf("source=%s, want rules", answer.Source)
	}
	if local.calls != 1 {
		t.Fatalf("fallback called %d times, want 1", local.calls)
	}
}

func TestAnswerPreservesSessionID(t *testing.T) {
	local := healthyProvider("local", contractx.SourceRuleBased)
	orch, err := New(local, Entry{Provider: local, Priority: 10})
	if err != nil {
		t.Fatal(err)
	}

	answer := orch.Answer(context.Background(), contractx.Query{Text: "hi", SessionID: "abc-123"})
	if answer.SessionID != "abc-123" {
		t.Fatalf("sessionId=%q, want abc-123", answer.SessionID)
	}
}

func TestStatusReportsAllRegisteredProviders(t *testing.T) {
	remote := &fakeProvider{name: "remote", health: contractx.HealthDisabled}
	local := healthyProvider("local", contractx.SourceRuleBased)

	orch, err := New(local,
		Entry{Provider: remote, Priority: 100},
		Entry{Provider: local, Priority: 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	status := orch.Status()
	if len(status) != 2 {
		t.Fatalf("status has %d entries, want 2", len(status))
	}
	if got := status["remote"].Health; got != "DISABLED" {
		t.Fatalf("remote health=%s, want DISABLED", got)
	}
	if !status["local"].Enabled {
		t.Fatal("local provider must report enabled")
	}

	// Health changes must be visible on the next call, not cached.
	remote.health = contractx.HealthHealthy
	if got := orch.Status()["remote"].Health; got != "HEALTHY" {
		t.Fatalf("remote health=%s after recovery, want HEALTHY", got)
	}
}

func TestNewRejectsNilProviders(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil fallback")
	}
	local := healthyProvider("local", contractx.SourceRuleBased)
	if _, err := New(local, Entry{Provider: nil, Priority: 1}); err == nil {
		t.Fatal("expected error for nil entry provider")
	}
}
