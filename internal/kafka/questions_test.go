package kafka

import (
	"errors"
	"testing"

	"wizard-cli/internal/wizard"
)

func newKafka(t *testing.T, useDefaults bool) (*wizard.Config, *Questions) {
	t.Helper()
	cfg, questions, err := NewConfig(3, useDefaults)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	return cfg, questions
}

func answers(cfg *wizard.Config) wizard.Answers {
	s, _ := cfg.Section(SectionName)
	return s.Answers()
}

func TestLoadBalancerIPs_AskedWhenExposedWithoutDiscovery(t *testing.T) {
	cfg, q := newKafka(t, false)
	answers(cfg)[ExternalAccessName] = true
	answers(cfg)[AutoDiscoveryName] = false

	ignore, err := q.LoadBalancerIPs.Ignore()
	if err != nil {
		t.Fatalf("Ignore failed: %v", err)
	}
	if ignore {
		t.Error("lb_ips must be prompted when external access is on and auto-discovery is off")
	}
}

func TestNotExposed_SkipsDependents(t *testing.T) {
	cfg, q := newKafka(t, false)
	answers(cfg)[ExternalAccessName] = false

	autoIgnore, err := q.AutoDiscovery.Ignore()
	if err != nil || !autoIgnore {
		t.Errorf("auto_discovery.Ignore() = %v, %v; want true, nil", autoIgnore, err)
	}
	lbIgnore, err := q.LoadBalancerIPs.Ignore()
	if err != nil || !lbIgnore {
		t.Errorf("lb_ips.Ignore() = %v, %v; want true, nil", lbIgnore, err)
	}

	def, err := q.AutoDiscovery.Default()
	if err != nil || def != false {
		t.Errorf("auto_discovery.Default() = %v, %v; want false, nil", def, err)
	}
}

func TestExposed_AutoDiscoveryHasNoDefault(t *testing.T) {
	cfg, q := newKafka(t, true)
	answers(cfg)[ExternalAccessName] = true

	def, err := q.AutoDiscovery.Default()
	if err != nil || def != nil {
		t.Errorf("Default() = %v, %v; want nil, nil", def, err)
	}
	ignore, err := q.AutoDiscovery.Ignore()
	if err != nil || ignore {
		t.Errorf("Ignore() = %v, %v; want false even with use_defaults on", ignore, err)
	}
}

func TestDiscoveryOn_SkipsLoadBalancerIPs(t *testing.T) {
	cfg, q := newKafka(t, false)
	answers(cfg)[ExternalAccessName] = true
	answers(cfg)[AutoDiscoveryName] = true

	ignore, err := q.LoadBalancerIPs.Ignore()
	if err != nil || !ignore {
		t.Errorf("Ignore() = %v, %v; want true, nil", ignore, err)
	}
}

func TestDependentsBeforeDependency_MissingAnswer(t *testing.T) {
	_, q := newKafka(t, false)

	if _, err := q.AutoDiscovery.Ignore(); !errors.Is(err, wizard.ErrMissingAnswer) {
		t.Errorf("expected ErrMissingAnswer, got %v", err)
	}
}

func TestReplicas_StaticDefault(t *testing.T) {
	_, q := newKafka(t, true)
	ignore, err := q.Replicas.Ignore()
	if err != nil || !ignore {
		t.Errorf("replicas with default and use_defaults must be ignored, got %v, %v", ignore, err)
	}

	_, q = newKafka(t, false)
	ignore, err = q.Replicas.Ignore()
	if err != nil || ignore {
		t.Errorf("replicas must be asked without use_defaults, got %v, %v", ignore, err)
	}
}

// The replica validator enforces digit-only input; values such as "+2",
// "-1" or " 2" that strconv.Atoi would accept or a bare truthiness
// check would let through are rejected.
func TestReplicasValidator(t *testing.T) {
	validate := ReplicasValidator(3)

	tests := []struct {
		value any
		want  bool
	}{
		{"0", true},
		{"1", true},
		{"3", true},
		{"4", false},
		{"", false},
		{"abc", false},
		{"+2", false},
		{"-1", false},
		{" 2", false},
		{"2.0", false},
		{2, false},
	}

	for _, tt := range tests {
		if got := validate(tt.value); got != tt.want {
			t.Errorf("validate(%#v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestNewSection_PreseedsVersion(t *testing.T) {
	cfg, _ := newKafka(t, false)
	if answers(cfg)["version"] != Version {
		t.Errorf("version = %v, want %q", answers(cfg)["version"], Version)
	}
}
