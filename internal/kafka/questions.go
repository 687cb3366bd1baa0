// Package kafka is the built-in example wizard: Kafka replica count and
// external access settings, with questions that only appear when earlier
// answers make them relevant.
package kafka

import (
	"fmt"
	"strconv"

	"wizard-cli/internal/wizard"
)

const (
	SectionName = "kafka"

	ReplicasName        = "replicas"
	ExternalAccessName  = "external_access"
	AutoDiscoveryName   = "auto_discovery"
	LoadBalancerIPsName = "lb_ips"

	// Version is pre-seeded into the section answers.
	Version = "0.1"
)

// Questions holds the kafka questions so callers can address them directly.
type Questions struct {
	Replicas        *wizard.Question
	ExternalAccess  *wizard.Question
	AutoDiscovery   *wizard.Question
	LoadBalancerIPs *wizard.Question
}

// All returns the questions in prompt order.
func (q *Questions) All() []*wizard.Question {
	return []*wizard.Question{q.Replicas, q.ExternalAccess, q.AutoDiscovery, q.LoadBalancerIPs}
}

// NewQuestions builds the kafka questions. workerNodes bounds the replica count.
func NewQuestions(workerNodes int) (*Questions, error) {
	replicas, err := wizard.NewText(ReplicasName,
		fmt.Sprintf("Enter number of kafka replicas to use between (1,%d)", workerNodes),
		wizard.WithDefault("3"),
		wizard.WithValidator(ReplicasValidator(workerNodes)),
	)
	if err != nil {
		return nil, err
	}

	external, err := wizard.NewConfirm(ExternalAccessName, "Expose kafka outside",
		wizard.WithDefault(false),
	)
	if err != nil {
		return nil, err
	}

	autoDiscovery, err := wizard.NewConfirm(AutoDiscoveryName,
		"Autodiscover Load Balancer IPs that expose kafka pods",
		wizard.DependsOn(external),
		wizard.WithDefaultFunc(func(r wizard.Resolver) (any, error) {
			exposed, err := wizard.ResolveBool(r, external)
			if err != nil {
				return nil, err
			}
			if !exposed {
				return false, nil
			}
			return nil, nil
		}),
		wizard.WithIgnoreFunc(func(r wizard.Resolver) (bool, error) {
			exposed, err := wizard.ResolveBool(r, external)
			if err != nil {
				return false, err
			}
			if !exposed {
				return true, nil
			}
			return r.UsesDefault()
		}),
	)
	if err != nil {
		return nil, err
	}

	lbIPs, err := wizard.NewText(LoadBalancerIPsName,
		"Comma separated Load Balancer IPs that expose kafka(e.g. <ip_1>,<ip_2>)",
		wizard.WithDefault(""),
		wizard.WithHiddenDefault(),
		wizard.DependsOn(external, autoDiscovery),
		wizard.WithIgnoreFunc(func(r wizard.Resolver) (bool, error) {
			exposed, err := wizard.ResolveBool(r, external)
			if err != nil || !exposed {
				return true, err
			}
			return wizard.ResolveBool(r, autoDiscovery)
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Questions{
		Replicas:        replicas,
		ExternalAccess:  external,
		AutoDiscovery:   autoDiscovery,
		LoadBalancerIPs: lbIPs,
	}, nil
}

// ReplicasValidator accepts a decimal string of digits only, between 0
// and workerNodes inclusive.
func ReplicasValidator(workerNodes int) wizard.Validator {
	return func(value any) bool {
		s, ok := value.(string)
		if !ok || !isDigits(s) {
			return false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return false
		}
		return 0 <= n && n <= workerNodes
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NewSection builds the kafka section, pre-seeded with the wizard version.
func NewSection(workerNodes int, opts ...wizard.SectionOption) (*wizard.Section, *Questions, error) {
	questions, err := NewQuestions(workerNodes)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka questions: %w", err)
	}

	opts = append([]wizard.SectionOption{wizard.WithAnswers(wizard.Answers{"version": Version})}, opts...)
	section, err := wizard.NewSection(SectionName, questions.All(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka section: %w", err)
	}
	return section, questions, nil
}

// NewConfig assembles the complete kafka wizard.
func NewConfig(workerNodes int, useDefaults bool) (*wizard.Config, *Questions, error) {
	section, questions, err := NewSection(workerNodes)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := wizard.NewConfig([]*wizard.Section{section}, wizard.WithUseDefaults(useDefaults))
	if err != nil {
		return nil, nil, fmt.Errorf("kafka config: %w", err)
	}
	return cfg, questions, nil
}
