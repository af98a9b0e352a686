package browser

import "time"

const (
	DefaultExplicitWait = 10 * time.Second
	DefaultImplicitWait = 10 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// WaitPolicy bounds how long a session waits for the page.
type WaitPolicy struct {
	// Explicit is the budget of a single explicit wait such as WaitVisible.
	Explicit time.Duration `yaml:"explicit"`
	// Implicit is applied to the driver and governs every element lookup.
	Implicit time.Duration `yaml:"implicit"`
	// PollInterval is how often an explicit wait re-checks its condition.
	PollInterval time.Duration `yaml:"poll-interval"`
}

func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		Explicit:     DefaultExplicitWait,
		Implicit:     DefaultImplicitWait,
		PollInterval: DefaultPollInterval,
	}
}

func (p WaitPolicy) withDefaults() WaitPolicy {
	if p.Explicit <= 0 {
		p.Explicit = DefaultExplicitWait
	}
	if p.Implicit < 0 {
		p.Implicit = 0
	}
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	if p.PollInterval > p.Explicit {
		p.PollInterval = p.Explicit
	}
	return p
}
