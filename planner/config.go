package planner

// Config carries the engine's tunables. The budget floor and retry count are
// deliberate design constants with config-knob overrides, not hardcoded
// literals.
type Config struct {
	// UtilizationFloor is the minimum acceptable ratio of planned spend to
	// stated budget. Plans below it get a warning, never a rejection.
	UtilizationFloor float64

	// RegenerationAttempts is how many times a schema failure retries through
	// the mock planner before surfacing.
	RegenerationAttempts int

	// Temperature for collaborator calls. Negative means provider default.
	Temperature float64

	// MaxTokens limits collaborator responses. 0 means provider default.
	MaxTokens int
}

// DefaultConfig returns the engine defaults: 70% floor, exactly one
// regeneration attempt.
func DefaultConfig() Config {
	return Config{
		UtilizationFloor:     0.70,
		RegenerationAttempts: 1,
		Temperature:          0.2,
		MaxTokens:            4000,
	}
}

// temperature returns the pointer form collaborator requests expect.
func (c Config) temperature() *float64 {
	if c.Temperature < 0 {
		return nil
	}
	t := c.Temperature
	return &t
}
