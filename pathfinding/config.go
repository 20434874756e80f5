package pathfinding

import "log/slog"

// DefaultMaxIterations bounds the bidirectional search when no limit is set.
const DefaultMaxIterations = 999999

// Config holds the tunables shared by all strategies. It is JSON-decodable so
// hosts can keep search settings in a file next to their maps.
type Config struct {
	Heuristic HeuristicKind `json:"heuristic"`
	WeightOfG float64       `json:"weight_g"`
	WeightOfH float64       `json:"weight_h"`
	HScale    float64       `json:"h_scale"`

	// MaxIterations caps the combined Step count of a bidirectional search.
	MaxIterations int `json:"max_iterations"`
	// StrictCapacity aborts a search that would create more nodes than the
	// count passed to Initialize. Otherwise that count is only a sizing hint.
	StrictCapacity bool `json:"strict_capacity"`
	// MeetRule selects when the two bidirectional frontiers are considered
	// joined.
	MeetRule MeetRule `json:"meet_rule"`

	Logger   *slog.Logger `json:"-"`
	Observer Observer     `json:"-"`
}

// DefaultConfig returns plain A* settings: octile heuristic, unit weights.
func DefaultConfig() Config {
	return Config{
		Heuristic:     Octile,
		WeightOfG:     1,
		WeightOfH:     1,
		HScale:        1,
		MaxIterations: DefaultMaxIterations,
		MeetRule:      MeetOnTouched,
	}
}

func (c *Config) normalize() {
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Option configures a pathfinder built by New.
type Option func(*Config)

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(c Config) Option {
	return func(cfg *Config) {
		*cfg = c
	}
}

// WithHeuristic selects the heuristic.
func WithHeuristic(k HeuristicKind) Option {
	return func(cfg *Config) {
		cfg.Heuristic = k
	}
}

// WithWeights sets the g and h weights of f = wg·g + wh·h.
func WithWeights(wg, wh float64) Option {
	return func(cfg *Config) {
		cfg.WeightOfG = wg
		cfg.WeightOfH = wh
	}
}

// WithHScale scales the raw heuristic value before it is weighted.
func WithHScale(s float64) Option {
	return func(cfg *Config) {
		cfg.HScale = s
	}
}

// WithObserver installs an observer at construction time.
func WithObserver(o Observer) Option {
	return func(cfg *Config) {
		cfg.Observer = o
	}
}

// WithLogger routes the pathfinder's diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// WithStrictCapacity makes the node budget passed to Initialize a hard limit.
func WithStrictCapacity(strict bool) Option {
	return func(cfg *Config) {
		cfg.StrictCapacity = strict
	}
}

// WithMaxIterations sets the bidirectional Step ceiling.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		cfg.MaxIterations = n
	}
}

// WithMeetRule selects the bidirectional meeting test.
func WithMeetRule(r MeetRule) Option {
	return func(cfg *Config) {
		cfg.MeetRule = r
	}
}
