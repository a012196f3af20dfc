package backoff

import (
	"context"
	"iter"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/lib-backoff/backoff/log"
)

// DefaultMultiplier is the slot-window growth base applied when
// Config.Multiplier is zero.
const DefaultMultiplier = 2.0

// Config holds the fixed parameters of a Sequence. Zero values mean
// "use the default" where a default is documented; SlotDuration and
// MaxIterations are always required.
type Config struct {
	// SlotDuration is the fixed unit multiplied by the sampled slot number.
	// Required; must be positive.
	SlotDuration time.Duration

	// MaxIterations is the number of waits produced per cycle before the
	// sequence exhausts. Required; must be positive.
	MaxIterations int

	// Multiplier is the base of the exponential slot-window growth. Zero
	// means DefaultMultiplier (2.0); values below 1.0 are rejected.
	Multiplier float64

	// MaxSlots caps the slot window at any iteration. Zero means unbounded
	// growth.
	MaxSlots int64

	// MaxWait clamps every returned wait. Zero means unclamped.
	MaxWait time.Duration

	// Debug enables a diagnostic trace record per step, emitted through
	// Logger at debug level.
	Debug bool

	// Logger receives debug traces. Nil means a no-op logger.
	Logger log.Logger

	// Sampler draws the slot number each step. Nil means the crypto/rand
	// default from NewCryptoSampler.
	Sampler Sampler
}

// DefaultConfig returns a Config with the default multiplier and no caps.
func DefaultConfig(slot time.Duration, iterations int) Config {
	return Config{
		SlotDuration:  slot,
		MaxIterations: iterations,
		Multiplier:    DefaultMultiplier,
	}
}

// Sequence is a resettable, finite generator of retry wait durations.
//
// At iteration i (1-based) the slot window is floor(Multiplier^i)-1 slots,
// optionally capped by MaxSlots; the wait is a uniformly sampled slot number
// times SlotDuration, optionally clamped by MaxWait. Exactly MaxIterations
// waits are produced per cycle, then the sequence is exhausted until Reset.
//
// Not safe for concurrent use; give each logical retry stream its own
// instance.
type Sequence struct {
	slotDuration  time.Duration
	maxIterations int
	multiplier    float64
	maxSlots      int64
	maxWait       time.Duration
	debug         bool
	logger        log.Logger
	sampler       Sampler

	id      string
	counter int
}

// New validates cfg and returns a fresh Sequence. It returns a
// *ConfigurationError (wrapping ErrInvalidConfiguration) when a field is
// out of range.
func New(cfg Config) (*Sequence, error) {
	if cfg.SlotDuration <= 0 {
		return nil, &ConfigurationError{Field: "SlotDuration", Message: "must be positive"}
	}

	if cfg.MaxIterations <= 0 {
		return nil, &ConfigurationError{Field: "MaxIterations", Message: "must be positive"}
	}

	multiplier := cfg.Multiplier
	if multiplier == 0 {
		multiplier = DefaultMultiplier
	}

	if multiplier < 1.0 {
		return nil, &ConfigurationError{Field: "Multiplier", Message: "must be at least 1.0"}
	}

	if cfg.MaxSlots < 0 {
		return nil, &ConfigurationError{Field: "MaxSlots", Message: "must not be negative"}
	}

	if cfg.MaxWait < 0 {
		return nil, &ConfigurationError{Field: "MaxWait", Message: "must not be negative"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	sampler := cfg.Sampler
	if sampler == nil {
		sampler = NewCryptoSampler()
	}

	return &Sequence{
		slotDuration:  cfg.SlotDuration,
		maxIterations: cfg.MaxIterations,
		multiplier:    multiplier,
		maxSlots:      cfg.MaxSlots,
		maxWait:       cfg.MaxWait,
		debug:         cfg.Debug,
		logger:        logger,
		sampler:       sampler,
		id:            uuid.NewString(),
	}, nil
}

// Next advances the sequence by one step and returns the next wait.
// The second result is false once the sequence is exhausted; further calls
// without an intervening Reset keep returning (0, false).
func (s *Sequence) Next() (time.Duration, bool) {
	if s.counter >= s.maxIterations {
		return 0, false
	}

	iteration := s.counter + 1
	available := s.availableSlots(iteration)
	sample := s.sampler.Sample(available)
	rawWait := slotsToWait(sample, s.slotDuration)

	wait := rawWait
	if s.maxWait > 0 && wait > s.maxWait {
		wait = s.maxWait
	}

	if s.debug {
		s.trace(iteration, available, sample, rawWait, wait)
	}

	s.counter = iteration

	return wait, true
}

// Reset starts a fresh cycle. It only clears the iteration counter;
// configuration is untouched. Idempotent.
func (s *Sequence) Reset() {
	s.counter = 0
}

// Counter reports the number of completed steps in the current cycle,
// from 0 (never stepped) up to MaxIterations (exhausted).
func (s *Sequence) Counter() int {
	return s.counter
}

// Exhausted reports whether the current cycle has produced all its values.
func (s *Sequence) Exhausted() bool {
	return s.counter >= s.maxIterations
}

// All returns an iterator over the remaining waits of the current cycle.
// Ranging over it steps the sequence until exhaustion, then ends cleanly.
// It is safe to range again after Reset.
func (s *Sequence) All() iter.Seq[time.Duration] {
	return func(yield func(time.Duration) bool) {
		for {
			wait, ok := s.Next()
			if !ok {
				return
			}

			if !yield(wait) {
				return
			}
		}
	}
}

// availableSlots returns the inclusive sampling bound for the given
// 1-based iteration.
func (s *Sequence) availableSlots(iteration int) int64 {
	raw := rawSlots(s.multiplier, iteration)
	if s.maxSlots > 0 && raw > s.maxSlots {
		raw = s.maxSlots
	}

	return raw
}

// rawSlots computes floor(multiplier^iteration) - 1, clamping to
// math.MaxInt64 instead of overflowing for large iterations. The result is
// never negative for multiplier >= 1.0 and iteration >= 1.
func rawSlots(multiplier float64, iteration int) int64 {
	window := math.Floor(math.Pow(multiplier, float64(iteration)))
	if window >= float64(math.MaxInt64) {
		return math.MaxInt64
	}

	return int64(window) - 1
}

// slotsToWait multiplies the sampled slot number by the slot duration with
// overflow protection.
func slotsToWait(slots int64, slot time.Duration) time.Duration {
	if slots <= 0 {
		return 0
	}

	if int64(slot) > math.MaxInt64/slots {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(slots * int64(slot))
}

func (s *Sequence) trace(iteration int, available, sample int64, rawWait, wait time.Duration) {
	s.logger.Log(context.Background(), log.LevelDebug, "backoff step",
		log.String("sequence_id", s.id),
		log.Int("iteration", iteration),
		log.Int64("available_slots", available),
		log.Int64("sample", sample),
		log.Duration("raw_wait", rawWait),
		log.Duration("wait", wait),
	)
}
