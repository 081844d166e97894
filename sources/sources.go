// Package sources provides simulated signals that stand in for sensor readings when running the demo.
// Each source owns the variable it updates, graphs observe it through Reader.
package sources

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"arduplot/config"
	"arduplot/models"
	"arduplot/utils"
)

const DEFAULT_PERIOD = time.Second

type Source interface {
	// Update moves the source on to elapsed time since the demo started.
	Update(elapsed time.Duration)
	// Reader observes the variable the source updates.
	Reader() models.Reader
}

// FromSpec builds the source described by spec.
func FromSpec(spec config.SourceSpec) (Source, error) {
	switch spec.Kind {
	case config.SINE_SOURCE:
		return NewSine(spec.Period, spec.Amplitude, spec.Offset), nil
	case config.COUNTER_SOURCE:
		return NewCounter(int64(spec.Step), spec.Limit), nil
	case config.WALK_SOURCE:
		return NewWalk(spec.Offset, spec.Step, spec.Seed), nil
	case config.SQUARE_SOURCE:
		return NewSquare(spec.Period), nil
	default:
		return nil, fmt.Errorf("%q: %w", spec.Kind, config.ErrBadSource)
	}
}

type Sine struct {
	period    time.Duration
	amplitude float64
	offset    float64
	value     float64
}

func NewSine(period time.Duration, amplitude, offset float64) *Sine {
	if period <= 0 {
		period = DEFAULT_PERIOD
	}
	return &Sine{period, amplitude, offset, offset}
}

func (s *Sine) Update(elapsed time.Duration) {
	phase := 2 * math.Pi * float64(elapsed%s.period) / float64(s.period)
	s.value = s.offset + s.amplitude*math.Sin(phase)
}

func (s *Sine) Reader() models.Reader {
	return models.NewNumberRef(&s.value)
}

// Counter counts up by step on every update, wrapping to 0 when it reaches limit (if limit is positive).
type Counter struct {
	step  int64
	limit int64
	value int64
}

func NewCounter(step, limit int64) *Counter {
	if step == 0 {
		step = 1
	}
	return &Counter{step, limit, 0}
}

func (c *Counter) Update(_ time.Duration) {
	c.value += c.step
	if c.limit > 0 && c.value >= c.limit {
		c.value = 0
	}
}

func (c *Counter) Reader() models.Reader {
	return models.NewNumberRef(&c.value)
}

// Walk is a random walk starting at start, moving at most step per update.
type Walk struct {
	step  float64
	rng   *rand.Rand
	value float64
}

func NewWalk(start, step float64, seed int64) *Walk {
	return &Walk{step, rand.New(rand.NewSource(seed)), start}
}

func (w *Walk) Update(_ time.Duration) {
	w.value = utils.RoundToXDp(w.value+(w.rng.Float64()*2-1)*w.step, 3)
}

func (w *Walk) Reader() models.Reader {
	return models.NewNumberRef(&w.value)
}

// Square is high for the first half of every period.
type Square struct {
	period time.Duration
	high   bool
}

func NewSquare(period time.Duration) *Square {
	if period <= 0 {
		period = DEFAULT_PERIOD
	}
	return &Square{period, true}
}

func (s *Square) Update(elapsed time.Duration) {
	s.high = elapsed%s.period < s.period/2
}

func (s *Square) Reader() models.Reader {
	return models.NewBoolRef(&s.high)
}

// Bank updates a set of sources together.
type Bank struct {
	sources []Source
}

func (b *Bank) Add(s Source) {
	b.sources = append(b.sources, s)
}

func (b *Bank) Len() int {
	return len(b.sources)
}

func (b *Bank) Update(elapsed time.Duration) {
	for _, s := range b.sources {
		s.Update(elapsed)
	}
}
