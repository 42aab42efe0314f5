// Package idgen assigns short, collision-free task identifiers of the form
// {prefix}-{code}.
package idgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/colonyops/ticketlog/pkg/randid"
)

// Strategy selects how the code part of an identifier is produced.
type Strategy string

const (
	// StrategyRandom draws a fixed-length [a-z0-9] code and redraws on collision.
	StrategyRandom Strategy = "random"
	// StrategySequential uses one more than the highest numeric code in use.
	StrategySequential Strategy = "sequential"
)

// IsValid reports whether s is a known strategy.
func (s Strategy) IsValid() bool {
	return s == StrategyRandom || s == StrategySequential
}

const (
	DefaultLength      = 3
	DefaultMaxAttempts = 100
)

// IDSpaceExhaustedError is returned when no free identifier was found within
// the retry budget. The prefix or code length needs reconfiguring.
type IDSpaceExhaustedError struct {
	Prefix   string
	Attempts int
}

func (e *IDSpaceExhaustedError) Error() string {
	return fmt.Sprintf("no free id for prefix %q after %d attempts", e.Prefix, e.Attempts)
}

// Set is the set of identifiers that must not be handed out.
type Set map[string]struct{}

// NewSet builds a Set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Options configures a Generator.
type Options struct {
	Prefix      string
	Strategy    Strategy
	Length      int // code length for StrategyRandom
	MaxAttempts int // redraw budget for StrategyRandom

	// Draw returns a random code of the given length. Defaults to randid.Generate.
	Draw func(length int) string
}

// Generator hands out identifiers that are not in a caller-supplied Set.
type Generator struct {
	opts Options
}

// New creates a Generator, filling zero options with defaults.
func New(opts Options) *Generator {
	if opts.Strategy == "" {
		opts.Strategy = StrategyRandom
	}
	if opts.Length <= 0 {
		opts.Length = DefaultLength
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Draw == nil {
		opts.Draw = randid.Generate
	}
	return &Generator{opts: opts}
}

// Prefix returns the configured prefix.
func (g *Generator) Prefix() string {
	return g.opts.Prefix
}

// Next returns an identifier that is not in existing. The caller should add
// the result to existing before generating another one.
func (g *Generator) Next(existing Set) (string, error) {
	switch g.opts.Strategy {
	case StrategySequential:
		return g.nextSequential(existing)
	case StrategyRandom:
		return g.nextRandom(existing)
	default:
		return "", fmt.Errorf("unknown id strategy %q", g.opts.Strategy)
	}
}

func (g *Generator) format(code string) string {
	if g.opts.Prefix == "" {
		return code
	}
	return g.opts.Prefix + "-" + code
}

func (g *Generator) nextRandom(existing Set) (string, error) {
	// Stop early when every code of this length is already taken.
	if space := codeSpace(g.opts.Length); space > 0 && g.countPrefixed(existing) >= space {
		return "", &IDSpaceExhaustedError{Prefix: g.opts.Prefix, Attempts: 0}
	}

	for range g.opts.MaxAttempts {
		id := g.format(g.opts.Draw(g.opts.Length))
		if !existing.Has(id) {
			return id, nil
		}
	}
	return "", &IDSpaceExhaustedError{Prefix: g.opts.Prefix, Attempts: g.opts.MaxAttempts}
}

func (g *Generator) nextSequential(existing Set) (string, error) {
	highest := 0
	for id := range existing {
		n, ok := g.numericCode(id)
		if ok && n > highest {
			highest = n
		}
	}

	for n := highest + 1; n < math.MaxInt; n++ {
		id := g.format(strconv.Itoa(n))
		if !existing.Has(id) {
			return id, nil
		}
	}
	return "", &IDSpaceExhaustedError{Prefix: g.opts.Prefix}
}

// numericCode extracts the integer code of id when it carries this
// generator's prefix.
func (g *Generator) numericCode(id string) (int, bool) {
	code := id
	if g.opts.Prefix != "" {
		var ok bool
		code, ok = strings.CutPrefix(id, g.opts.Prefix+"-")
		if !ok {
			return 0, false
		}
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (g *Generator) countPrefixed(existing Set) int {
	if g.opts.Prefix == "" {
		return len(existing)
	}
	count := 0
	p := g.opts.Prefix + "-"
	for id := range existing {
		if code, ok := strings.CutPrefix(id, p); ok && len(code) == g.opts.Length {
			count++
		}
	}
	return count
}

// codeSpace returns len(randid.Alphabet)^length, or 0 when it overflows.
func codeSpace(length int) int {
	space := 1
	for range length {
		if space > math.MaxInt/len(randid.Alphabet) {
			return 0
		}
		space *= len(randid.Alphabet)
	}
	return space
}
