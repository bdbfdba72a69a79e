package field

import "fmt"

// DefaultLimit is the upper bound used when no count or limit is given.
const DefaultLimit = 2350

// Options selects what to generate: the first Count primes, or all primes
// up to Limit. At most one may be set; if neither is, DefaultLimit applies.
type Options struct {
	Count int `json:"count,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Validate checks the option combination without generating anything.
func (o Options) Validate() error {
	if o.Count < 0 {
		return fmt.Errorf("count %d: %w", o.Count, ErrInvalidArgument)
	}
	if o.Limit < 0 {
		return fmt.Errorf("limit %d: %w", o.Limit, ErrInvalidArgument)
	}
	if o.Count > 0 && o.Limit > 0 {
		return fmt.Errorf("count and limit are mutually exclusive: %w", ErrInvalidArgument)
	}
	return nil
}

func (o Options) primes() ([]int, error) {
	switch {
	case o.Count > 0:
		return FirstN(o.Count)
	case o.Limit > 0:
		return UpTo(o.Limit)
	default:
		return UpTo(DefaultLimit)
	}
}

// Mode describes the effective generation mode for display and cataloging.
func (o Options) Mode() string {
	if o.Count > 0 {
		return fmt.Sprintf("count=%d", o.Count)
	}
	if o.Limit > 0 {
		return fmt.Sprintf("limit=%d", o.Limit)
	}
	return fmt.Sprintf("limit=%d", DefaultLimit)
}

// Twin is a pair of consecutive primes two apart, with the tuple indexes
// of both endpoints. Rendered as bridge lines in the visualization.
type Twin struct {
	P int `json:"p"`
	Q int `json:"q"`
	I int `json:"i"`
	J int `json:"j"`
}

// Field is the generated resonance field: the ordered tuple sequence plus
// the twin-prime bridges found in it. Fields are immutable once generated
// and bit-identical across runs with equal Options.
type Field struct {
	Options Options `json:"options"`
	Tuples  []Tuple `json:"tuples"`
	Twins   []Twin  `json:"twins"`
}

// Generate produces the full field for the given options.
func Generate(opts Options) (*Field, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	primes, err := opts.primes()
	if err != nil {
		return nil, err
	}

	tuples, err := MapAll(primes)
	if err != nil {
		return nil, err
	}

	return &Field{
		Options: opts,
		Tuples:  tuples,
		Twins:   findTwins(tuples),
	}, nil
}

func findTwins(tuples []Tuple) []Twin {
	twins := make([]Twin, 0)
	for i := 0; i+1 < len(tuples); i++ {
		if tuples[i+1].Prime-tuples[i].Prime == 2 {
			twins = append(twins, Twin{
				P: tuples[i].Prime,
				Q: tuples[i+1].Prime,
				I: i,
				J: i + 1,
			})
		}
	}
	return twins
}

// Stats summarizes a field for status displays and API responses.
type Stats struct {
	Primes     int     `json:"primes"`
	Twins      int     `json:"twins"`
	FirstPrime int     `json:"first_prime,omitempty"`
	LastPrime  int     `json:"last_prime,omitempty"`
	MinToneHz  float64 `json:"min_tone_hz,omitempty"`
	MaxToneHz  float64 `json:"max_tone_hz,omitempty"`
}

// Stats computes summary statistics over the field.
func (f *Field) Stats() Stats {
	s := Stats{
		Primes: len(f.Tuples),
		Twins:  len(f.Twins),
	}
	if len(f.Tuples) == 0 {
		return s
	}

	s.FirstPrime = f.Tuples[0].Prime
	s.LastPrime = f.Tuples[len(f.Tuples)-1].Prime
	s.MinToneHz = f.Tuples[0].ToneHz
	s.MaxToneHz = f.Tuples[0].ToneHz
	for _, t := range f.Tuples[1:] {
		if t.ToneHz < s.MinToneHz {
			s.MinToneHz = t.ToneHz
		}
		if t.ToneHz > s.MaxToneHz {
			s.MaxToneHz = t.ToneHz
		}
	}
	return s
}
