package counter

import (
	"math"
	"strconv"
)

// Placeholder is the token in Options.Text replaced by the formatted value.
const Placeholder = "%counter%"

// BaseClass is always added to the target alongside Options.AddClass.
const BaseClass = "ui-counterWidgetMain"

// UnboundedInterval is the run time used when Options.Interval is zero. It
// keeps the step arithmetic finite while being longer than any display runs.
const UnboundedInterval = 86400000

// Options configures a counter. Fields are read once by New.
type Options struct {
	// Start is the initial value.
	Start float64
	// Stop is the target value. Start == Stop counts up until stopped.
	Stop float64
	// Interval is the total run time in milliseconds. Zero means run until
	// stopped.
	Interval float64
	// Step is the tick cadence in milliseconds. Nil derives it from the
	// interval and range.
	Step *float64
	// Text is the display template. Its first Placeholder is replaced with
	// the value. Empty means Placeholder alone.
	Text string
	// AddClass lists extra class names for the target, whitespace separated.
	AddClass string
	// Round is the number of decimals shown. Nil derives it from the step.
	Round *int
}

// DefaultOptions returns the options of an unbounded counter starting at 0.
func DefaultOptions() Options {
	return Options{Text: Placeholder}
}

// Float returns a pointer to v, for Options.Step.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for Options.Round.
func Int(v int) *int { return &v }

// Params are the values derived from Options when a counter is created.
type Params struct {
	// Range is |Start - Stop|.
	Range float64
	// Interval is the effective run time in milliseconds.
	Interval float64
	// Step is the effective tick cadence in milliseconds.
	Step float64
	// Delta is the amount the value moves per tick.
	Delta float64
	// Round is the effective number of decimals shown.
	Round int
}

// Derive computes the parameters a counter with these options runs with.
func (o Options) Derive() Params {
	p := Params{
		Range:    math.Abs(o.Start - o.Stop),
		Interval: o.Interval,
	}
	if p.Interval == 0 {
		p.Interval = UnboundedInterval
	}

	switch {
	case o.Step != nil:
		p.Step = *o.Step
	case p.Range == 0:
		p.Step = 10
	default:
		p.Step = p.Interval / p.Range
	}

	p.Delta = p.Range / (p.Interval / p.Step)
	if p.Delta == 0 || math.IsNaN(p.Delta) {
		// Unbounded mode has no range to spread over the interval.
		p.Delta = p.Step * 0.001
	}

	if o.Round != nil {
		p.Round = max(0, *o.Round)
	} else {
		p.Round = max(0, 4-digitCount(p.Step))
	}
	return p
}

func (o Options) template() string {
	if o.Text == "" {
		return Placeholder
	}
	return o.Text
}

// digitCount is the length of the shortest decimal spelling of v, sign and
// decimal point included.
func digitCount(v float64) int {
	return len(strconv.FormatFloat(v, 'f', -1, 64))
}
