package config

import (
	"flag"
	"fmt"
	"strconv"
)

// Overrides carries command-line settings that take precedence over the file.
// Nil fields leave the file value alone.
type Overrides struct {
	TimeoutMS  *int
	DistancePX *int
	PadPX      *int
	PollMS     *int
	Monitor    *string
}

// RegisterFlags binds the legacy camel-case flags (--timeoutMs=, --distancePx=,
// --pad=, --monitor=, --pollMs=) to fs. Only flags actually passed end up set
// after fs.Parse.
func (o *Overrides) RegisterFlags(fs *flag.FlagSet) {
	fs.Func("timeoutMs", "dismiss timeout in milliseconds", intSetter(&o.TimeoutMS))
	fs.Func("distancePx", "pointer distance that dismisses the mixer", intSetter(&o.DistancePX))
	fs.Func("pad", "gap between the mixer and the screen corner", intSetter(&o.PadPX))
	fs.Func("pollMs", "pointer poll interval in milliseconds", intSetter(&o.PollMS))
	fs.Func("monitor", "display to open on: mouse or primary", func(v string) error {
		o.Monitor = &v
		return nil
	})
}

func intSetter(dst **int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*dst = &n
		return nil
	}
}

// Apply copies the set overrides onto cfg and revalidates it.
func (o Overrides) Apply(cfg *Config) error {
	if o.TimeoutMS != nil {
		cfg.Watch.TimeoutMS = *o.TimeoutMS
	}
	if o.DistancePX != nil {
		cfg.Watch.DistancePX = *o.DistancePX
	}
	if o.PadPX != nil {
		cfg.Placement.PadPX = *o.PadPX
	}
	if o.PollMS != nil {
		cfg.Watch.PollMS = *o.PollMS
	}
	if o.Monitor != nil {
		cfg.Placement.Monitor = MonitorMode(*o.Monitor)
	}
	return cfg.Validate()
}
