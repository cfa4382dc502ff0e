package options

import (
	"errors"
	"sync"
	"time"
)

type (
	// Options is an option set.
	Options interface {
		SetOption(opt Option, val interface{}) error
		WithOption(opt Option, val interface{}) Options
		GetOption(opt Option) (val interface{}, ok bool)
		GetOptionDefault(opt Option) (val interface{})
		OptionValues() OptionValues
	}

	// Option is an option item.
	Option interface {
		Name() string
		Default() interface{}
		Validate(val interface{}) error
	}

	// OptionValues is the literal form of an option set, used for construction.
	OptionValues map[Option]interface{}

	options struct {
		sync.RWMutex
		opts map[Option]interface{}
	}

	baseOption struct {
		name string
		def  interface{}
	}

	// BoolOption is option with bool value.
	BoolOption interface {
		Option
		Value(val interface{}) bool
		ValueFrom(opts Options) bool
	}

	boolOption struct {
		baseOption
	}

	// IntOption is option with int value.
	IntOption interface {
		Option
		Value(val interface{}) int
		ValueFrom(opts Options) int
	}

	intOption struct {
		baseOption
	}

	// StringOption is option with string value.
	StringOption interface {
		Option
		Value(val interface{}) string
		ValueFrom(opts Options) string
	}

	stringOption struct {
		baseOption
	}

	// TimeDurationOption is option with time duration value.
	TimeDurationOption interface {
		Option
		Value(val interface{}) time.Duration
		ValueFrom(opts Options) time.Duration
	}

	timeDurationOption struct {
		baseOption
	}
)

// errors
var (
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// NewOptions create an empty option set.
func NewOptions() Options {
	return &options{
		opts: make(map[Option]interface{}),
	}
}

// NewOptionsWithValues create an option set from values.
func NewOptionsWithValues(ovs OptionValues) Options {
	opts := &options{
		opts: make(map[Option]interface{}, len(ovs)),
	}
	for opt, val := range ovs {
		opts.SetOption(opt, val)
	}
	return opts
}

// SetOption set an option value.
func (opts *options) SetOption(opt Option, val interface{}) (err error) {
	if err = opt.Validate(val); err != nil {
		return
	}

	opts.Lock()
	defer opts.Unlock()

	opts.opts[opt] = val
	return
}

// WithOption set an option value, chainable.
func (opts *options) WithOption(opt Option, val interface{}) Options {
	opts.SetOption(opt, val)
	return opts
}

// GetOption get an option value.
func (opts *options) GetOption(opt Option) (val interface{}, ok bool) {
	opts.RLock()
	defer opts.RUnlock()
	val, ok = opts.opts[opt]
	return
}

// GetOptionDefault get an option value, falling back to the option's default.
func (opts *options) GetOptionDefault(opt Option) (val interface{}) {
	var ok bool
	if val, ok = opts.GetOption(opt); !ok {
		val = opt.Default()
	}
	return
}

func (opts *options) OptionValues() (res OptionValues) {
	opts.RLock()
	defer opts.RUnlock()

	res = make(OptionValues, len(opts.opts))
	for opt, val := range opts.opts {
		res[opt] = val
	}
	return
}

func (o *baseOption) Name() string {
	return o.name
}

func (o *baseOption) Default() interface{} {
	return o.def
}

// NewBoolOption create a bool option
func NewBoolOption(name string, def bool) BoolOption {
	return &boolOption{baseOption{name, def}}
}

func (o *boolOption) Validate(val interface{}) error {
	if _, ok := val.(bool); !ok {
		return ErrInvalidOptionValue
	}
	return nil
}

// Value get option's value, must ensure option value is not empty
func (o *boolOption) Value(val interface{}) bool {
	return val.(bool)
}

// ValueFrom get option's value from an option set, or the default.
func (o *boolOption) ValueFrom(opts Options) bool {
	return o.Value(opts.GetOptionDefault(o))
}

// NewIntOption create an int option
func NewIntOption(name string, def int) IntOption {
	return &intOption{baseOption{name, def}}
}

func (o *intOption) Validate(val interface{}) error {
	if _, ok := val.(int); !ok {
		return ErrInvalidOptionValue
	}
	return nil
}

// Value get option's value, must ensure option value is not empty
func (o *intOption) Value(val interface{}) int {
	return val.(int)
}

// ValueFrom get option's value from an option set, or the default.
func (o *intOption) ValueFrom(opts Options) int {
	return o.Value(opts.GetOptionDefault(o))
}

// NewStringOption create a string option
func NewStringOption(name string, def string) StringOption {
	return &stringOption{baseOption{name, def}}
}

func (o *stringOption) Validate(val interface{}) error {
	if _, ok := val.(string); !ok {
		return ErrInvalidOptionValue
	}
	return nil
}

// Value get option's value, must ensure option value is not empty
func (o *stringOption) Value(val interface{}) string {
	return val.(string)
}

// ValueFrom get option's value from an option set, or the default.
func (o *stringOption) ValueFrom(opts Options) string {
	return o.Value(opts.GetOptionDefault(o))
}

// NewTimeDurationOption create a time duration option
func NewTimeDurationOption(name string, def time.Duration) TimeDurationOption {
	return &timeDurationOption{baseOption{name, def}}
}

func (o *timeDurationOption) Validate(val interface{}) error {
	if _, ok := val.(time.Duration); !ok {
		return ErrInvalidOptionValue
	}
	return nil
}

// Value get option's value, must ensure option value is not empty
func (o *timeDurationOption) Value(val interface{}) time.Duration {
	return val.(time.Duration)
}

// ValueFrom get option's value from an option set, or the default.
func (o *timeDurationOption) ValueFrom(opts Options) time.Duration {
	return o.Value(opts.GetOptionDefault(o))
}
