package transport

import (
	"time"

	"github.com/connhold/connhold/options"
)

// options
var (
	// OptionDialTimeout limits how long a single dial attempt may take.
	// Zero means no limit.
	OptionDialTimeout = options.NewTimeDurationOption("dialTimeout", 10*time.Second)
)
