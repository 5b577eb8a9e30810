package cache

import "time"

// Cache TTLs per entry class. Designs are deterministic functions of their
// inputs so long TTLs are safe; exports are larger, so they expire sooner.
const (
	// TTLDesign is how long a fully computed design result is kept.
	TTLDesign = 7 * 24 * time.Hour

	// TTLExport is how long a rendered artifact (exp, json, bom) is kept.
	TTLExport = 24 * time.Hour
)
