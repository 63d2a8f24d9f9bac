package proxyvis

import (
	"fmt"
	"strings"
)

// normBounds is a saved (min, max) normalization pair for one satellite.
type normBounds struct {
	min, max float64
}

// savedBounds holds typical full-disk normalization bounds per satellite.
// Dynamic full-disk min/max normalization caused operational problems, so
// these pre-estimated values are used instead when static normalization is
// requested. Read-only after initialization.
var savedBounds = map[string]normBounds{
	"goes16":      {0.0, 0.78},
	"goes17":      {0.0, 0.84},
	"goes18":      {0.0, 0.84},
	"himawari8":   {0.0, 0.79},
	"himawari9":   {0.0, 0.79},
	"meteosat-9":  {0.0, 0.78},
	"meteosat-10": {0.0, 0.78},
	"meteosat-11": {0.0, 0.78},
}

// LookupBounds returns the saved normalization bounds for a satellite. The
// name is lowercased and trimmed before lookup. An unknown satellite is an
// error: falling back to some default bound would silently corrupt the
// normalization.
func LookupBounds(satellite string) (savedMin, savedMax float64, err error) {
	b, ok := savedBounds[strings.ToLower(strings.TrimSpace(satellite))]
	if !ok {
		return 0, 0, fmt.Errorf("proxyvis: no saved normalization bounds for satellite %q", satellite)
	}
	return b.min, b.max, nil
}
