package reportGenerator

import "errors"

// ErrNoData means the report holds nothing this generator can draw from.
var ErrNoData = errors.New("error no data for attachment")
