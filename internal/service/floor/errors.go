package floor

import "errors"

var (
	ErrTableNotFound = errors.New("table not found")
	ErrFolioNotFound = errors.New("folio not found")
)
