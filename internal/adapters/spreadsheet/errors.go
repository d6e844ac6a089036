package spreadsheet

import "errors"

// Sentinel kinds for workbook errors.
var (
	ErrOpenWorkbook   = errors.New("open workbook")
	ErrMissingSheet   = errors.New("workbook has no profiles sheet")
	ErrMalformedBlock = errors.New("malformed profile block")
)
