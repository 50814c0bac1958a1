package training

import "errors"

var (
	ErrMissingUserID    = errors.New("missing user id")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrValueTooLong     = errors.New("value too long")
	ErrMissingTitle     = errors.New("missing training title")
	ErrMissingStatus    = errors.New("missing status")
	ErrUnknownStatus    = errors.New("unknown status")
	ErrModuleNotFound   = errors.New("module number not found in title")
	ErrModuleOutOfRange = errors.New("module number out of range")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidNumber    = errors.New("invalid number")
	ErrUnknownKind      = errors.New("unknown import kind")
	// ErrUnreadableWorkbook marks source errors that retrying cannot fix.
	ErrUnreadableWorkbook = errors.New("workbook cannot be imported")
	ErrUserNotFound       = errors.New("user not found")
	ErrImportJobNotFound  = errors.New("import job not found")
)
