package codec

import "errors"

// Error kinds spec §7 names. Content and channel errors are fatal to
// the current frame; no partial payload is ever returned.
var (
	ErrInvalidConfig      = errors.New("codec: invalid configuration")
	ErrCorruptCompression = errors.New("codec: corrupt compression")
	ErrUncorrectableFEC   = errors.New("codec: uncorrectable FEC block")
	ErrAuthFailed         = errors.New("codec: authentication failed")
	ErrBadCRC             = errors.New("codec: CRC mismatch")
	ErrNoPreamble         = errors.New("codec: no preamble detected")
	ErrSyncLost           = errors.New("codec: synchronization lost")
	ErrCancelled          = errors.New("codec: cancelled")
	ErrIOExhausted        = errors.New("codec: source exhausted before frame completion")
)
