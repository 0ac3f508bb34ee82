package encoding

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type")
	ErrNotPointer      = errors.New("value must be a non-nil pointer or slice")
)
