package execution

import "errors"

var (
	// ErrInvalidState is returned by every operation that needs a target when
	// the executor is empty.
	ErrInvalidState = errors.New("execution: executor is empty")

	// ErrUnsupportedProperty indicates the property is not understood by the
	// executor. Targets implementing ExtensionRequirer return it for
	// extensions they do not recognize.
	ErrUnsupportedProperty = errors.New("execution: property not supported")
)
