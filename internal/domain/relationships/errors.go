package relationships

import "errors"

var (
	ErrCannotBlockSelf = errors.New("cannot block yourself")
)
