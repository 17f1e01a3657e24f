package photo

import "errors"

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrNotPhotoOwner     = errors.New("you can only manage your own photos")
	ErrPhotoLimitReached = errors.New("photo limit reached")
	ErrUnsupportedType   = errors.New("unsupported image type")
	ErrFileTooLarge      = errors.New("file exceeds the maximum allowed size")
)
