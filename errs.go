package xval

import "errors"

var ErrNotFound = errors.New("not found")
