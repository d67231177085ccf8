package tokenrepo

import "errors"

var ErrNotFound = errors.New("access token not found")
