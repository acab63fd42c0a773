package session

import "errors"

var ErrEmptyUser = errors.New("user id is required")
