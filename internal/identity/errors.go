package identity

import "errors"

// ErrRandomSourceFailed wraps a failure reading from the CSPRNG while
// generating a salt or other random material.
var ErrRandomSourceFailed = errors.New("identity: random source failed")
