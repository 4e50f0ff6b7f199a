package cascade

import "errors"

// ErrEmptyAlgorithmList is returned when EncryptCascade or DecryptCascade is
// called with an empty algorithm list; spec.md §4.2 requires a non-empty list.
var ErrEmptyAlgorithmList = errors.New("cascade: algorithm list must not be empty")
