package contract

import "errors"

var ErrNotTrained = errors.New("classifier is not trained")
