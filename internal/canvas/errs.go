package canvas

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrNotList is returned when a 200 response body is not a JSON array.
var ErrNotList = errors.New("canvas: response body is not a list")

type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("canvas: GET %s: %s", e.URL, e.Status)
}
