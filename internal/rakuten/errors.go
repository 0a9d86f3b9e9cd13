// SPDX-License-Identifier: MIT

package rakuten

import "fmt"

// FetchError reports a transport-level failure: network error, timeout,
// non-2xx status or decompression failure. It is distinguishable from a
// successful fetch that decoded to zero entries.
type FetchError struct {
	Source string // logical source name, e.g. "live_channels"
	Status int    // HTTP status if one was received, 0 otherwise
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a payload that arrived but was not parseable as the
// expected structured format.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
