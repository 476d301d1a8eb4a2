package report

import (
	"errors"
	"fmt"
	"strings"
)

// ClassOf reports the class name of an error's dynamic type, without the
// pointer marker.
func ClassOf(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

// ClassChain lists the class of err and of every error it wraps, outermost
// first.
func ClassChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, ClassOf(err))
		err = errors.Unwrap(err)
	}
	return chain
}

// CodeOf extracts the numeric code carried by a Coded error anywhere in the
// chain, or zero.
func CodeOf(err error) int {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return 0
}
