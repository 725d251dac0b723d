//go:build !linux

package doctor

import "errors"

func memlockLimit() (uint64, bool, error) {
	return 0, false, errors.ErrUnsupported
}
