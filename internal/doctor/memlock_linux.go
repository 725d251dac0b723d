package doctor

import "golang.org/x/sys/unix"

func memlockLimit() (uint64, bool, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rl); err != nil {
		return 0, false, err
	}
	return rl.Cur, rl.Cur == unix.RLIM_INFINITY, nil
}
