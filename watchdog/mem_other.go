//go:build !unix

package watchdog

// retained keeps heap-allocated contexts reachable for the life of the
// process.
var retained []*Context

// allocContext allocates a Context on the Go heap. Only the fallback
// monitor exists on these platforms, so nothing outside the runtime ever
// holds the address.
func allocContext() (*Context, []byte, error) {
	c := new(Context)
	retained = append(retained, c)
	return c, nil, nil
}
