package rope

import "fmt"

// timeEpsilon absorbs float accumulation when summing frame deltas against a duration
const timeEpsilon = 1e-9

// invariant panics when a caller breaks the instrument state machine contract
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("rope: "+format, args...))
	}
}
