package engine

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	value  string
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds EvalTimeout. Results of an evaluation that a
// newer one has superseded are discarded.
//
// On timeout the goroutine may still be running and acting on the scene.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (string, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return "", nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.value, res.errors, res.err

	case <-timer.C:
		return "", nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
