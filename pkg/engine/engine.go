// Package engine provides the command console of the editor.
// It wraps zygomys in a sandboxed environment whose builtins act on a
// scene.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"

	"github.com/chazu/keelwright/pkg/hull"
	"github.com/chazu/keelwright/pkg/scene"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning flags a hull left outside its meaningful range after an
// evaluation. Warnings describe scene state, not source positions.
type EvalWarning struct {
	Message string
	PartID  uuid.UUID
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	Value    string
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine runs console scripts against a scene.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment, while the scene persists between calls.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	scene      *scene.Scene
}

// NewEngine creates an Engine bound to s.
func NewEngine(s *scene.Scene) *Engine {
	return &Engine{scene: s}
}

// Scene returns the scene the builtins act on.
func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

// Evaluate runs source and returns the printed value of its last
// expression.
//
// Return semantics:
//   - On success: returns value + nil errors + nil error
//   - On parse/eval failure: returns "" + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns "" + nil + error
//
// Actions already applied to the scene when a script fails are kept.
func (e *Engine) Evaluate(source string) (string, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		v, evalErrs, err := e.evaluate(source)
		ch <- evalResult{value: v, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (string, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, e.scene)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return "", parseZygomysError(err), nil
	}

	res, err := env.Run()
	if err != nil {
		return "", parseZygomysError(err), nil
	}
	return res.SexpString(nil), nil, nil
}

// Warnings lists the validation warnings of every hull in the scene.
func (e *Engine) Warnings() []EvalWarning {
	var out []EvalWarning
	for _, p := range e.scene.Parts() {
		if p.Hull == nil {
			continue
		}
		for _, w := range hull.Validate(p.Hull) {
			out = append(out, EvalWarning{Message: w.String(), PartID: p.ID})
		}
	}
	return out
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
