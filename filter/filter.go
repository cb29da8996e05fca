package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/plex"
)

// SessionFilter decides which playback sessions count as streaming
// activity. Sessions it rejects are ignored by the limiter loop, so an
// expression like "!Local" makes local streams free.
type SessionFilter struct {
	expression string
	program    *vm.Program
}

// Compile compiles a session filter expression.
func Compile(expression string) (*SessionFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // Allow session properties
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &SessionFilter{
		expression: expression,
		program:    program,
	}, nil
}

// Match evaluates the filter against a session. Sessions that fail to
// evaluate do not count.
func (f *SessionFilter) Match(s plex.Session) bool {
	result, err := expr.Run(f.program, runtimeEnvironment(s))
	if err != nil {
		return false
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool)
}

// Expression returns the original expression.
func (f *SessionFilter) Expression() string {
	return f.expression
}

// helperFunctions creates the static helper functions used during compilation
func helperFunctions() map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	return env
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runtimeEnvironment creates the runtime environment for filter evaluation
func runtimeEnvironment(s plex.Session) map[string]any {
	env := make(map[string]any, 24)

	addHelperFunctions(env)

	// Session data
	env["Session"] = s
	env["User"] = s.User
	env["Title"] = s.Title
	env["GrandparentTitle"] = s.GrandparentTitle
	env["ParentTitle"] = s.ParentTitle
	env["MediaType"] = s.MediaType
	env["Library"] = s.Library
	env["Player"] = s.Player
	env["Product"] = s.Product
	env["Address"] = s.Address
	env["Local"] = s.Local
	env["State"] = s.State

	// Session-specific helpers using closures
	env["isLocal"] = func() bool { return s.Local }
	env["isPlaying"] = func() bool { return s.IsPlaying() }
	env["isPaused"] = func() bool { return s.State == "paused" }
	env["userIs"] = func(name string) bool { return strings.EqualFold(s.User, name) }
	env["inLibrary"] = func(name string) bool { return strings.EqualFold(s.Library, name) }
	env["mediaTypeIs"] = func(mediaType string) bool { return strings.EqualFold(s.MediaType, mediaType) }

	return env
}
