package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/rinth/modrinth"
)

// Filter is a compiled expression over a search hit.
type Filter struct {
	expression string
	program    *vm.Program
	custom     map[string]any
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache[*Filter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions. They take precedence
// over the built-in names.
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.custom, funcs)
	}
}

// Compiler compiles filter expressions. It is safe for concurrent use.
type Compiler struct {
	custom map[string]any
	cache  *lruCache[*Filter]
}

// NewCompiler creates a new expr-based filter compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		custom: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles an expression into an executable filter
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Compile against a sample environment so unknown names fail early
	program, err := expr.Compile(expression,
		expr.Env(environment(modrinth.SearchResult{}, c.custom)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &Filter{
		expression: expression,
		program:    program,
		custom:     c.custom,
	}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

// CacheSize returns the number of cached filters
func (c *Compiler) CacheSize() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Match evaluates the filter against a hit.
func (f *Filter) Match(hit modrinth.SearchResult) (bool, error) {
	result, err := expr.Run(f.program, environment(hit, f.custom))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Project:    hit.Title,
			Err:        err,
		}
	}
	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool), nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

func environment(hit modrinth.SearchResult, custom map[string]any) map[string]any {
	env := hitEnvironment(hit)
	maps.Copy(env, custom)
	return env
}

func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers. contains, startsWith and endsWith are case-sensitive
	// operators in expr; these ignore case.
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefixFold"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffixFold"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// hitEnvironment exposes the hit's fields and hit-bound helpers.
func hitEnvironment(hit modrinth.SearchResult) map[string]any {
	env := make(map[string]any, 40)
	addHelperFunctions(env)

	env["hasCategory"] = createHasFunc(hit.Categories)
	env["supports"] = createHasFunc(hit.Versions)
	env["clientRequired"] = func() bool { return hit.ClientSide == modrinth.SideRequired }
	env["serverRequired"] = func() bool { return hit.ServerSide == modrinth.SideRequired }

	env["ID"] = hit.ProjectID.String()
	env["Slug"] = hit.Slug
	env["Title"] = hit.Title
	env["Author"] = hit.Author
	env["Description"] = hit.Description
	env["ProjectType"] = string(hit.ProjectType)
	env["Categories"] = hit.Categories
	env["Versions"] = hit.Versions
	env["LatestVersion"] = hit.LatestVersion
	env["Downloads"] = hit.Downloads
	env["Follows"] = hit.Follows
	env["License"] = hit.License
	env["ClientSide"] = string(hit.ClientSide)
	env["ServerSide"] = string(hit.ServerSide)
	env["Created"] = hit.DateCreated
	env["Modified"] = hit.DateModified

	return env
}

func createHasFunc(values []string) func(string) bool {
	// Pre-convert to lowercase for case-insensitive comparison
	lower := make([]string, len(values))
	for i, v := range values {
		lower[i] = strings.ToLower(v)
	}
	return func(value string) bool {
		return slices.Contains(lower, strings.ToLower(value))
	}
}
