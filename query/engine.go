package query

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	gocache "github.com/patrickmn/go-cache"
)

const (
	// DefaultExpiration is how long a compiled query stays cached after last use.
	DefaultExpiration = 10 * time.Minute

	// DefaultCleanupInterval is how often expired queries are purged.
	DefaultCleanupInterval = 30 * time.Minute
)

// tagsVar is the name of the set variable inside expressions.
const tagsVar = "tags"

// Engine compiles and evaluates tag queries against one registry.
// It is safe for concurrent use.
type Engine struct {
	registry *gameplaytags.Registry
	env      *cel.Env
	cache    *gocache.Cache
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCacheExpiration overrides how long compiled queries are cached.
func WithCacheExpiration(expiration, cleanupInterval time.Duration) Option {
	return func(e *Engine) {
		e.cache = gocache.New(expiration, cleanupInterval)
	}
}

// NewEngine builds an engine whose hierarchy checks use r. A nil r means
// the default registry, looked up at evaluation time.
func NewEngine(r *gameplaytags.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = gocache.New(DefaultExpiration, DefaultCleanupInterval)
	}

	env, err := cel.NewEnv(
		cel.Variable(tagsVar, cel.ListType(cel.UintType)),
		e.memberFunction("has", cel.StringType, (*gameplaytags.Set).HasTag),
		e.memberFunction("hasExact", cel.StringType, (*gameplaytags.Set).HasTagExact),
		e.memberListFunction("hasAny", (*gameplaytags.Set).HasAny),
		e.memberListFunction("hasAll", (*gameplaytags.Set).HasAll),
		e.memberListFunction("hasAnyExact", (*gameplaytags.Set).HasAnyExact),
		e.memberListFunction("hasAllExact", (*gameplaytags.Set).HasAllExact),
	)
	if err != nil {
		return nil, fmt.Errorf("create query environment: %w", err)
	}
	e.env = env

	return e, nil
}

func (e *Engine) hierarchy() *gameplaytags.Registry {
	if e.registry != nil {
		return e.registry
	}
	return gameplaytags.Default()
}

// Compile parses and type-checks expr. Compiled queries are cached by
// expression text.
func (e *Engine) Compile(expr string) (*Query, error) {
	if cached, found := e.cache.Get(expr); found {
		if q, ok := cached.(*Query); ok {
			e.logger.Debug("query cache hit", "expr", expr)
			return q, nil
		}
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, invalidQuery("Engine.Compile", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, invalidQuery("Engine.Compile", expr,
			fmt.Errorf("expression yields %s, want bool", ast.OutputType()))
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, invalidQuery("Engine.Compile", expr, err)
	}

	q := &Query{expr: expr, program: program}
	e.cache.SetDefault(expr, q)
	return q, nil
}

// Evaluate compiles expr (or takes it from the cache) and matches it against set.
func (e *Engine) Evaluate(expr string, set *gameplaytags.Set) (bool, error) {
	q, err := e.Compile(expr)
	if err != nil {
		return false, err
	}
	return q.Matches(set)
}

// CachedQueries returns the number of compiled queries held in the cache.
func (e *Engine) CachedQueries() int {
	return e.cache.ItemCount()
}

// memberFunction declares tags.<name>(string) -> bool backed by a Set method.
func (e *Engine) memberFunction(name string, arg *cel.Type, test func(*gameplaytags.Set, gameplaytags.ID) bool) cel.EnvOption {
	return cel.Function(name,
		cel.MemberOverload(fmt.Sprintf("list_uint_%s_string", name),
			[]*cel.Type{cel.ListType(cel.UintType), arg},
			cel.BoolType,
			cel.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
				set, err := e.setOf(lhs)
				if err != nil {
					return types.WrapErr(err)
				}
				tagName, ok := rhs.(types.String)
				if !ok {
					return types.MaybeNoSuchOverloadErr(rhs)
				}
				return types.Bool(test(set, e.hierarchy().ResolveID(string(tagName))))
			})))
}

// memberListFunction declares tags.<name>(list(string)) -> bool backed by a
// Set-to-Set method.
func (e *Engine) memberListFunction(name string, test func(*gameplaytags.Set, *gameplaytags.Set) bool) cel.EnvOption {
	return cel.Function(name,
		cel.MemberOverload(fmt.Sprintf("list_uint_%s_list_string", name),
			[]*cel.Type{cel.ListType(cel.UintType), cel.ListType(cel.StringType)},
			cel.BoolType,
			cel.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
				set, err := e.setOf(lhs)
				if err != nil {
					return types.WrapErr(err)
				}
				other, err := e.setOfNames(rhs)
				if err != nil {
					return types.WrapErr(err)
				}
				return types.Bool(test(set, other))
			})))
}

// setOf turns the tags list back into a Set bound to the engine registry.
// The registry of the Set passed to Query.Matches does not survive the
// trip through CEL.
func (e *Engine) setOf(val ref.Val) (*gameplaytags.Set, error) {
	list, ok := val.(traits.Lister)
	if !ok {
		return nil, fmt.Errorf("tags is %s, want list", val.Type())
	}
	set := gameplaytags.NewSetIn(e.hierarchy())
	for it := list.Iterator(); it.HasNext() == types.True; {
		v, ok := it.Next().(types.Uint)
		if !ok {
			return nil, fmt.Errorf("tags must hold uint ids")
		}
		set.Add(gameplaytags.FromRawID(uint32(v)))
	}
	return set, nil
}

func (e *Engine) setOfNames(val ref.Val) (*gameplaytags.Set, error) {
	list, ok := val.(traits.Lister)
	if !ok {
		return nil, fmt.Errorf("argument is %s, want list of tag names", val.Type())
	}
	reg := e.hierarchy()
	set := gameplaytags.NewSetIn(reg)
	for it := list.Iterator(); it.HasNext() == types.True; {
		name, ok := it.Next().(types.String)
		if !ok {
			return nil, fmt.Errorf("tag names must be strings")
		}
		set.Add(reg.ResolveID(string(name)))
	}
	return set, nil
}

func invalidQuery(op, expr string, cause error) error {
	return gameplaytags.NewQueryError(op, fmt.Errorf("%w: %w", gameplaytags.ErrInvalidQuery, cause)).
		WithContext(map[string]any{"expr": expr})
}
