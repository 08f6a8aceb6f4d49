// Package vm evaluates Funk syntax trees.
// It walks the tree produced by the parser and provides:
// - Statement and expression evaluation
// - Scope management (global frame plus block and call frames)
// - Function registry with pattern and arity dispatch
// - Built-in function table
// - Timeout and cancellation
package vm

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/logger"
	"github.com/zurustar/funk/pkg/value"
)

// BuiltinFunc is the signature for built-in functions.
// Built-in functions receive the VM and the evaluated arguments.
type BuiltinFunc func(vm *VM, args []value.Value) (value.Value, error)

// VM holds the whole interpreter state. Nothing is shared between VMs.
type VM struct {
	arena    *Arena
	scope    *Scope
	registry *Registry
	builtins map[string]BuiltinFunc

	out io.Writer
	in  *bufio.Reader

	maxDepth int
	timeout  time.Duration

	// Context for cancellation, set while Run is active
	ctx context.Context

	log *slog.Logger
}

// Option is a functional option for configuring the VM.
type Option func(*VM)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		vm.out = w
	}
}

// WithInput sets where read takes lines from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(vm *VM) {
		vm.in = bufio.NewReader(r)
	}
}

// WithMaxDepth limits the number of nested scope frames.
func WithMaxDepth(depth int) Option {
	return func(vm *VM) {
		vm.maxDepth = depth
	}
}

// WithTimeout sets the execution timeout of each Run.
func WithTimeout(timeout time.Duration) Option {
	return func(vm *VM) {
		vm.timeout = timeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

// New creates a VM with an empty global frame and the default built-ins.
func New(opts ...Option) *VM {
	vm := &VM{
		arena:    NewArena(),
		builtins: make(map[string]BuiltinFunc),
		out:      os.Stdout,
		maxDepth: MaxScopeDepth,
		ctx:      context.Background(),
		log:      logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(vm)
	}
	if vm.in == nil {
		vm.in = bufio.NewReader(os.Stdin)
	}

	vm.scope = NewScope(vm.maxDepth)
	vm.registry = NewRegistry(vm.arena)
	vm.registerDefaultBuiltins()

	return vm
}

func (vm *VM) registerDefaultBuiltins() {
	vm.RegisterBuiltinFunction("print", builtinPrint)
	vm.RegisterBuiltinFunction("read", builtinRead)
}

// RegisterBuiltinFunction adds fn under name. The name can no longer be
// declared by programs.
func (vm *VM) RegisterBuiltinFunction(name string, fn BuiltinFunc) {
	vm.builtins[name] = fn
	vm.scope.Reserve(name)
	vm.log.Debug("Registered built-in function", "name", name)
}

// Builtins returns the names of the registered built-in functions, sorted.
func (vm *VM) Builtins() []string {
	names := make([]string, 0, len(vm.builtins))
	for name := range vm.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run evaluates the top-level statements of program in the global frame
// and returns the value of the last one. Bindings made by one Run are
// visible to the next.
func (vm *VM) Run(ctx context.Context, program *ast.Program) (value.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if vm.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, vm.timeout)
		defer cancelTimeout()
	}
	vm.ctx = ctx
	defer func() {
		vm.ctx = context.Background()
	}()

	vm.log.Debug("Running program", "file", program.File, "statements", len(program.Statements))

	result := value.None()
	for _, stmt := range program.Statements {
		f, err := vm.exec(stmt)
		if err != nil {
			vm.log.Debug("Program stopped by error", "error", err)
			return value.None(), err
		}
		result = f.value
		if f.returned {
			vm.log.Debug("Program stopped by return")
			break
		}
	}
	return result, nil
}

// Depth returns the current scope depth; zero means only the global frame.
func (vm *VM) Depth() int {
	return vm.scope.Depth()
}

// Lookup returns the binding visible under name.
func (vm *VM) Lookup(name string) (*Binding, bool) {
	h, ok := vm.scope.Get(name)
	if !ok {
		return nil, false
	}
	b := vm.arena.Binding(h)
	return b, b != nil
}

// checkContext reports cancellation as a Runtime error at pos.
func (vm *VM) checkContext(pos token.Position) error {
	err := vm.ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return funkerr.Runtimef(pos, "Execution timed out")
	}
	return funkerr.Runtimef(pos, "Execution cancelled")
}

// pushScope opens a frame, positioning an overflow at pos.
func (vm *VM) pushScope(pos token.Position) error {
	if err := vm.scope.Push(); err != nil {
		return funkerr.At(err, pos)
	}
	vm.log.Debug("Scope pushed", "depth", vm.scope.Depth())
	return nil
}

// popScope closes the innermost frame and releases its bindings.
func (vm *VM) popScope() {
	handles, err := vm.scope.Pop()
	if err != nil {
		// Every pop is paired with a successful push.
		vm.log.Error("Unbalanced scope pop", "error", err)
		return
	}
	for _, h := range handles {
		vm.arena.Release(h)
	}
	vm.log.Debug("Scope popped", "depth", vm.scope.Depth(), "released", len(handles))
}

// bind allocates b and adds it to the innermost frame.
func (vm *VM) bind(b *Binding, pos token.Position) error {
	h := vm.arena.Alloc(b)
	if err := vm.scope.Add(b.Name, h); err != nil {
		vm.arena.Release(h)
		return funkerr.At(err, pos)
	}
	return nil
}
