package pluginrt

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dop251/goja"
	requirePkg "github.com/dop251/goja_nodejs/require"
)

// Interp is a single-plugin JavaScript runtime. Every plugin run gets
// a fresh one, so consecutive runs never share state even inside the
// same subprocess.
type Interp struct {
	*requirePkg.RequireModule
	vm *goja.Runtime
	l  *log.Logger
	// imported holds the modules the plugin pulled in via require.
	imported []string
}

// NewInterp creates a runtime rooted at wd, the directory relative
// imports are resolved against.
func NewInterp(l *log.Logger, wd string) (*Interp, error) {
	registry := new(requirePkg.Registry)
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	reqM := registry.Enable(vm)
	in := &Interp{
		RequireModule: reqM,
		vm:            vm,
		l:             l,
		imported:      []string{},
	}
	// stdout is reserved for the result payload, so every print path
	// the plugin can reach goes to stderr.
	if err := vm.Set("print", printStderr); err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 60 * time.Second}
	if err := vm.Set("httpRequest", httpCallback(vm, client)); err != nil {
		return nil, err
	}
	if err := vm.Set("require", in.require(wd)); err != nil {
		return nil, err
	}
	_, err := vm.RunString(`var console = {log: print, info: print, warn: print, error: print};`)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func printStderr(call goja.FunctionCall) goja.Value {
	for i, v := range call.Arguments {
		if i > 0 {
			fmt.Fprint(os.Stderr, " ")
		}
		fmt.Fprint(os.Stderr, v.Export())
	}
	fmt.Fprint(os.Stderr, "\n")
	return nil
}

func (in *Interp) require(wd string) func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		if goja.IsUndefined(arg) {
			throw(in.vm, "require expects a module name")
			return nil
		}
		modName := arg.String()
		modPath := filepath.Join(wd, modName)
		v, err := in.RequireModule.Require(modPath)
		if err != nil {
			in.l.Println("require: failed to import module:", modName)
			return nil
		}
		in.imported = append(in.imported, modName)
		return v
	}
}

// LoadModule reads and evaluates the plugin module at ref, loading its
// symbols into the runtime.
func (in *Interp) LoadModule(ref string) error {
	b, err := os.ReadFile(ref)
	if err != nil {
		return err
	}
	_, err = in.vm.RunScript(filepath.Base(ref), string(b))
	return err
}

// Call invokes the named entry point with the config payload and
// returns the serialized result. Entry points may be async as long as
// they resolve without external continuations.
func (in *Interp) Call(entryPoint, configPayload string) (string, error) {
	fn, ok := goja.AssertFunction(in.vm.Get(entryPoint))
	if !ok {
		return "", ErrEntryNotDefined
	}
	v, err := fn(goja.Undefined(), in.vm.ToValue(configPayload))
	if err != nil {
		return "", err
	}
	if p, ok := v.Export().(*goja.Promise); ok {
		switch p.State() {
		case goja.PromiseStateFulfilled:
			v = p.Result()
		case goja.PromiseStateRejected:
			return "", fmt.Errorf("entry point %q rejected: %s", entryPoint, p.Result().String())
		default:
			return "", fmt.Errorf("entry point %q returned a pending promise", entryPoint)
		}
	}
	return in.serialize(v)
}

// serialize turns the entry point's return value into the stdout
// payload: strings pass through, objects are JSON-encoded.
func (in *Interp) serialize(v goja.Value) (string, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", ErrInvalidReturnType
	}
	if s, ok := v.Export().(string); ok {
		return s, nil
	}
	jsonObj := in.vm.Get("JSON").ToObject(in.vm)
	stringify, ok := goja.AssertFunction(jsonObj.Get("stringify"))
	if !ok {
		return "", ErrInvalidReturnType
	}
	out, err := stringify(goja.Undefined(), v)
	if err != nil {
		return "", err
	}
	s, ok := out.Export().(string)
	if !ok {
		return "", ErrInvalidReturnType
	}
	return s, nil
}

// RunEntry executes one entry point of the module at ref in a fresh
// runtime and returns the payload to print on stdout. This is the body
// of the plugin-run subcommand.
func RunEntry(l *log.Logger, ref, entryPoint, configPayload string) (string, error) {
	in, err := NewInterp(l, filepath.Dir(ref))
	if err != nil {
		return "", err
	}
	if err := in.LoadModule(ref); err != nil {
		return "", err
	}
	return in.Call(entryPoint, configPayload)
}
