package pluginrt

import (
	"io"
	"net/http"
	"strings"

	"github.com/dop251/goja"
)

// respBodyCap bounds how much of an HTTP response body a plugin may
// pull into the runtime at once.
const respBodyCap = 1024 * 1024

type httpRequestSpec struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

type httpResponse struct {
	StatusCode int               `json:"status"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers"`
}

// httpCallback is the httpRequest global exposed to plugins: a
// synchronous bridge to the host's HTTP client, so plugins talk to
// their source APIs without any network machinery of their own.
func httpCallback(vm *goja.Runtime, client *http.Client) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) != 1 {
			throw(vm, "httpRequest expects exactly one argument")
			return nil
		}
		var spec httpRequestSpec
		if err := vm.ExportTo(call.Arguments[0], &spec); err != nil {
			throw(vm, err.Error())
			return nil
		}
		if spec.Method == "" {
			spec.Method = http.MethodGet
		}
		req, err := http.NewRequest(spec.Method, spec.URL, strings.NewReader(spec.Body))
		if err != nil {
			throw(vm, err.Error())
			return nil
		}
		for k, v := range spec.Headers {
			req.Header.Add(k, v)
		}
		resp, err := client.Do(req)
		if err != nil {
			throw(vm, err.Error())
			return nil
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(io.LimitReader(resp.Body, respBodyCap))
		if err != nil {
			throw(vm, err.Error())
			return nil
		}
		headers := make(map[string]string, len(resp.Header))
		for k := range resp.Header {
			headers[k] = resp.Header.Get(k)
		}
		return vm.ToValue(httpResponse{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Headers:    headers,
		})
	}
}

// throw raises a JS exception inside the runtime.
func throw(vm *goja.Runtime, errStr string) {
	panic(vm.NewGoError(&pluginHostError{errStr}))
}

type pluginHostError struct{ msg string }

func (e *pluginHostError) Error() string { return e.msg }
