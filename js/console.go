package js

import (
	"strings"
	"time"

	"github.com/dop251/goja"
)

// setupConsole creates the console object. Output goes to the runtime's
// logger: log and info at V(0), debug and trace at V(1), error through
// Error.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logger := r.logger.WithName("console")

	console.Set("log", func(call goja.FunctionCall) goja.Value {
		logger.Info(formatArgs(call.Arguments))
		return goja.Undefined()
	})

	console.Set("info", func(call goja.FunctionCall) goja.Value {
		logger.Info(formatArgs(call.Arguments))
		return goja.Undefined()
	})

	console.Set("warn", func(call goja.FunctionCall) goja.Value {
		logger.Info(formatArgs(call.Arguments), "severity", "warning")
		return goja.Undefined()
	})

	console.Set("error", func(call goja.FunctionCall) goja.Value {
		logger.Error(nil, formatArgs(call.Arguments))
		return goja.Undefined()
	})

	console.Set("debug", func(call goja.FunctionCall) goja.Value {
		logger.V(1).Info(formatArgs(call.Arguments))
		return goja.Undefined()
	})

	console.Set("trace", func(call goja.FunctionCall) goja.Value {
		logger.V(1).Info(formatArgs(call.Arguments), "trace", true)
		return goja.Undefined()
	})

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			logger.Error(nil, msg, "assert", true)
		}
		return goja.Undefined()
	})

	// console.count
	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := labelArg(call)
		counts[label]++
		logger.Info(label, "count", counts[label])
		return goja.Undefined()
	})

	console.Set("countReset", func(call goja.FunctionCall) goja.Value {
		delete(counts, labelArg(call))
		return goja.Undefined()
	})

	// console.time / console.timeEnd
	times := make(map[string]time.Time)
	console.Set("time", func(call goja.FunctionCall) goja.Value {
		times[labelArg(call)] = time.Now()
		return goja.Undefined()
	})

	console.Set("timeEnd", func(call goja.FunctionCall) goja.Value {
		label := labelArg(call)
		if start, ok := times[label]; ok {
			logger.Info(label, "elapsed", time.Since(start).String())
			delete(times, label)
		}
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

func labelArg(call goja.FunctionCall) string {
	if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
		return call.Arguments[0].String()
	}
	return "default"
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
