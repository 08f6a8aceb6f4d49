package vm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zurustar/funk/pkg/value"
)

// print: each argument on its own line, cast to text.
// With no arguments a single empty line is written.
func builtinPrint(v *VM, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		if _, err := fmt.Fprintln(v.out); err != nil {
			return value.None(), err
		}
		return value.None(), nil
	}
	for _, arg := range args {
		if _, err := fmt.Fprintln(v.out, arg.String()); err != nil {
			return value.None(), err
		}
	}
	return value.None(), nil
}

// read: prints its arguments as a prompt, then returns one line of input.
// End of input yields empty text.
func builtinRead(v *VM, args []value.Value) (value.Value, error) {
	if len(args) > 0 {
		if _, err := builtinPrint(v, args); err != nil {
			return value.None(), err
		}
	}
	line, err := v.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return value.None(), err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	v.log.Debug("read line", "bytes", len(line))
	return value.Text(line), nil
}
