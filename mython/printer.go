// printer.go — Object → text formatting (spec.md §4.2's "Printing an instance").
package mython

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrintObject writes h's textual representation to w, with no trailing
// newline. An empty holder writes the literal "None" (spec.md §4.3).
func PrintObject(ctx Context, w io.Writer, h ObjectHolder) error {
	if h.IsEmpty() {
		_, err := io.WriteString(w, "None")
		return err
	}
	switch v := h.Object().(type) {
	case Number:
		_, err := io.WriteString(w, strconv.FormatInt(int64(v), 10))
		return err
	case String:
		_, err := io.WriteString(w, string(v))
		return err
	case Bool:
		if v {
			_, err := io.WriteString(w, "True")
			return err
		}
		_, err := io.WriteString(w, "False")
		return err
	case *Class:
		_, err := fmt.Fprintf(w, "Class %s", v.Name)
		return err
	case *ClassInstance:
		if v.Class.HasMethod(MethodStr, 0) {
			res, err := v.Call(ctx, MethodStr, nil, 0, 0)
			if err != nil {
				return err
			}
			return PrintObject(ctx, w, res.Value)
		}
		_, err := io.WriteString(w, v.placeholder())
		return err
	default:
		return fmt.Errorf("printer: unknown object kind %T", v)
	}
}

// RenderString renders h the way the Print statement would, as a Go string
// (spec.md §3.3's Stringify node).
func RenderString(ctx Context, h ObjectHolder) (string, error) {
	var sb strings.Builder
	if err := PrintObject(ctx, &sb, h); err != nil {
		return "", err
	}
	return sb.String(), nil
}
