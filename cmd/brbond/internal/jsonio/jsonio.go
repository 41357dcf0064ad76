// Package jsonio reads a single JSON object or an array of objects and writes
// results back in the same shape.
package jsonio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoInput is returned when no path is given and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass --input or pipe JSON on stdin")

// ReadInput reads path, or stdin when path is empty.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		return os.ReadFile(path)
	}
	if f, ok := stdin.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return nil, ErrNoInput
		}
	}
	return io.ReadAll(stdin)
}

// Decode accepts either one object or a non-empty array; isArray reports which.
func Decode[T any](raw []byte) (items []T, isArray bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, true, err
		}
		if len(items) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return items, true, nil
	}
	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, false, err
	}
	return []T{item}, false, nil
}

// Write emits outputs as an array, or its only element when isArray is false.
func Write[T any](w io.Writer, outputs []T, isArray bool) error {
	var v any = outputs
	if !isArray && len(outputs) == 1 {
		v = outputs[0]
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteError emits {"error": msg}, used when the input itself is unreadable.
func WriteError(w io.Writer, msg string) error {
	b, err := json.Marshal(struct {
		Error string `json:"error"`
	}{msg})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
