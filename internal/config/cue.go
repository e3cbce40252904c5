// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// maxConfigFileSize bounds config files read into memory.
const maxConfigFileSize = 1 << 20

//go:embed config_schema.cue
var configSchema string

// decodeValue validates value against #Config and decodes it into a fileConfig.
func decodeValue(ctx *cue.Context, value cue.Value, path string) (*fileConfig, error) {
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return nil, formatCUEError(err, path)
	}
	return &fc, nil
}

// decodeCUE compiles CUE source and decodes it.
func decodeCUE(data []byte, path string) (*fileConfig, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if value.Err() != nil {
		return nil, formatCUEError(value.Err(), path)
	}
	return decodeValue(ctx, value, path)
}

// decodeDocument validates an already parsed document, such as YAML, by
// encoding it as a CUE value.
func decodeDocument(doc map[string]any, path string) (*fileConfig, error) {
	ctx := cuecontext.New()
	value := ctx.Encode(doc)
	if value.Err() != nil {
		return nil, formatCUEError(value.Err(), path)
	}
	return decodeValue(ctx, value, path)
}

// formatCUEError flattens CUE errors into "<file>: <path>: <message>" lines.
func formatCUEError(err error, filePath string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		if pathStr != "" {
			msg = pathStr + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, filePath, lines[0])
	}
	return fmt.Errorf("%w: %s: validation failed:\n  %s", ErrInvalidConfig, filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE error path such as ["start_levels", "org.example"]
// as start_levels."org.example"; numeric elements become indices.
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case isIndex(part) && i > 0:
			b.WriteString("[" + part + "]")
		case strings.Contains(part, "."):
			if i > 0 {
				b.WriteString(".")
			}
			b.WriteString(fmt.Sprintf("%q", part))
		default:
			if i > 0 {
				b.WriteString(".")
			}
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
