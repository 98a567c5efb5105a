package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed task.schema.json
var taskSchema string

// Problem describes one defect found in the task file.
type Problem struct {
	Line int // 1-based line number in the file
	Err  error
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %v", p.Line, p.Err)
}

// CheckResult holds the outcome of a task file check.
type CheckResult struct {
	Lines    int // non-blank lines inspected
	Problems []Problem
}

// OK reports whether the file passed all checks.
func (r *CheckResult) OK() bool { return len(r.Problems) == 0 }

// Check validates every line of the task file against the embedded
// record schema and flags duplicate ids. It never modifies the file and
// keeps going past bad lines so a report covers the whole file.
func (s *FileStore) Check() (*CheckResult, error) {
	schema, err := compileTaskSchema()
	if err != nil {
		return nil, err
	}

	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read task file %s: %w", s.path, err)
	}

	result := &CheckResult{}
	seen := make(map[int64]int) // id -> first line seen
	for i, line := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result.Lines++

		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			result.Problems = append(result.Problems, Problem{Line: lineNo, Err: fmt.Errorf("not a JSON record: %w", err)})
			continue
		}
		if err := schema.Validate(obj); err != nil {
			result.Problems = append(result.Problems, Problem{Line: lineNo, Err: schemaError(err)})
			continue
		}

		// Schema guarantees an integral id at this point.
		id := recordID(obj)
		if first, dup := seen[id]; dup {
			result.Problems = append(result.Problems, Problem{
				Line: lineNo,
				Err:  fmt.Errorf("duplicate id %d, first seen on line %d", id, first),
			})
			continue
		}
		seen[id] = lineNo
	}

	return result, nil
}

func compileTaskSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("task.schema.json", strings.NewReader(taskSchema)); err != nil {
		return nil, fmt.Errorf("load task schema: %w", err)
	}
	schema, err := compiler.Compile("task.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	return schema, nil
}

// schemaError flattens a jsonschema validation error into its most
// specific cause.
func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "/")
	if loc == "" {
		return fmt.Errorf("%s", ve.Message)
	}
	return fmt.Errorf("%s: %s", loc, ve.Message)
}

func recordID(obj any) int64 {
	m, ok := obj.(map[string]any)
	if !ok {
		return 0
	}
	f, ok := m["id"].(float64)
	if !ok {
		return 0
	}
	return int64(f)
}
