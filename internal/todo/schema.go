package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var documentSchema string

const documentSchemaURL = "tasks.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchema)); err != nil {
		return nil, fmt.Errorf("add task schema: %w", err)
	}
	schema, err := compiler.Compile(documentSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}
	return schema, nil
})

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateDocument checks a serialized task list against the task schema.
// It returns every violation found, or nil when the document is valid.
func ValidateDocument(data []byte) []error {
	schema, err := compileSchema()
	if err != nil {
		return []error{err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("parse task list: %w", err)}}
	}

	if err := schema.Validate(doc); err != nil {
		var errs []error
		collectSchemaErrors(&errs, err)
		return errs
	}
	return nil
}

// DecodeDocument validates and decodes a serialized task list.
func DecodeDocument(data []byte) ([]Task, error) {
	if errs := ValidateDocument(data); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	for i := range tasks {
		if tasks[i].Date != nil && tasks[i].Date.IsZero() {
			tasks[i].Date = nil
		}
	}
	return tasks, nil
}

// EncodeDocument serializes tasks. A nil or empty slice encodes as [].
func EncodeDocument(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode task list: %w", err)
	}
	return data, nil
}

func collectSchemaErrors(errs *[]error, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		*errs = append(*errs, err)
		return
	}
	if len(ve.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(ve.InstanceLocation),
			Err:  errors.New(ve.Message),
		})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(errs, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
