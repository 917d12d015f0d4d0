package plan

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError represents a structural problem in a Model.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the model for structural issues and returns all of them.
// A model produced by Planner.Plan validates cleanly; failures indicate a
// planner bug or a hand-built model.
func Validate(m *Model) []error {
	var errs []*ValidationError

	if err := validate.Struct(m); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			return []error{err}
		}
		for _, ve := range valErrs {
			errs = append(errs, &ValidationError{
				Code:    "invalid_" + ve.Tag(),
				Message: fmt.Sprintf("%s: failed %s validation", ve.Namespace(), ve.Tag()),
			})
		}
	}

	classes := make(map[string]*ClassDescriptor)
	bindingNames := make(map[string]bool)
	for _, c := range m.Classes {
		if classes[c.FullName] != nil {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_class",
				Message: "duplicate class name: " + c.FullName,
			})
		}
		classes[c.FullName] = c
		bindingNames[c.BindingName] = true

		fields := make(map[string]bool)
		for _, f := range c.Fields {
			if fields[f.Name] {
				errs = append(errs, &ValidationError{
					Code:    "duplicate_field",
					Message: "duplicate field " + f.Name + " in class " + c.FullName,
				})
			}
			fields[f.Name] = true
		}
	}

	for _, c := range m.Classes {
		if c.Outer != "" && classes[c.Outer] == nil {
			errs = append(errs, &ValidationError{
				Code:    "missing_outer",
				Message: "class " + c.FullName + " is nested in unknown class " + c.Outer,
			})
		}
		if c.Outer != "" && len(c.Imports) > 0 {
			errs = append(errs, &ValidationError{
				Code:    "nested_imports",
				Message: "nested class " + c.FullName + " carries its own import list",
			})
		}
	}

	qnames := make(map[string]bool)
	for _, b := range m.Bindings {
		if qnames[b.QName] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_binding",
				Message: "duplicate binding for " + b.QName,
			})
		}
		qnames[b.QName] = true
		if !b.Pregenerated && !bindingNames[b.Class] {
			errs = append(errs, &ValidationError{
				Code:    "missing_binding_class",
				Message: "binding " + b.QName + " refers to unknown class " + b.Class,
			})
		}
	}

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}
