// Package compiler turns authored CUE form documents into field-definition
// trees and checks them for structural problems before they reach the
// engine.
//
// A form document declares a top-level "form" struct:
//
//	form: {
//		title: "Intake"
//		fields: [
//			{id: "name", fieldType: "text", label: "Your name", required: true},
//			{id: "details", fieldType: "section", children: [...]},
//		]
//	}
//
// Compilation parses the document into schema.Field values; Validate then
// applies the structural rules (unique IDs, known types, resolvable rule
// targets) and AnalyzeCycles reports condition-dependency cycles.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/quillform/quillform/internal/schema"
)

// Form is a compiled form document: a title plus the definition tree.
type Form struct {
	Title  string         `json:"title"`
	Fields []schema.Field `json:"fields"`
}

// CompileError reports a problem in an authored form document, with the
// CUE source position when one is available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileForm parses a CUE value holding a form document.
//
// The value should be the document root, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`form: { fields: [...] }`)
//	form, err := compiler.CompileForm(v)
func CompileForm(v cue.Value) (*Form, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	formVal := v.LookupPath(cue.ParsePath("form"))
	if !formVal.Exists() {
		return nil, &CompileError{
			Field:   "form",
			Message: "document must declare a top-level form struct",
			Pos:     v.Pos(),
		}
	}

	form := &Form{}

	if titleVal := formVal.LookupPath(cue.ParsePath("title")); titleVal.Exists() {
		title, err := titleVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		form.Title = title
	}

	fieldsVal := formVal.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{
			Field:   "form.fields",
			Message: "form must declare a fields list",
			Pos:     formVal.Pos(),
		}
	}

	fields, err := compileFieldList(fieldsVal, "form.fields")
	if err != nil {
		return nil, err
	}
	form.Fields = fields

	return form, nil
}

// compileFieldList parses an ordered list of field definitions, recursing
// into section children.
func compileFieldList(v cue.Value, path string) ([]schema.Field, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   path,
			Message: "must be a list of field definitions",
			Pos:     v.Pos(),
		}
	}

	var fields []schema.Field
	for i := 0; iter.Next(); i++ {
		f, err := compileField(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		fields = append(fields, *f)
	}
	return fields, nil
}

// compileField parses one field definition. The id and fieldType
// attributes are required; everything else decodes through the schema
// struct's JSON tags.
func compileField(v cue.Value, path string) (*schema.Field, error) {
	idVal := v.LookupPath(cue.ParsePath("id"))
	if !idVal.Exists() {
		return nil, &CompileError{Field: path + ".id", Message: "id is required", Pos: v.Pos()}
	}
	id, err := idVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if id == "" {
		return nil, &CompileError{Field: path + ".id", Message: "id must be non-empty", Pos: idVal.Pos()}
	}

	typeVal := v.LookupPath(cue.ParsePath("fieldType"))
	if !typeVal.Exists() {
		return nil, &CompileError{Field: path + ".fieldType", Message: "fieldType is required", Pos: v.Pos()}
	}

	f := &schema.Field{}
	if err := v.Decode(f); err != nil {
		return nil, formatCUEError(err)
	}

	// Children decode along with everything else, but re-parsing them
	// through compileField keeps error paths precise.
	childrenVal := v.LookupPath(cue.ParsePath("children"))
	if childrenVal.Exists() {
		children, err := compileFieldList(childrenVal, path+".children")
		if err != nil {
			return nil, err
		}
		f.Children = children
	}

	return f, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return firstErr
}
