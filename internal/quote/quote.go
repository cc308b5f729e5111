// Package quote runs the parse-then-price pipeline for one document.
package quote

import (
	"fmt"

	"github.com/Simplici0/houtcalc/internal/bvx"
	"github.com/Simplici0/houtcalc/internal/pricing"
	"github.com/Simplici0/houtcalc/internal/project"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
	StagePrice    Stage = "price"
)

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result pairs the parsed project with its quote.
type Result struct {
	Project project.Project
	Quote   pricing.Quote
}

// Pipeline parses documents and prices them.
type Pipeline struct {
	Parser bvx.Parser
}

// FromDocument parses data and prices it against table. On error no partial
// result is returned.
func (p Pipeline) FromDocument(data []byte, table pricing.PriceTable) (Result, error) {
	var proj project.Project
	err := guard(StageParse, func() error {
		var err error
		proj, err = p.Parser.ParseBytes(data)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return FromProject(proj, table)
}

// FromProject validates and prices a project built by any input path.
func FromProject(proj project.Project, table pricing.PriceTable) (Result, error) {
	if err := guard(StageValidate, proj.Validate); err != nil {
		return Result{}, err
	}

	var q pricing.Quote
	err := guard(StagePrice, func() error {
		var err error
		q, err = pricing.Calculate(proj, table)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Project: proj, Quote: q}, nil
}

func guard(stage Stage, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}
