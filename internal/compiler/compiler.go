// Package compiler turns a canvas block graph into source code for one
// of the supported target languages. The pipeline mirrors a classic
// front end: build the program graph, validate it, run semantic
// analysis, then generate code.
package compiler

import (
	"errors"

	"blockstudio/internal/catalog"
	"blockstudio/internal/domain"
)

// Stages reported in failed compilation results.
const (
	StageValidation = "validation"
	StageSemantic   = "semantic_analysis"
	StageGeneration = "code_generation"
)

// Result is the outcome of a compilation.
type Result struct {
	Success  bool     `json:"success"`
	Code     string   `json:"code,omitempty"`
	Language string   `json:"language,omitempty"`
	AST      *Program `json:"ast,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Stage    string   `json:"stage,omitempty"`
	// Explanation is produced by an external collaborator (AI service);
	// this compiler leaves it empty.
	Explanation string `json:"explanation,omitempty"`
}

// ValidationResult is the outcome of a structural validation request.
type ValidationResult struct {
	Success         bool     `json:"success"`
	IsValid         bool     `json:"isValid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	BlockCount      int      `json:"block_count"`
	ConnectionCount int      `json:"connection_count"`
}

// Compile builds, validates, analyzes, and generates code for a visual
// program.
func Compile(blocks []domain.SessionBlock, conns []domain.Connection, language string) Result {
	lang, err := catalog.LanguageByID(language)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Result{Success: false, Stage: StageSemantic, Errors: []string{"Unsupported language: " + language}}
		}
		return Result{Success: false, Stage: StageSemantic, Errors: []string{err.Error()}}
	}

	p := Build(blocks, conns)
	warnings := p.Warnings()

	if errs := p.Validate(); len(errs) > 0 {
		return Result{Success: false, Stage: StageValidation, Errors: errs, Warnings: warnings}
	}
	if errs := p.analyze(); len(errs) > 0 {
		return Result{Success: false, Stage: StageSemantic, Errors: errs}
	}

	return Result{
		Success:  true,
		Code:     p.Generate(lang),
		Language: language,
		AST:      p,
		Warnings: warnings,
	}
}

// Validate checks the structural shape of a block program without
// compiling it. Multiple start or end blocks are errors; missing ones
// are only warnings.
func Validate(blocks []domain.SessionBlock, conns []domain.Connection) ValidationResult {
	var errs, warns []string

	starts, ends := 0, 0
	for _, b := range blocks {
		switch domain.BlockType(b.Type) {
		case domain.BlockTypeStart:
			starts++
		case domain.BlockTypeEnd:
			ends++
		}
		if b.Type == "" {
			errs = append(errs, "Found block without type")
		}
		if b.ID == "" {
			errs = append(errs, "Found block without ID")
		}
	}

	if starts > 1 {
		errs = append(errs, "Program can only have one Start block")
	}
	if ends > 1 {
		errs = append(errs, "Program can only have one End block")
	}
	if len(blocks) == 0 {
		errs = append(errs, "Program must have at least one block")
	}
	if starts == 0 {
		warns = append(warns, "Consider adding a Start block to clearly mark the beginning")
	}
	if ends == 0 {
		warns = append(warns, "Consider adding an End block to clearly mark the end")
	}

	return ValidationResult{
		Success:         len(errs) == 0,
		IsValid:         len(errs) == 0,
		Errors:          errs,
		Warnings:        warns,
		BlockCount:      len(blocks),
		ConnectionCount: len(conns),
	}
}
