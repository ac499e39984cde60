// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the office2pdf
// packages: conversion requests and results, engine and document
// classifications, and configuration.
package types

import (
	"time"

	"github.com/google/uuid"
)

// DocType is the document family inferred from a source file extension.
type DocType string

const (
	DocWord         DocType = "word"
	DocSpreadsheet  DocType = "excel"
	DocPresentation DocType = "presentation"
)

// Engine identifies the office backend that performs a conversion.
type Engine string

const (
	// EngineMSOffice is Microsoft Office driven through COM automation.
	EngineMSOffice Engine = "msoffice"
	// EngineWPS is WPS Office driven through COM automation.
	EngineWPS Engine = "wps"
	// EngineLibreOffice is soffice invoked in headless mode.
	EngineLibreOffice Engine = "libreoffice"
	// EngineNone means no backend was found.
	EngineNone Engine = "none"
)

// IsSuite reports whether the engine is an automation-driven office suite.
func (e Engine) IsSuite() bool {
	return e == EngineMSOffice || e == EngineWPS
}

// Request describes one conversion. It is immutable once created.
type Request struct {
	// ID uniquely identifies the request in logs and the history journal.
	ID string `json:"id" yaml:"id"`

	// SourcePath is the Office document to convert.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputDir receives <base>.pdf. Created if missing.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DocType is inferred from the SourcePath extension.
	DocType DocType `json:"doc_type" yaml:"doc_type"`
}

// NewRequest creates a request with a fresh ID. The document type is left
// empty; the dispatcher fills it during classification.
func NewRequest(sourcePath, outputDir string) Request {
	return Request{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		OutputDir:  outputDir,
	}
}

// Result is the outcome of a successful conversion.
type Result struct {
	RequestID  string    `json:"request_id" yaml:"request_id"`
	Engine     Engine    `json:"engine" yaml:"engine"`
	OutputPath string    `json:"output_path" yaml:"output_path"`
	Pages      int       `json:"pages,omitempty" yaml:"pages,omitempty"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// Duration returns how long the conversion took.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
