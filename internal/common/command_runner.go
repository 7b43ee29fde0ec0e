package common

import (
	"context"
	"io"

	"resumescore/internal/errors"
	"resumescore/internal/resume"
)

// AnalysisFunc computes a printable result for one document.
type AnalysisFunc[Output any] func(context.Context, resume.Document) (Output, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc func(doc resume.Document, cfg CommandConfig)

// RunAnalysisCommand loads a document file, runs analyze and prints the result.
func RunAnalysisCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	w io.Writer,
	cmdConfig CommandConfig,
	filename string,
	analyze AnalysisFunc[Output],
	logDetails LogDetailsFunc,
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandlerTo(logger, w)

	doc, err := fileProcessor.LoadDocument(filename, cmdConfig.InputFormat, cmdConfig.Strict)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(doc, cmdConfig)
	}

	result, err := analyze(ctx, doc)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
