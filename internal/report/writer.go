package report

import (
	"io"

	"github.com/nao1215/csprecommend/internal/model"
)

// Writer writes one analysis. Batch runs call Write once per target.
//
// Design decision: Writers take a model.Analysis rather than a rendered
// policy string because:
// 1. The JSON report needs the origin sets and violations as data
// 2. The Markdown report lays the same data out as a table and a list
// 3. Rendering stays in the policy package, so the plain-text output of
//    every format agrees on directive order and spelling
//
// Writers are not safe for concurrent use; callers serialize Write calls.
type Writer interface {
	// Write writes a and returns the number of bytes written.
	Write(a *model.Analysis) (int, error)
}

// MultiWriter writes every analysis to several Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a MultiWriter.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write implements Writer. It stops at the first error.
func (m *MultiWriter) Write(a *model.Analysis) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(a)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
