package brands

import (
	"encoding/csv"
	"io"
	"iter"

	"github.com/cockroachdb/errors"
)

type Result[T any] struct {
	Value   T
	Error   error
	LineNum int
}

// ParseCSV yields one result per record. Iteration stops after the first error.
func ParseCSV[T any](r io.Reader, hasHeader bool, fromCSV func(record, headers []string) (T, error)) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.Comment = '#'

		var headers []string
		lineNum := 0
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Result[T]{Error: err, LineNum: lineNum})
				return
			}
			lineNum, _ = reader.FieldPos(0)

			if hasHeader && headers == nil {
				headers = record
				continue
			}

			value, err := fromCSV(record, headers)
			if err != nil {
				yield(Result[T]{Error: errors.Wrapf(err, "line %d", lineNum), LineNum: lineNum})
				return
			}
			if !yield(Result[T]{Value: value, LineNum: lineNum}) {
				return
			}
		}
	}
}
