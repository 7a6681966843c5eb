package driver

import (
	"errors"
	"io/fs"

	"treelower/internal/ast"
	"treelower/internal/astio"
	"treelower/internal/diag"
	"treelower/internal/source"
)

// LoadSnapshots reads every snapshot in paths into fileSet. A snapshot that
// cannot be read is reported in bag and skipped, so one bad input does not
// hide the diagnostics of the others. Files keep the order of paths.
func LoadSnapshots(paths []string, fileSet *source.FileSet, bag *diag.Bag) []*ast.File {
	var out []*ast.File
	for _, p := range paths {
		files, err := astio.ReadFile(p, fileSet)
		if err != nil {
			code := diag.IODecodeError
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				code = diag.IOLoadFileError
			}
			bag.Add(diag.NewError(code, source.Span{}, err.Error()))
			continue
		}
		out = append(out, files...)
	}
	return out
}
