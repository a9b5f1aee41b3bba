package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/matzehuels/repostory/pkg/pipeline"
)

// stdoutPath as an output path writes to stdout.
const stdoutPath = "-"

// defaultOutput names a file after the command and format, e.g.
// "repo_graph.svg".
func defaultOutput(base, format string) string {
	return base + "." + format
}

// writeArtifact saves data to path, or to w when path is stdoutPath.
func writeArtifact(w io.Writer, path string, data []byte, what string) error {
	if path == stdoutPath {
		_, err := w.Write(data)
		return err
	}
	if err := pipeline.WriteDocument(path, data); err != nil {
		return err
	}
	printSuccess(w, "Rendered %s", what)
	printFile(w, path)
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
