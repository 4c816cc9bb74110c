package cli

import (
	"io"
	"os"

	"github.com/arloliu/tsln/dataset"
)

// openInput returns the named file, or standard input for "" and "-".
func openInput(stdin io.Reader, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(stdin), nil
	}

	return os.Open(args[0])
}

func readDataset(stdin io.Reader, args []string) (dataset.Dataset, error) {
	in, err := openInput(stdin, args)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return dataset.ReadJSON(in)
}

func readText(stdin io.Reader, args []string) (string, error) {
	in, err := openInput(stdin, args)
	if err != nil {
		return "", err
	}
	defer in.Close()

	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// createOutput returns the named file, or stdout for "" and "-".
func createOutput(stdout io.Writer, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{stdout}, nil
	}

	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
