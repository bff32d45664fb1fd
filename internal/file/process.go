package file

import (
	"fmt"
	"io/fs"

	"github.com/zeebo/blake3"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/processor"
)

// Checksum returns the hex BLAKE3 hash of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%x", blake3.Sum256(data))
}

// Process converts the song described by options, reading its input from
// fsys. If options pins no checksum yet, the input's one is filled in.
func Process(fsys fs.FS, config *processor.Config, options *processor.Options, sink func(diag.Diagnostic)) (*processor.Result, error) {
	inBytes, err := fs.ReadFile(fsys, options.InputFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", options.InputFile, err)
	}

	sum := Checksum(inBytes)
	if options.InputFileBLAKE3 != "" && options.InputFileBLAKE3 != sum {
		return nil, fmt.Errorf("mismatching checksum of %v: got %v, want %v", options.InputFile, sum, options.InputFileBLAKE3)
	}

	desc, err := decodeScore(fsys, options, inBytes)
	if err != nil {
		return nil, err
	}

	res, err := processor.Process(desc, config, options, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to process: %w", err)
	}

	if options.InputFileBLAKE3 == "" {
		options.InputFileBLAKE3 = sum
	}
	return res, nil
}
