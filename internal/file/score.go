package file

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"filippo.io/age"
	"gopkg.in/yaml.v3"

	"github.com/divVerent/msrconverser/internal/builder"
	"github.com/divVerent/msrconverser/internal/processor"
)

// identities returns the age identities the options configure.
func identities(fsys fs.FS, options *processor.Options) ([]age.Identity, error) {
	var ids []age.Identity
	if options.AgeIdentityFile != "" {
		f, err := fsys.Open(options.AgeIdentityFile)
		if err != nil {
			return nil, fmt.Errorf("could not open %v: %w", options.AgeIdentityFile, err)
		}
		defer f.Close()
		parsed, err := age.ParseIdentities(f)
		if err != nil {
			return nil, fmt.Errorf("could not parse %v: %w", options.AgeIdentityFile, err)
		}
		ids = append(ids, parsed...)
	}
	if options.AgePassphraseEnv != "" {
		pw := os.Getenv(options.AgePassphraseEnv)
		if pw == "" {
			return nil, fmt.Errorf("environment variable %v is not set", options.AgePassphraseEnv)
		}
		id, err := age.NewScryptIdentity(pw)
		if err != nil {
			return nil, fmt.Errorf("could not build scrypt identity: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// decrypt returns the plaintext of an .age input.
func decrypt(fsys fs.FS, options *processor.Options, data []byte) ([]byte, error) {
	ids, err := identities(fsys, options)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%v is encrypted, but neither age_identity_file nor age_passphrase_env is set", options.InputFile)
	}
	r, err := age.Decrypt(bytes.NewReader(data), ids...)
	if err != nil {
		return nil, fmt.Errorf("could not start decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not finish decrypting: %w", err)
	}
	return plaintext, nil
}

// decodeScore parses the input file contents, decrypting them first if the
// file name ends in .age.
func decodeScore(fsys fs.FS, options *processor.Options, data []byte) (*builder.Score, error) {
	if strings.HasSuffix(options.InputFile, ".age") {
		var err error
		data, err = decrypt(fsys, options, data)
		if err != nil {
			return nil, fmt.Errorf("could not decrypt %v: %w", options.InputFile, err)
		}
	}
	var desc builder.Score
	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&desc)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", options.InputFile, err)
	}
	return &desc, nil
}
