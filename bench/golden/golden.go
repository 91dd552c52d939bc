// Package golden implements persistence of the "golden reference" named
// in the spec glossary: a pre-computed expected output digest used to
// gate a run as deterministic or not. It operates on hex strings and
// primitive fields only, never on bench.Result, so it stays import-cycle
// free of the bench package.
package golden

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mushkilali/certifiable-bench/bench/hash"
)

// Format is the on-disk golden reference schema version. Bumped whenever
// the file layout changes incompatibly.
const Format = "cb-golden/v1"

// ErrLoad wraps every failure LoadFile can return.
var ErrLoad = errors.New("golden: load failed")

// Reference is the persisted golden reference record.
type Reference struct {
	Format      string `yaml:"format"`
	OutputHash  string `yaml:"output_hash"`
	SampleCount int    `yaml:"sample_count"`
	OutputSize  int64  `yaml:"output_size"`
	Platform    string `yaml:"platform"`
}

// LoadFile reads and strictly parses a golden reference file, the same
// way bench.LoadConfig parses a config file: unrecognised keys are a
// load error, not a silently-ignored field. Per §6, only output_hash is
// mandatory in the golden reference document; format is optional — a
// missing format is tolerated (and logged, then defaulted to the current
// Format) rather than rejected, but a format that is present and does
// not match the current Format is a recognisably-wrong file and is
// still rejected.
func LoadFile(path string) (Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Reference{}, fmt.Errorf("reading golden reference %q: %w: %v", path, ErrLoad, err)
	}
	var ref Reference
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ref); err != nil {
		return Reference{}, fmt.Errorf("parsing golden reference %q: %w: %v", path, ErrLoad, err)
	}
	if ref.Format == "" {
		logrus.Warnf("golden reference %q has no format field, assuming %q", path, Format)
		ref.Format = Format
	} else if ref.Format != Format {
		return Reference{}, fmt.Errorf("golden reference %q has format %q, want %q: %w", path, ref.Format, Format, ErrLoad)
	}
	if _, err := hash.FromHex(ref.OutputHash); err != nil {
		return Reference{}, fmt.Errorf("golden reference %q has malformed output_hash: %w: %v", path, ErrLoad, err)
	}
	return ref, nil
}

// SaveFile writes ref to path as YAML, overwriting any existing file.
func SaveFile(path string, ref Reference) error {
	ref.Format = Format
	data, err := yaml.Marshal(&ref)
	if err != nil {
		return fmt.Errorf("marshalling golden reference: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing golden reference %q: %w", path, err)
	}
	return nil
}

// OutputHashDigest decodes ref's hex output hash back into raw bytes, for
// feeding to hash.Equal against a fresh run's output_hash.
func OutputHashDigest(ref Reference) (hash.Digest, error) {
	return hash.FromHex(ref.OutputHash)
}

// FromRun builds a Reference from a completed run's output hash,
// platform tag and sample/size counts, ready for SaveFile.
func FromRun(outputHash hash.Digest, sampleCount int, outputSize int64, platform string) Reference {
	return Reference{
		Format:      Format,
		OutputHash:  hash.ToHex(outputHash),
		SampleCount: sampleCount,
		OutputSize:  outputSize,
		Platform:    platform,
	}
}
