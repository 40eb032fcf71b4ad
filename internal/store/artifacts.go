// Package store persists trained models, their metadata and the history of
// training runs.
package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/regression"
)

// Artifact file names inside an artifact directory.
const (
	ModelFile    = "model.gob"
	MetadataFile = "model_metadata.json"
	RegistryFile = "runs.db"
)

//go:embed metadata.schema.json
var metadataSchema []byte

var metadataSchemaLoader = gojsonschema.NewBytesLoader(metadataSchema)

// SaveArtifacts writes the fitted model and its metadata into dir. Each file
// is written to a temporary name first and renamed into place.
func SaveArtifacts(dir string, reg regression.Regressor, meta model.Metadata) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}

	var modelBuf bytes.Buffer
	if err := regression.Encode(&modelBuf, reg); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := ValidateMetadata(metaBytes); err != nil {
		return err
	}

	if err := writeFileAtomic(filepath.Join(dir, ModelFile), modelBuf.Bytes()); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, MetadataFile), append(metaBytes, '\n')); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// LoadArtifacts reads the model and metadata written by SaveArtifacts.
func LoadArtifacts(dir string) (regression.Regressor, model.Metadata, error) {
	meta, err := LoadMetadata(dir)
	if err != nil {
		return nil, model.Metadata{}, err
	}

	path := filepath.Join(dir, ModelFile)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.Metadata{}, fmt.Errorf("%w: %s", model.ErrMissingFile, path)
		}
		return nil, model.Metadata{}, fmt.Errorf("opening model: %w", err)
	}
	defer func() { _ = f.Close() }()

	reg, err := regression.Decode(f)
	if err != nil {
		return nil, model.Metadata{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if meta.Family != "" && meta.Family != string(reg.Family()) {
		return nil, model.Metadata{}, fmt.Errorf("metadata family %q does not match model family %q", meta.Family, reg.Family())
	}
	return reg, meta, nil
}

// LoadMetadata reads and validates only the metadata artifact.
func LoadMetadata(dir string) (model.Metadata, error) {
	path := filepath.Join(dir, MetadataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Metadata{}, fmt.Errorf("%w: %s", model.ErrMissingFile, path)
		}
		return model.Metadata{}, fmt.Errorf("reading metadata: %w", err)
	}
	if err := ValidateMetadata(data); err != nil {
		return model.Metadata{}, fmt.Errorf("%s: %w", path, err)
	}

	var meta model.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return model.Metadata{}, fmt.Errorf("parsing metadata: %w", err)
	}
	return meta, nil
}

// ValidateMetadata checks a metadata document against the embedded JSON schema.
func ValidateMetadata(data []byte) error {
	result, err := gojsonschema.Validate(metadataSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating metadata: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid metadata: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
