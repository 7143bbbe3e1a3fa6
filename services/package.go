package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the fixed name of the manifest entry inside every package.
const ManifestName = "manifest.json"

// GeneratedArtifact is one rendered document. Immutable once produced.
type GeneratedArtifact struct {
	DocumentType DocumentType `json:"document_type"`
	Format       Format       `json:"format"`
	FileName     string       `json:"file_name"`
	Bytes        []byte       `json:"-"`
}

// Omission records a document that failed to render and the reason it was
// left out of the package.
type Omission struct {
	DocumentType DocumentType `json:"document_type"`
	Format       Format       `json:"format"`
	FileName     string       `json:"file_name"`
	Reason       string       `json:"reason"`
}

// Manifest describes the contents of a document package.
type Manifest struct {
	GenerationID string     `json:"generation_id"`
	GeneratedAt  string     `json:"generated_at"`
	WorkID       string     `json:"work_id"`
	NITNumber    string     `json:"nit_number"`
	WorkName     string     `json:"work_name"`
	Files        []string   `json:"files"`
	Omitted      []Omission `json:"omitted,omitempty"`
}

// Package is the downloadable archive plus its metadata.
type Package struct {
	FileName string
	Bytes    []byte
	Manifest Manifest
}

// Assemble zips the successful artifacts in generation order together with a
// manifest that also records every omitted document. It fails with an
// *AssemblyError when nothing rendered, since an empty package would be
// useless to the caller.
func Assemble(work WorkRecord, artifacts []GeneratedArtifact, omitted []Omission) (*Package, error) {
	if len(artifacts) == 0 {
		return nil, &AssemblyError{
			Message: fmt.Sprintf("no documents rendered for work %s; nothing to package", work.ID),
		}
	}

	manifest := Manifest{
		GenerationID: uuid.NewString(),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		WorkID:       work.ID,
		NITNumber:    work.NITNumber,
		WorkName:     work.WorkName,
		Files:        make([]string, 0, len(artifacts)),
		Omitted:      omitted,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, a := range artifacts {
		w, err := zw.Create(a.FileName)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", a.FileName, err)
		}
		if _, err := w.Write(a.Bytes); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", a.FileName, err)
		}
		manifest.Files = append(manifest.Files, a.FileName)
	}

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	w, err := zw.Create(ManifestName)
	if err != nil {
		return nil, fmt.Errorf("create manifest entry: %w", err)
	}
	if _, err := w.Write(manifestJSON); err != nil {
		return nil, fmt.Errorf("write manifest entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	return &Package{
		FileName: fmt.Sprintf("%s_documents.zip", sanitizeFileStem(work.ID)),
		Bytes:    buf.Bytes(),
		Manifest: manifest,
	}, nil
}
