package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// GenerationResult holds the artifacts produced for one work plus the
// documents that could not be rendered.
type GenerationResult struct {
	Artifacts []GeneratedArtifact
	Omitted   []Omission
}

// GenerateDocuments renders all four document types in both formats. The
// renders are independent and run concurrently; the result keeps the fixed
// generation order regardless of completion order. A failed render becomes an
// omission with its reason, never an error for the batch: partial success is
// visible in the manifest, not fatal.
func GenerateDocuments(ctx context.Context, view TenderDocumentView) GenerationResult {
	type job struct {
		docType DocumentType
		format  Format
	}
	var jobs []job
	for _, dt := range DocumentTypes {
		for _, f := range Formats {
			jobs = append(jobs, job{docType: dt, format: f})
		}
	}

	type slot struct {
		artifact *GeneratedArtifact
		omission *Omission
	}
	slots := make([]slot, len(jobs))

	g, _ := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			fileName := ArtifactFileName(j.docType, view.NITNumber, j.format)
			data, err := Render(view, j.docType, j.format)
			if err != nil {
				slots[i].omission = &Omission{
					DocumentType: j.docType,
					Format:       j.format,
					FileName:     fileName,
					Reason:       err.Error(),
				}
				return nil
			}
			slots[i].artifact = &GeneratedArtifact{
				DocumentType: j.docType,
				Format:       j.format,
				FileName:     fileName,
				Bytes:        data,
			}
			return nil
		})
	}
	g.Wait()

	var result GenerationResult
	for _, s := range slots {
		if s.artifact != nil {
			result.Artifacts = append(result.Artifacts, *s.artifact)
		} else if s.omission != nil {
			result.Omitted = append(result.Omitted, *s.omission)
		}
	}
	return result
}

// GeneratePackage builds the document view for a ranked work, renders every
// document and assembles the archive. ValidationError and PreconditionError
// abort the whole request; per-document render failures surface only in the
// package manifest.
func GeneratePackage(ctx context.Context, work WorkRecord, office OfficeMetadata) (*Package, error) {
	view, err := BuildView(work, office)
	if err != nil {
		return nil, err
	}
	result := GenerateDocuments(ctx, view)
	return Assemble(work, result.Artifacts, result.Omitted)
}
