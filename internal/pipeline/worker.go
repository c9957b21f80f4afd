package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/aknxml"
	"github.com/bmcallis/aknetl/internal/confirm"
	"github.com/bmcallis/aknetl/internal/scan"
	"github.com/bmcallis/aknetl/internal/source"
)

// Worker runs the transform pipeline for a single job.
type Worker struct {
	scanner   *scan.Scanner
	confirmer *confirm.Confirmer
	log       *slog.Logger
	docName   string
	srcOpts   source.Options
}

func NewWorker(scanner *scan.Scanner, confirmer *confirm.Confirmer, log *slog.Logger, docName string, srcOpts source.Options) *Worker {
	if docName == "" {
		docName = "regulation"
	}
	return &Worker{
		scanner:   scanner,
		confirmer: confirmer,
		log:       log,
		docName:   docName,
		srcOpts:   srcOpts,
	}
}

// Process runs the full transform for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: read the upload into numbered lines.
	job.SetStatus(StatusReading, "reading")
	reader, err := source.ForFileWith(job.Filename, w.srcOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "reading")
		return
	}

	lines, err := reader.Lines(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("read failed", "error", err)
		job.AddError(fmt.Sprintf("read: %s", err))
		job.SetStatus(StatusFailed, "reading")
		return
	}
	job.ContentHash = ContentHashHex([]byte(source.Text(lines)))
	log.Info("read document", "lines", len(lines))

	// Phase 2: scan, confirm and assemble the document model.
	job.SetStatus(StatusTransforming, "transforming")
	doc, err := Transform(ctx, lines, TransformOptions{
		Scanner:   w.scanner,
		Confirmer: w.confirmer,
		Title:     job.Title,
		MetaXML:   job.MetaXML(),
	})
	if err != nil {
		var fatal *akn.FatalInputError
		if errors.As(err, &fatal) {
			log.Error("unusable input", "reason", fatal.Reason)
		} else {
			log.Error("transform failed", "error", err)
		}
		job.AddError(fmt.Sprintf("transform: %s", err))
		job.SetStatus(StatusFailed, "transforming")
		return
	}

	counts := countDocument(doc)
	log.Info("transform complete",
		"chapters", counts.Chapters,
		"sections", counts.Sections,
		"articles", counts.Articles,
		"recitals", counts.Recitals,
		"findings", counts.Findings)

	// Phase 3: serialize.
	job.SetStatus(StatusSerializing, "serializing")
	xml, err := aknxml.Serialize(doc, w.docName)
	if err != nil {
		log.Error("serialize failed", "error", err)
		job.AddError(fmt.Sprintf("serialize: %s", err))
		job.SetStatus(StatusFailed, "serializing")
		return
	}

	job.SetResult(xml, doc.Findings, counts)
	if counts.Findings > 0 {
		job.SetStatus(StatusReview, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

func countDocument(doc *akn.Document) Counts {
	return Counts{
		Chapters: doc.CountByKind(akn.KindChapter),
		Sections: doc.CountByKind(akn.KindSection),
		Articles: doc.CountByKind(akn.KindArticle),
		Recitals: len(doc.Recitals),
		Findings: len(doc.Findings),
	}
}
