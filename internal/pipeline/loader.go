// Package pipeline assembles document models: validate, parse, extract,
// style and partition, as one cancellable unit of work per load request.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/document"
	"github.com/dgallion1/mdview/internal/extract"
	"github.com/dgallion1/mdview/internal/mdparse"
	"github.com/dgallion1/mdview/internal/section"
	"github.com/dgallion1/mdview/internal/validator"
)

// Result pairs an assembled model with its section partition.
type Result struct {
	Model    *document.Model
	Sections []document.RenderedSection
}

// Loader runs the document pipeline. It is stateless apart from injected
// collaborators, so one Loader serves any number of documents.
type Loader struct {
	parser     *mdparse.Parser
	vcfg       validator.Config
	sectionCfg section.Config
	wpm        int
	lineHeight float64
	stats      *Stats
	log        *slog.Logger
}

// NewLoader wires a loader from the application config. stats may be nil
// when timing collection is not wanted.
func NewLoader(cfg config.Config, stats *Stats, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		parser: mdparse.New(mdparse.Config{
			Tables:        cfg.EnableTables,
			Strikethrough: cfg.EnableStrikethrough,
			TaskLists:     cfg.EnableTaskLists,
		}),
		vcfg:       validator.FromAppConfig(cfg),
		sectionCfg: section.Config{Lines: cfg.SectionLines, LineHeight: cfg.LineHeight},
		wpm:        cfg.WordsPerMinute,
		lineHeight: cfg.LineHeight,
		stats:      stats,
		log:        log,
	}
}

// Load runs the full pipeline. Recoverable issues are collected on the
// model; a non-nil error means no usable document could be produced.
// The context is checked between phases so a superseded load stops
// promptly instead of finishing work nobody will see.
func (l *Loader) Load(ctx context.Context, content string, ref document.Reference) (*Result, error) {
	log := l.log.With("path", ref.Path, "bytes", len(content))

	if !utf8.ValidString(content) {
		return nil, document.NewLoadError(document.FailUnsupportedEncoding,
			fmt.Errorf("content is not valid UTF-8"))
	}
	// The size cap covers the complete source; splitting front matter off
	// first would let an oversized document sneak under it.
	if err := validator.CheckSize(content, l.vcfg); err != nil {
		return nil, err
	}

	fm, body, hasFM := extract.FrontMatter(content)

	start := time.Now()
	vres := validator.ValidateCollectingErrors(body, l.vcfg)
	l.record("validate", start)
	if !vres.IsValid {
		// Only the size cap invalidates the tolerant path outright.
		return nil, document.NewLoadError(document.FailFileTooLarge,
			fmt.Errorf("%s", vres.Errors[0].Message))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	tree := l.parser.Tree(vres.Sanitized)
	l.record("parse", start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	meta := extract.Metadata(tree, vres.Sanitized, ref, l.wpm)
	nested, flat := extract.Headings(tree, l.lineHeight)
	l.record("extract", start)
	if hasFM && meta.Title == "" {
		meta.Title = extract.FrontMatterTitle(fm)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	styled := mdparse.Style(tree, vres.Sanitized)
	sections := section.Partition(styled, l.sectionCfg)
	l.record("partition", start)

	model := &document.Model{
		ID:           document.NewID(),
		Ref:          ref,
		Raw:          body,
		Styled:       styled,
		Metadata:     meta,
		Outline:      nested,
		FlatOutline:  flat,
		ParsedAt:     time.Now(),
		Version:      document.FormatVersion,
		SyntaxErrors: vres.Errors,
	}

	log.Info("document loaded",
		"words", meta.WordCount,
		"lines", meta.LineCount,
		"sections", len(sections),
		"syntax_errors", len(model.SyntaxErrors),
	)
	return &Result{Model: model, Sections: sections}, nil
}

// ValidateOnly is the cheap strict pre-check: the first failed validation
// aborts without building anything.
func (l *Loader) ValidateOnly(content string) error {
	if !utf8.ValidString(content) {
		return document.NewLoadError(document.FailUnsupportedEncoding,
			fmt.Errorf("content is not valid UTF-8"))
	}
	if err := validator.CheckSize(content, l.vcfg); err != nil {
		return err
	}
	_, body, _ := extract.FrontMatter(content)
	return validator.Validate(body, l.vcfg)
}

func (l *Loader) record(phase string, start time.Time) {
	if l.stats != nil {
		l.stats.Record(phase, time.Since(start))
	}
}
