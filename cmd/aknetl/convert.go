package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bmcallis/aknetl/internal/aknxml"
	"github.com/bmcallis/aknetl/internal/config"
	"github.com/bmcallis/aknetl/internal/confirm"
	"github.com/bmcallis/aknetl/internal/frbr"
	"github.com/bmcallis/aknetl/internal/pipeline"
	"github.com/bmcallis/aknetl/internal/source"
)

func newConvertCmd() *cobra.Command {
	var (
		outPath     string
		title       string
		metaPath    string
		patternFile string
		docName     string
		noLLM       bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a single document to Akoma Ntoso XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], outPath, title, metaPath, patternFile, docName, noLLM)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().StringVar(&metaPath, "meta", "", "JSON file with document metadata")
	cmd.Flags().StringVar(&patternFile, "patterns", "", "YAML file with boundary patterns")
	cmd.Flags().StringVar(&docName, "doc-name", "regulation", "Akoma Ntoso document name")
	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip boundary corroboration even when an API key is set")

	return cmd
}

func runConvert(inPath, outPath, title, metaPath, patternFile, docName string, noLLM bool) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()

	scanner, err := newScanner(patternFile)
	if err != nil {
		return err
	}

	var metaXML string
	if metaPath != "" {
		data, err := os.ReadFile(metaPath)
		if err != nil {
			return fmt.Errorf("read meta: %w", err)
		}
		var meta frbr.Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("parse meta: %w", err)
		}
		metaXML, err = frbr.Build(meta)
		if err != nil {
			return err
		}
	}

	var suggester confirm.Suggester
	if !noLLM && cfg.AnthropicAPIKey != "" {
		claude := confirm.NewClaudeSuggester(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		defer claude.Close()
		suggester = claude
	}
	ccfg := confirm.DefaultConfig()
	ccfg.MatchWindow = cfg.MatchWindow
	ccfg.CallTimeout = cfg.SuggestTimeout
	ccfg.MaxConcurrent = cfg.MaxConcurrentSuggest
	confirmer := confirm.New(suggester, log, ccfg)

	reader, err := source.ForFileWith(inPath, source.Options{
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		return err
	}
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	lines, err := reader.Lines(f, inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doc, err := pipeline.Transform(ctx, lines, pipeline.TransformOptions{
		Scanner:   scanner,
		Confirmer: confirmer,
		Title:     title,
		MetaXML:   metaXML,
	})
	if err != nil {
		return err
	}

	for _, finding := range doc.Findings {
		log.Warn("finding", "code", finding.Code, "message", finding.Message, "eid", finding.EID)
	}

	xml, err := aknxml.Serialize(doc, docName)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.Write(xml)
		return err
	}
	if err := os.WriteFile(outPath, xml, 0o644); err != nil {
		return err
	}
	log.Info("wrote document", "path", outPath, "bytes", len(xml))
	return nil
}
