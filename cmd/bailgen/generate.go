package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/loader"
	"github.com/dgallion1/bailgen/internal/pipeline"
	"github.com/dgallion1/bailgen/internal/render"
	"github.com/dgallion1/bailgen/internal/vars"
)

var (
	rulesPath       string
	factsPaths      []string
	letterheadsPath string
	outputFormat    string
	outputPath      string
	sectionNames    []string
	templatePath    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a lease from a facts file",
	Long: `Resolve every section against the facts and write the document.

With one --facts file, --out names the output file ("-" writes to stdout).
With several, each facts file becomes its own document and --out names the
directory they are written to.

With --template, the docx output fills a Word template instead of building
the document from scratch: {{ARTICLE_...}} paragraphs receive the sections
and [Variable] placeholders the deal values.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&rulesPath, "rules", "", "Rule table (csv, yaml, json, xlsx); defaults to RULES_PATH")
	generateCmd.Flags().StringSliceVar(&factsPaths, "facts", nil, "Facts file (json, yaml, csv, xlsx); repeatable")
	generateCmd.Flags().StringVar(&letterheadsPath, "letterheads", "", "Letterhead YAML keyed by landlord company; defaults to LETTERHEADS_PATH")
	generateCmd.Flags().StringVarP(&outputFormat, "format", "f", "docx", "Output format: docx, html, markdown or json")
	generateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output file, or directory when several facts files are given")
	generateCmd.Flags().StringSliceVar(&sectionNames, "sections", nil, `Sections to generate, as "Section" or "Section / Designation"`)
	generateCmd.Flags().StringVar(&templatePath, "template", "", "Word template to fill (docx format only)")
	_ = generateCmd.MarkFlagRequired("facts")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ext, err := formatExtension(outputFormat)
	if err != nil {
		return err
	}
	keys, err := pipeline.ParseSectionKeys(sectionNames)
	if err != nil {
		return err
	}
	var tmpl []byte
	if templatePath != "" {
		if ext != ".docx" {
			return fmt.Errorf("--template needs the docx format, got %q", outputFormat)
		}
		if tmpl, err = os.ReadFile(templatePath); err != nil {
			return fmt.Errorf("read template: %w", err)
		}
	}

	gen, letterheads, err := loadGenerator()
	if err != nil {
		return err
	}

	reqs := make([]pipeline.Request, 0, len(factsPaths))
	for _, p := range factsPaths {
		facts, err := loader.LoadFactsFile(p)
		if err != nil {
			return err
		}
		reqs = append(reqs, pipeline.Request{Facts: facts, Sections: keys})
	}

	results, err := gen.GenerateBatch(cmd.Context(), reqs, cfg.BatchConcurrency)
	if err != nil {
		return err
	}

	for i, res := range results {
		for _, d := range res.Diagnostics {
			if d.Severity == diag.SeverityWarning {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", factsPaths[i], d)
			}
		}
		var buf bytes.Buffer
		if tmpl != nil {
			rep, err := render.Fill(&buf, bytes.NewReader(tmpl), int64(len(tmpl)), pipeline.TemplateData(res))
			if err != nil {
				return fmt.Errorf("fill %s: %w", factsPaths[i], err)
			}
			logger.Debug("template filled", "facts", factsPaths[i],
				"removed_paragraphs", rep.Removed, "missing_placeholders", len(rep.Missing))
		} else if err := writeResult(&buf, res, letterheads); err != nil {
			return fmt.Errorf("render %s: %w", factsPaths[i], err)
		}

		dest := outputPath
		switch {
		case len(results) > 1:
			dest = filepath.Join(outputPath, outputName(res.Context, ext))
		case dest == "":
			dest = outputName(res.Context, ext)
		}
		if dest == "-" {
			if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		logger.Info("document written", "facts", factsPaths[i], "path", dest,
			"sections", len(res.Present()), "missing_placeholders", len(res.Missing))
		fmt.Fprintln(cmd.OutOrStdout(), dest)
	}
	return nil
}

func loadGenerator() (*pipeline.Generator, map[string]doctree.Letterhead, error) {
	path := rulesPath
	if path == "" {
		path = cfg.RulesPath
	}
	if path == "" {
		return nil, nil, fmt.Errorf("no rule table: pass --rules or set RULES_PATH")
	}
	table, err := loader.LoadRulesFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("rules loaded", "path", path, "rows", table.Len())

	letterheads := map[string]doctree.Letterhead{}
	lhPath := letterheadsPath
	if lhPath == "" {
		lhPath = cfg.LetterheadsPath
	}
	if lhPath != "" {
		if letterheads, err = loader.LoadLetterheadsFile(lhPath); err != nil {
			return nil, nil, err
		}
	}
	return pipeline.NewGenerator(table, nil, logger), letterheads, nil
}

func formatExtension(format string) (string, error) {
	switch strings.ToLower(format) {
	case "docx":
		return ".docx", nil
	case "html":
		return ".html", nil
	case "markdown", "md":
		return ".md", nil
	case "json":
		return ".json", nil
	}
	return "", fmt.Errorf("unknown format %q (want docx, html, markdown or json)", format)
}

func outputName(ctx vars.Context, ext string) string {
	name := pipeline.OutputFilename(ctx)
	return strings.TrimSuffix(name, ".docx") + ext
}

// jsonResult is the machine-readable form of a generation.
type jsonResult struct {
	Filename    string            `json:"filename"`
	Sections    []doctree.Section `json:"sections"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Missing     []string          `json:"missing_placeholders"`
	Variables   map[string]string `json:"variables"`
}

func writeResult(w io.Writer, res pipeline.Result, letterheads map[string]doctree.Letterhead) error {
	doc := pipeline.Document(res, letterheads)
	switch strings.ToLower(outputFormat) {
	case "docx":
		return render.DOCX(w, doc)
	case "html":
		body, err := render.HTML(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(render.Page(doc.Title, body))
		return err
	case "markdown", "md":
		_, err := io.WriteString(w, render.Markdown(doc))
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult{
			Filename:    pipeline.OutputFilename(res.Context),
			Sections:    res.Sections,
			Diagnostics: res.Diagnostics,
			Missing:     res.Missing,
			Variables:   res.Context.Strings(),
		})
	}
}
