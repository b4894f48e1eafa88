package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tenderkit/internal/document"
	"tenderkit/internal/export"
	"tenderkit/internal/format"
	"tenderkit/internal/i18n"
	"tenderkit/internal/kwic"
	"tenderkit/internal/progress"
	"tenderkit/internal/record"
	"tenderkit/internal/textsource"
	"tenderkit/internal/validate"
	"tenderkit/internal/workspace"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	return enc.Encode(v)
}

func (a *app) message(key string, vars map[string]string) string {
	return i18n.Format(a.cfg.App.Language, key, vars)
}

func (a *app) initCmd() *cobra.Command {
	var treePath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the working directory layout",
		Long: `Creates data, data/uploads, data/processed, reports, models, models/cache,
models/embeddings and logs under the configured base directory.

With --tree, the directories and empty files described by a TOML, YAML or
JSON tree document are created as well. Existing files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := a.cfg.Paths.Base

			if err := workspace.EnsureTree(base); err != nil {
				return err
			}

			if treePath != "" {
				tree, err := workspace.LoadTree(treePath)
				if err != nil {
					return err
				}

				if err := workspace.MaterializeTree(base, tree); err != nil {
					return err
				}
			}

			a.logger.Info("workspace ready", zap.String("base", base))
			fmt.Fprintln(cmd.OutOrStdout(), a.message("cli_init_done", map[string]string{"path": base}))

			return nil
		},
	}

	cmd.Flags().StringVar(&treePath, "tree", "", "tree document with extra directories and files")

	return cmd
}

func (a *app) formatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Render values the way the Arabic dashboard shows them",
	}

	var currency string

	money := &cobra.Command{
		Use:   "money [amount]",
		Short: "Format an amount with thousand separators and a currency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := optionalFloat(args)
			if err != nil {
				return err
			}

			if currency == "" {
				currency = a.cfg.Format.Currency
			}

			fmt.Fprintln(cmd.OutOrStdout(), format.Money(amount, currency))

			return nil
		},
	}
	money.Flags().StringVar(&currency, "currency", "", "currency label (defaults to the configured one)")

	percent := &cobra.Command{
		Use:   "percent [value]",
		Short: "Format a percentage with up to two decimals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := optionalFloat(args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), format.Percent(value))

			return nil
		},
	}

	date := &cobra.Command{
		Use:   "date [YYYY-MM-DD]",
		Short: "Format a date with the Arabic month name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) > 0 {
				text = args[0]
			}

			fmt.Fprintln(cmd.OutOrStdout(), format.Date(format.TextDate(text)))

			return nil
		},
	}

	cmd.AddCommand(money, percent, date)

	return cmd
}

// optionalFloat parses the first argument; no argument means an absent value
func optionalFloat(args []string) (*float64, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(args[0]), ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", args[0], err)
	}

	return &v, nil
}

func (a *app) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <current> <total>",
		Short: "Classify progress into a status bucket and color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid current value %q: %w", args[0], err)
			}

			total, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid total value %q: %w", args[1], err)
			}

			return printJSON(cmd.OutOrStdout(), progress.Classify(current, total))
		},
	}
}

func (a *app) kwicCmd() *cobra.Command {
	var (
		file     string
		keywords []string
		window   int
	)

	cmd := &cobra.Command{
		Use:   "kwic",
		Short: "Find whole-word keyword hits with surrounding context",
		Long: `Searches a text file for each keyword (case-insensitive, whole words) and
prints every hit with its rune position and a context window, ordered by
position. Files ending in .gz or .zst are decompressed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textsource.ReadText(file)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("window") {
				window = a.cfg.KWIC.Window
			}

			hits := kwic.Extract(text, keywords, window)
			a.logger.Debug("keyword search done", zap.Int("hits", len(hits)))

			return printJSON(cmd.OutOrStdout(), hits)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "text file to search (plain, .gz or .zst)")
	cmd.Flags().StringArrayVar(&keywords, "keyword", nil, "keyword to find, matched literally (repeatable)")
	cmd.Flags().IntVar(&window, "window", kwic.DefaultWindow, "context characters on each side")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("keyword")

	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var recordPath, rulesPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a record against a rule set",
		Long: `Validates the fields of a record document against a rule set document.
Both may be TOML, YAML or JSON. Failing fields are listed with their
messages and the command exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec map[string]any

			if err := document.DecodeFile(recordPath, &rec); err != nil {
				return err
			}

			rules, err := validate.LoadRuleSet(rulesPath)
			if err != nil {
				return err
			}

			report := validate.ValidateLang(rec, rules, a.cfg.App.Language)
			if !report.Valid() {
				a.logger.Debug("record rejected", zap.Strings("fields", report.Fields()))
				return report.Err()
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.message("cli_validation_passed", nil))

			return nil
		},
	}

	cmd.Flags().StringVar(&recordPath, "record", "", "record document")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "rule set document")
	_ = cmd.MarkFlagRequired("record")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var recordsPath, out, sheet string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to an xlsx workbook or a JSON document",
		Long: `Reads an array of records from a JSON or YAML file and writes it to --out.
An .xlsx target produces a workbook with one sheet; any other extension
produces indented UTF-8 JSON. Relative targets are placed in the reports
directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := record.Load(recordsPath)
			if err != nil {
				return err
			}

			target := out
			if !filepath.IsAbs(target) && filepath.Dir(target) == "." {
				target = a.cfg.Path(filepath.Join(a.cfg.Paths.Reports, target))
			}

			if sheet == "" {
				sheet = a.cfg.Export.SheetName
			}

			exporter := export.New(a.logger, export.WithRightToLeft(a.cfg.Export.RightToLeft))

			if strings.EqualFold(filepath.Ext(target), ".xlsx") {
				err = exporter.WriteTabular(records, target, sheet)
			} else {
				err = exporter.WriteStructured(records, target)
			}

			if err != nil {
				return err
			}

			a.logger.Info("export written", zap.String("path", target), zap.Int("records", len(records)))
			fmt.Fprintln(cmd.OutOrStdout(), a.message("cli_saved", map[string]string{"path": target}))

			return nil
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "JSON or YAML array of records")
	cmd.Flags().StringVar(&out, "out", "", "target file (.xlsx or .json)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name for workbooks")
	_ = cmd.MarkFlagRequired("records")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (a *app) uploadCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Store a file in the uploads directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := workspace.ReadFileBlob(args[0])
			if err != nil {
				return err
			}

			if dir == "" {
				dir = a.cfg.Path(a.cfg.Paths.Uploads)
			}

			path, err := workspace.SaveBlob(blob, dir)
			if err != nil {
				return err
			}

			a.logger.Info("blob saved", zap.String("path", path), zap.Int("bytes", len(blob.Bytes())))
			fmt.Fprintln(cmd.OutOrStdout(), a.message("cli_saved", map[string]string{"path": path}))

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "target directory (defaults to the configured uploads directory)")

	return cmd
}
