// Package main provides the CLI entry point for xlsxpress-go.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/models"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/output"
)

const defaultConfigFile = "xlsxpress.toml"

// app holds the state shared by the subcommands.
type app struct {
	configPath string
	logLevel   string
	charset    string

	cfg config
	log zerolog.Logger
	out io.Writer
	err io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{out: stdout, err: stderr}
	rootCmd := &cobra.Command{
		Use:   "xlsxpress",
		Short: "Inspect, edit and convert spreadsheets",
		Long: `xlsxpress-go opens xlsx, xlsm, xlsb and xls workbooks, exports them as JSON,
edits single cells and writes the result as xlsx.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "TOML config file (default: ./"+defaultConfigFile+" when present)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.charset, "charset", "", "Code page of legacy .xls text (default: utf-8)")

	rootCmd.AddCommand(a.inspectCmd(), a.setCmd(), a.convertCmd())
	return rootCmd
}

// setup loads the config and builds the logger. Flags win over the file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path, explicit := a.configPath, a.configPath != ""
	if !explicit {
		path = defaultConfigFile
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.charset != "" {
		cfg.Charset = a.charset
	}
	a.cfg = cfg
	if a.log, err = newLogger(a.err, cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (a *app) options() xlsxpress.Options {
	return xlsxpress.Options{Logger: a.log, Charset: a.cfg.Charset}
}

func (a *app) inspectCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		mode       string
		sheetsDir  string
		rangeRef   string
	)
	cmd := &cobra.Command{
		Use:   "inspect [input]",
		Short: "Export a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pretty") {
				pretty = a.cfg.Pretty
			}
			if !cmd.Flags().Changed("mode") {
				mode = a.cfg.Mode
			}
			exportMode, err := xlsxpress.ParseMode(mode)
			if err != nil {
				return err
			}

			wb, err := xlsxpress.Extract(args[0], a.options(), xlsxpress.ExportOptions{Mode: exportMode})
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			var jsonData []byte
			if rangeRef != "" {
				view, err := rangeView(wb, rangeRef)
				if err != nil {
					return err
				}
				jsonData, err = output.RangeViewToJSON(&view, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
			} else if jsonData, err = output.ToJSON(wb, pretty); err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0o644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if sheetsDir == "" {
				fmt.Fprintln(a.out, string(jsonData))
			}

			if sheetsDir != "" {
				if err := writeSheetFiles(wb, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&mode, "mode", string(xlsxpress.ModeStandard), "Export mode: light, standard, verbose")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	cmd.Flags().StringVar(&rangeRef, "range", "", "Export only a range such as 'Sheet1!A1:C10'")
	return cmd
}

func writeSheetFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for sheetName, sheet := range wb.Sheets {
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, sheetName+".json")
		if err := os.WriteFile(filename, jsonData, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// splitRef splits "Sheet 1!B2" or "'Sheet 1'!B2" into sheet and reference.
// The sheet is empty when ref has no "!".
func splitRef(ref string) (sheet, local string) {
	i := strings.LastIndex(ref, "!")
	if i < 0 {
		return "", ref
	}
	sheet = ref[:i]
	if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, ref[i+1:]
}

func rangeView(wb *models.WorkbookData, ref string) (models.RangeView, error) {
	sheetName, local := splitRef(ref)
	if sheetName == "" && len(wb.SheetNames) > 0 {
		sheetName = wb.SheetNames[0]
	}
	sheet, ok := wb.Sheets[sheetName]
	if !ok {
		return models.RangeView{}, &xlsxpress.SheetNotFoundError{Name: sheetName}
	}
	r, err := coord.ParseRange(local)
	if err != nil {
		return models.RangeView{}, err
	}
	return models.NewRangeView(wb.BookName, sheetName, sheet, xlsxpress.ExportRange(r)), nil
}

func (a *app) setCmd() *cobra.Command {
	var (
		outputPath string
		valueType  string
	)
	cmd := &cobra.Command{
		Use:   "set [input] [Sheet!A1] [value]",
		Short: "Set one cell and save the workbook as xlsx",
		Long: `set opens the workbook, stores the value in one cell and saves it. Without
--output the input file is replaced, which requires an xlsx input.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, ref, raw := args[0], args[1], args[2]
			v, err := parseValue(raw, valueType)
			if err != nil {
				return err
			}
			target := outputPath
			if target == "" {
				target = input
			}

			wb, err := xlsxpress.Open(input, a.options())
			if err != nil {
				return err
			}
			defer wb.Close()

			sheetName, local := splitRef(ref)
			if sheetName == "" {
				if names := wb.SheetNames(); len(names) > 0 {
					sheetName = names[0]
				}
			}
			ws, err := wb.Sheet(sheetName)
			if err != nil {
				return err
			}
			at, err := coord.ParseReference(local)
			if err != nil {
				return err
			}
			if err := ws.SetValue(at, v); err != nil {
				return err
			}
			if err := wb.Save(target); err != nil {
				return err
			}
			a.log.Info().Str("sheet", sheetName).Str("cell", local).Stringer("value", v).Str("file", target).Msg("cell set")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output xlsx path (default: replace input)")
	cmd.Flags().StringVar(&valueType, "type", "auto", "Value type: auto, string, number, bool, date, formula")
	return cmd
}

// parseValue converts a command-line value. auto reads true and false as
// bools, then tries a number and falls back to string.
func parseValue(raw, typ string) (cell.Value, error) {
	switch typ {
	case "auto":
		switch strings.ToLower(raw) {
		case "true":
			return cell.Bool(true), nil
		case "false":
			return cell.Bool(false), nil
		}
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return cell.Infer(n)
		}
		return cell.String(raw), nil
	case "string":
		return cell.String(raw), nil
	case "number":
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cell.Value{}, fmt.Errorf("invalid number %q: %w", raw, err)
		}
		return cell.Infer(n)
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return cell.Value{}, fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		return cell.Bool(b), nil
	case "date":
		for _, layout := range []string{"2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return cell.Date(t), nil
			}
		}
		return cell.Value{}, fmt.Errorf("invalid date %q", raw)
	case "formula":
		return cell.Formula(raw), nil
	}
	return cell.Value{}, fmt.Errorf("invalid type: %s (must be auto, string, number, bool, date, or formula)", typ)
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output.xlsx]",
		Short: "Rewrite any readable workbook as xlsx",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := xlsxpress.Open(args[0], a.options())
			if err != nil {
				return err
			}
			defer wb.Close()
			if err := wb.Save(args[1]); err != nil {
				return err
			}
			a.log.Info().Str("from", args[0]).Str("to", args[1]).Strs("sheets", wb.SheetNames()).Msg("converted")
			return nil
		},
	}
}
