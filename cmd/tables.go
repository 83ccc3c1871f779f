package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/meta"
	"github.com/conneroisu/metac/internal/registry"
	"github.com/conneroisu/metac/internal/source"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var tablesCmd = &cobra.Command{
	Use:     "tables <file>",
	Aliases: []string{"t"},
	Short:   "List the tables declared in a file",
	Long: `Parse a file and list every table it declares with its labels and row
count. Nothing is written. A table whose name repeats an earlier table is
marked shadowed: @expand always finds the first declaration.

Examples:
  metac tables enum.c             # Table view
  metac t enum.c --rows           # Include every cell
  metac t enum.c -f yaml          # Output as YAML`,
	Args: cobra.ExactArgs(1),
	RunE: runTables,
}

var (
	tablesFlags *StandardFlags
	tablesRows  bool
)

func init() {
	rootCmd.AddCommand(tablesCmd)

	tablesFlags = AddStandardFlags(tablesCmd, []string{"table", "json", "yaml"}, "output", "cells")
	tablesCmd.Flags().BoolVarP(&tablesRows, "rows", "r", false, "Include the cells of every row")
}

// TableInfo describes one declared table.
type TableInfo struct {
	Name     string     `json:"name" yaml:"name"`
	Offset   int        `json:"offset" yaml:"offset"`
	Labels   []string   `json:"labels" yaml:"labels"`
	Rows     int        `json:"rows" yaml:"rows"`
	Shadowed bool       `json:"shadowed,omitempty" yaml:"shadowed,omitempty"`
	Cells    [][]string `json:"cells,omitempty" yaml:"cells,omitempty"`
}

func runTables(cmd *cobra.Command, args []string) error {
	if err := tablesFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, _, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return errs.WrapIO(err, errs.ErrCodeReadFailed, "cannot read input", path)
	}

	engine := meta.New(meta.Options{
		Limits:          cfg.Limits,
		DepthAwareCells: cfg.Cells.DepthAware || tablesFlags.DepthAware,
	})
	result, err := engine.Run(content)
	if err != nil {
		return err
	}

	infos := describeTables(result.Source, result.Tables, tablesRows)

	switch strings.ToLower(tablesFlags.Format) {
	case "json":
		err = outputTablesJSON(cmd.OutOrStdout(), infos)
	case "yaml":
		err = outputTablesYAML(cmd.OutOrStdout(), infos)
	default:
		err = outputTablesTable(cmd.OutOrStdout(), path, infos)
	}
	if err != nil {
		return err
	}

	if !result.OK() {
		if renderErr := errs.Render(cmd.ErrOrStderr(), result.Diagnostics); renderErr != nil {
			return renderErr
		}
		return errs.NewContentError(path, len(result.Diagnostics))
	}
	return nil
}

func describeTables(buf source.Buffer, tables []registry.Table, withCells bool) []TableInfo {
	shadowed := registry.Shadowed(buf, tables)
	infos := make([]TableInfo, 0, len(tables))

	for i := range tables {
		t := &tables[i]
		info := TableInfo{
			Name:     buf.String(t.Name),
			Offset:   t.Offset,
			Labels:   make([]string, len(t.Labels)),
			Rows:     len(t.Rows),
			Shadowed: shadowed[i],
		}
		for j, l := range t.Labels {
			info.Labels[j] = buf.String(l)
		}
		if withCells {
			info.Cells = make([][]string, len(t.Rows))
			for r, row := range t.Rows {
				cells := make([]string, len(row.Cells))
				for c, cell := range row.Cells {
					cells[c] = buf.String(cell)
				}
				info.Cells[r] = cells
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func outputTablesTable(w io.Writer, path string, infos []TableInfo) error {
	if len(infos) == 0 {
		fmt.Fprintf(w, "No tables found in %s.\n", path)
		return nil
	}

	title := cases.Title(language.English)
	headers := []string{"name", "offset", "labels", "rows", "status"}
	for i, h := range headers {
		headers[i] = title.String(h)
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		status := "active"
		if info.Shadowed {
			status = "shadowed"
		}
		rows[i] = []string{
			info.Name,
			strconv.Itoa(info.Offset),
			strings.Join(info.Labels, ", "),
			strconv.Itoa(info.Rows),
			status,
		}
	}

	fmt.Fprintln(w, TitleStyle.Render("Tables in "+path))
	fmt.Fprintln(w, newTable(headers, rows, func(row int) bool { return infos[row].Shadowed }).String())

	for _, info := range infos {
		if info.Cells == nil {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render(info.Name))
		if len(info.Cells) == 0 {
			fmt.Fprintln(w, "(no rows)")
			continue
		}
		fmt.Fprintln(w, newTable(info.Labels, info.Cells, nil).String())
	}

	fmt.Fprintf(w, "\nTotal: %d tables\n", len(infos))
	return nil
}

func outputTablesJSON(w io.Writer, infos []TableInfo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(infos)
}

func outputTablesYAML(w io.Writer, infos []TableInfo) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(infos)
}
