// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/awsjob/internal/attrs"
	"github.com/tfctl/awsjob/internal/config"
	"github.com/tfctl/awsjob/internal/log"
)

// Formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// Options control how Emit renders a dataset.
type Options struct {
	Format  string
	Titles  bool
	Color   bool
	Padding int
	// Sort is a SortDataset spec.
	Sort string
	// Filter is a ParseFilters spec applied to the unmodified values.
	Filter string
	// Header and Footer are printed around text tables when set.
	Header string
	Footer string
}

// OptionsFromCommand reads the output flags registered on cmd.
func OptionsFromCommand(cmd *cli.Command) Options {
	o := Options{
		Format:  cmd.String("output"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Padding: cmd.Int("padding"),
		Sort:    cmd.String("sort"),
		Filter:  cmd.String("filter"),
	}
	if h, ok := cmd.Metadata["header"].(string); ok {
		o.Header = h
	}
	if f, ok := cmd.Metadata["footer"].(string); ok {
		o.Footer = f
	}
	return o
}

// Emit renders a JSON document. parent, when set, is a gjson path selecting
// the rows inside raw; a single object is treated as one row. Each row is
// projected onto list, or onto its own top-level keys when list is empty.
func Emit(w io.Writer, raw []byte, parent string, list attrs.AttrList, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == FormatRaw {
		_, err := fmt.Fprintln(w, string(raw))
		return err
	}

	filters, err := ParseFilters(opts.Filter)
	if err != nil {
		return err
	}

	doc := gjson.ParseBytes(raw)
	if parent != "" {
		doc = doc.Get(parent)
	}
	var candidates []gjson.Result
	if doc.IsArray() {
		candidates = doc.Array()
	} else if doc.Exists() {
		candidates = []gjson.Result{doc}
	}

	if len(list) == 0 && len(candidates) > 0 {
		list = defaultAttrs(candidates[0])
	}

	rows := make([]map[string]interface{}, 0, len(candidates))
	for _, c := range candidates {
		if !matchAll(c, list, filters) {
			continue
		}
		row := make(map[string]interface{}, len(list))
		for i := range list {
			row[list[i].OutputKey] = list[i].Transform(c.Get(list[i].Key).Value())
		}
		rows = append(rows, row)
	}
	SortDataset(rows, opts.Sort)
	log.Debugf("emit: format=%s rows=%d attrs=%d", opts.Format, len(rows), len(list))

	switch opts.Format {
	case FormatJSON:
		out, err := json.MarshalIndent(project(rows, list), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(project(rows, list))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "", FormatText:
		TableWriter(w, rows, list, opts)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// matchAll reports whether candidate passes every filter. Filter keys name
// an attribute title or, failing that, a path into the candidate.
func matchAll(candidate gjson.Result, list attrs.AttrList, filters []Filter) bool {
	for _, f := range filters {
		path := f.Key
		for _, a := range list {
			if a.OutputKey == f.Key {
				path = a.Key
				break
			}
		}
		if !f.Match(candidate.Get(path).Value()) {
			return false
		}
	}
	return true
}

// defaultAttrs lists row's top-level keys in document order.
func defaultAttrs(row gjson.Result) attrs.AttrList {
	var list attrs.AttrList
	row.ForEach(func(key, _ gjson.Result) bool {
		list = append(list, attrs.Attr{Key: key.String(), OutputKey: key.String(), Include: true})
		return true
	})
	return list
}

// project drops the sort-only columns.
func project(rows []map[string]interface{}, list attrs.AttrList) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		p := make(map[string]interface{}, len(row))
		for _, a := range list.Included() {
			p[a.OutputKey] = row[a.OutputKey]
		}
		out = append(out, p)
	}
	return out
}

// TableWriter renders rows as an aligned, borderless table.
func TableWriter(w io.Writer, rows []map[string]interface{}, list attrs.AttrList, opts Options) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)
	if opts.Color {
		header, even, odd := getColors("colors")
		headerStyle = headerStyle.Foreground(header)
		evenRowStyle = evenRowStyle.Foreground(even)
		oddRowStyle = oddRowStyle.Foreground(odd)
	}

	shown := list.Included()
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cell := make([]string, 0, len(shown))
		for _, a := range shown {
			cell = append(cell, InterfaceToString(row[a.OutputKey], "-"))
		}
		cells = append(cells, cell)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		titles := make([]string, 0, len(shown))
		for _, a := range shown {
			titles = append(titles, a.OutputKey)
		}
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(titles...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// InterfaceToString formats a decoded JSON value for a table cell. Zero
// values render as emptyValue (default "").
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}
	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(b)
	}
}

// getColors picks table colors from config, falling back to defaults chosen
// for the terminal background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolve := func(key, light, dark string) color.Color {
		if c, err := config.GetString(key); err == nil {
			return lipgloss.Color(c)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolve(key+".title", "#b08800", "#f6be00")
	even = resolve(key+".even", "#333333", "#ffffff")
	odd = resolve(key+".odd", "#0088a0", "#00c8f0")
	return
}
