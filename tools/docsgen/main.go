// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes one markdown page per awsjob subcommand, taken from
// the live command tree so flags and usage never drift from the binary.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/command"
	"github.com/tfctl/awsjob/internal/version"
)

type Flag struct {
	ID      string
	Syntax  string
	Usage   string
	Default string
}

type TemplateData struct {
	ID        string
	Short     string
	UsageText string
	Flags     []Flag
	Date      string
	Version   string
}

var page = template.Must(template.New("page").Parse(`# awsjob {{.ID}}

{{.Short}}

## Usage

    {{.UsageText}}
{{if .Flags}}
## Flags

| flag | description | default |
|---|---|---|
{{range .Flags}}| ` + "`{{.Syntax}}`" + ` | {{.Usage}} | {{.Default}} |
{{end}}{{end}}
_{{.Version}}, generated {{.Date}}_
`))

func main() {
	out := "docs/commands"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := command.InitApp(context.Background(), []string{"awsjob"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, sub := range app.Commands {
		path := filepath.Join(out, sub.Name+".md")
		fmt.Println("Generating", path)
		if err := writePage(path, sub); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func writePage(path string, sub *cli.Command) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render(f, sub, time.Now())
}

// render writes the page for sub.
func render(w io.Writer, sub *cli.Command, now time.Time) error {
	data := TemplateData{
		ID:        sub.Name,
		Short:     sub.Usage,
		UsageText: sub.UsageText,
		Flags:     flags(sub),
		Date:      now.Format("January 2, 2006"),
		Version:   version.String(),
	}
	return page.Execute(w, data)
}

// flags lists the visible flags of sub by name.
func flags(sub *cli.Command) []Flag {
	var out []Flag
	for _, f := range sub.Flags {
		if vf, ok := f.(cli.VisibleFlag); ok && !vf.IsVisible() {
			continue
		}

		names := f.Names()
		syntax := make([]string, 0, len(names))
		for _, n := range names {
			if len(n) == 1 {
				syntax = append(syntax, "-"+n)
			} else {
				syntax = append(syntax, "--"+n)
			}
		}

		fl := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
		if df, ok := f.(cli.DocGenerationFlag); ok {
			fl.Usage = df.GetUsage()
			fl.Default = df.GetValue()
		}
		out = append(out, fl)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
