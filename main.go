// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/command"
	"github.com/tfctl/awsjob/internal/config"
	"github.com/tfctl/awsjob/internal/log"
	"github.com/tfctl/awsjob/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--" {
			break
		}
		if a == "--version" || a == "-v" {
			fmt.Println(version.String())
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	args = deduplicateFlags(args, flagKindsFor(app, args))
	log.Debugf("args after dedup: args=%v", args)

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an explicit @set argument in place. "awsjob launch
// @gpu" splices the entries of the launch.gpu config list where @gpu stood.
// Without an @set, the <command>.defaults list, if any, is injected right
// after the command so explicit arguments still win.
func processSetOnly(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	for i := 2; i < len(args); i++ {
		if args[i] == "--" {
			break
		}
		if strings.HasPrefix(args[i], "@") && len(args[i]) > 1 {
			set := args[i][1:]
			rest := append([]string{}, args[i+1:]...)
			return injectConfigSet(append(args[:i:i], rest...), args[1]+"."+set, i)
		}
	}

	return injectConfigSet(args, args[1]+".defaults", 2)
}

// injectConfigSet splices the whitespace-split entries of the config list at
// key into args at insertIdx. A missing key leaves args unchanged.
func injectConfigSet(args []string, key string, insertIdx int) []string {
	entries, err := config.GetStringSlice(key)
	if err != nil || len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// flagKinds holds the spellings ("--name", "-n") of flags needing special
// handling when deduplicating.
type flagKinds struct {
	// bools never take the following token as their value.
	bools map[string]bool
	// repeatable flags accumulate, so every occurrence is kept.
	repeatable map[string]bool
}

// deduplicateFlags drops earlier occurrences of a repeated flag so the last
// one wins, which lets explicit arguments override @set entries. A flag not
// written as --name=value takes the following token as its value unless that
// token looks like a flag or the flag is a known bool. Positional arguments
// keep their order, and nothing after "--" is touched.
func deduplicateFlags(args []string, kinds ...flagKinds) []string {
	if len(args) <= 2 {
		return args
	}

	var k flagKinds
	if len(kinds) > 0 {
		k = kinds[0]
	}

	type token struct {
		name  string
		parts []string
	}

	var tokens []token
	rest := []string{}
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			rest = args[i:]
			break
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			tokens = append(tokens, token{parts: []string{a}})
			continue
		}

		name, _, hasValue := strings.Cut(a, "=")
		t := token{name: name, parts: []string{a}}
		if !hasValue && !k.bools[name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			t.parts = append(t.parts, args[i+1])
			i++
		}
		if k.repeatable[name] {
			t.name = ""
		}
		tokens = append(tokens, t)
	}

	last := map[string]int{}
	for i, t := range tokens {
		if t.name != "" {
			last[t.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, t := range tokens {
		if t.name != "" && last[t.name] != i {
			continue
		}
		out = append(out, t.parts...)
	}
	return append(out, rest...)
}

// flagKindsFor classifies the flags of the subcommand named in args.
func flagKindsFor(app *cli.Command, args []string) flagKinds {
	k := flagKinds{bools: map[string]bool{}, repeatable: map[string]bool{}}
	if len(args) < 2 {
		return k
	}
	sub := app.Command(args[1])
	if sub == nil {
		return k
	}

	for _, f := range sub.Flags {
		var dst map[string]bool
		switch f.(type) {
		case *cli.BoolFlag:
			dst = k.bools
		case *cli.StringSliceFlag:
			dst = k.repeatable
		default:
			continue
		}
		for _, n := range f.Names() {
			if len(n) == 1 {
				dst["-"+n] = true
			} else {
				dst["--"+n] = true
			}
		}
	}
	return k
}
