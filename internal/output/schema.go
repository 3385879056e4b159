// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/tfctl/awsjob/internal/log"
)

// maxSchemaDepth limits how far Schema descends into nested structs.
const maxSchemaDepth = 2

var timeType = reflect.TypeOf(time.Time{})

// Schema returns the --attrs keys available for typ, one per json-tagged
// field. Slices of structs contribute paths through their first element,
// e.g. "instances.0.id".
func Schema(typ reflect.Type) []string {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	return schemaWalker("", typ, 0)
}

func schemaWalker(holder string, typ reflect.Type, depth int) []string {
	var keys []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		if holder != "" {
			name = holder + "." + name
		}
		keys = append(keys, name)

		if depth >= maxSchemaDepth {
			continue
		}
		ft := field.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		switch {
		case ft == timeType:
		case ft.Kind() == reflect.Struct:
			keys = append(keys, schemaWalker(name, ft, depth+1)...)
		case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Struct:
			keys = append(keys, schemaWalker(name+".0", ft.Elem(), depth+1)...)
		}
	}
	log.Tracef("schema walked: type=%s keys=%d", typ.Name(), len(keys))
	return keys
}

// DumpSchema writes Schema(typ) to w, or os.Stdout when w is nil.
func DumpSchema(typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, "Attributes available to the --attrs flag:")
	fmt.Fprintln(w, "")
	for _, key := range Schema(typ) {
		fmt.Fprintln(w, key)
	}
}
