// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/awsjob/internal/log"
)

// Attr is one output column. Key is a gjson path into each result row, e.g.
// "instances.0.id" or "size".
type Attr struct {
	Key string `yaml:"key" json:"Key"`
	// Include is false for columns that are only used for sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey is the column title and the key in json/yaml output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is a combination of:
	//   t  RFC3339 timestamp to local time
	//   T  RFC3339 timestamp to relative time ("3 minutes ago")
	//   b  byte count to human size ("1.2 MB")
	//   u  upper case
	//   l  lower case
	//   N  truncate to N characters
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies a.TransformSpec to value. Values a spec does not apply to
// are returned unchanged.
func (a *Attr) Transform(value interface{}) interface{} {
	spec := a.TransformSpec
	if spec == "" {
		return value
	}

	if strings.Contains(spec, "b") {
		if n, ok := value.(float64); ok && n >= 0 {
			value = humanize.Bytes(uint64(n))
		}
	}

	s, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: key=%s value=%v", a.Key, value)
		return value
	}

	if strings.ContainsAny(spec, "tT") {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			if strings.Contains(spec, "T") {
				s = humanize.Time(ts)
			} else {
				s = ts.In(time.Local).Format("2006-01-02T15:04:05MST")
			}
		}
	}

	// The later of the two case letters wins.
	lastL := strings.LastIndexAny(spec, "l")
	lastU := strings.LastIndexAny(spec, "u")
	switch {
	case lastL > lastU:
		s = strings.ToLower(s)
	case lastU > lastL:
		s = strings.ToUpper(s)
	}

	if n, ok := length(spec); ok && n < len(s) {
		s = s[:n]
	}

	return s
}

// length returns the digits in spec as a truncation length.
func length(spec string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, spec)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	return n, err == nil
}

// AttrList is the ordered set of output columns.
type AttrList []Attr

// Set parses a --attrs value: comma separated key[:title[:transform]]
// entries. A key prefixed with ! is kept for sorting but not shown. An entry
// naming an existing key or title updates that column's title, visibility and
// transform in place.
func (a *AttrList) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr %q: expected key[:title[:transform]]", spec)
		}

		attr := Attr{Include: true, Key: strings.TrimSpace(fields[0])}
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr %q: empty key", spec)
		}

		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[1])
		} else {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		}
		if len(fields) > 2 {
			attr.TransformSpec = strings.TrimSpace(fields[2])
		}
		log.Tracef("attr parsed: key=%s out=%s include=%t spec=%s",
			attr.Key, attr.OutputKey, attr.Include, attr.TransformSpec)

		if i := a.index(attr.Key); i >= 0 {
			(*a)[i].Include = attr.Include
			(*a)[i].OutputKey = attr.OutputKey
			(*a)[i].TransformSpec = attr.TransformSpec
			continue
		}
		*a = append(*a, attr)
	}

	log.Debugf("attrs set: len=%d", len(*a))
	return nil
}

func (a AttrList) index(key string) int {
	for i, attr := range a {
		if attr.Key == key || attr.OutputKey == key {
			return i
		}
	}
	return -1
}

// Included returns the columns that are displayed.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// String renders the list in --attrs syntax.
func (a *AttrList) String() string {
	parts := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include {
			key = "!" + key
		}
		parts = append(parts, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(parts, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
