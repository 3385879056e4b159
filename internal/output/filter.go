// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// filterPattern splits "key[!]op[value]". Operators: = ~ ^ < > @ /.
var filterPattern = regexp.MustCompile(`^([^!=~^<>@/]+)(!?[=~^<>@/])(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key    string
	Negate bool
	Op     string
	Value  string
	re     *regexp.Regexp
}

// ParseFilters parses a comma-separated filter spec such as
// "state=running,type^c3". An empty spec yields no filters.
func ParseFilters(spec string) ([]Filter, error) {
	var filters []Filter
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		m := filterPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("invalid filter %q: expected KEY OP VALUE", part)
		}
		f := Filter{
			Key:    strings.TrimSpace(m[1]),
			Negate: strings.HasPrefix(m[2], "!"),
			Op:     strings.TrimPrefix(m[2], "!"),
			Value:  m[3],
		}
		if f.Op == "/" {
			re, err := regexp.Compile(f.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", part, err)
			}
			f.re = re
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// Match reports whether value satisfies f. A nil value never matches.
func (f Filter) Match(value interface{}) bool {
	var ok bool
	switch v := value.(type) {
	case nil:
		return false
	case float64:
		ok = f.matchNumber(v)
	case bool:
		ok = f.matchString(strconv.FormatBool(v))
	case string:
		ok = f.matchString(v)
	case []interface{}:
		ok = f.Op == "@" && containsValue(v, f.Value)
	default:
		ok = f.matchString(fmt.Sprint(v))
	}
	return ok != f.Negate
}

func (f Filter) matchString(v string) bool {
	switch f.Op {
	case "=":
		return v == f.Value
	case "~":
		return strings.EqualFold(v, f.Value)
	case "^":
		return strings.HasPrefix(v, f.Value)
	case "<":
		return v < f.Value
	case ">":
		return v > f.Value
	case "@":
		return strings.Contains(v, f.Value)
	case "/":
		return f.re != nil && f.re.MatchString(v)
	}
	return false
}

func (f Filter) matchNumber(v float64) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		return f.matchString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	switch f.Op {
	case "=", "~":
		return v == target
	case "<":
		return v < target
	case ">":
		return v > target
	}
	return f.matchString(strconv.FormatFloat(v, 'f', -1, 64))
}

func containsValue(list []interface{}, want string) bool {
	for _, item := range list {
		if fmt.Sprint(item) == want {
			return true
		}
	}
	return false
}
