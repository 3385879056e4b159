// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset orders rows by a comma separated list of output keys. A key
// prefixed with - sorts descending; with ! it compares case-sensitively.
// Numbers compare numerically, everything else as strings.
func SortDataset(rows []map[string]interface{}, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(rows, func(i, j int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)
			ascending := !strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")
			caseSensitive := strings.HasPrefix(field, "!")
			field = strings.TrimPrefix(field, "!")

			a, b := rows[i][field], rows[j][field]

			an, aok := a.(float64)
			bn, bok := b.(float64)
			if aok && bok {
				if an != bn {
					return (an < bn) == ascending
				}
				continue
			}

			as, bs := InterfaceToString(a), InterfaceToString(b)
			if !caseSensitive {
				as, bs = strings.ToLower(as), strings.ToLower(bs)
			}
			if as != bs {
				return (as < bs) == ascending
			}
		}
		return false
	})
}
