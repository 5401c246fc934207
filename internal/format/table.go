package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteTable writes a plain-text rendering for terminals.
//
// Implementation note: we target the shapes our CLI payloads actually have
// (a list of records, a single record, or a scalar). Structs are first
// marshalled through JSON so we reuse existing json tags / field naming.
func WriteTable(w io.Writer, v any) error {
	// Convert structs -> map[string]any using JSON tags.
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var buf bytes.Buffer
	switch t := x.(type) {
	case []any:
		writeRows(&buf, t)
	case map[string]any:
		writeRecord(&buf, t)
	default:
		buf.WriteString(cell(x))
		buf.WriteByte('\n')
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// writeRows renders a list of records as aligned columns with a header.
// Non-map elements fall back to one value per line.
func writeRows(buf *bytes.Buffer, xs []any) {
	if len(xs) == 0 {
		buf.WriteString("(none)\n")
		return
	}

	rows := make([]map[string]any, 0, len(xs))
	for _, it := range xs {
		m, ok := it.(map[string]any)
		if !ok {
			for _, it := range xs {
				buf.WriteString(cell(it))
				buf.WriteByte('\n')
			}
			return
		}
		rows = append(rows, m)
	}

	cols := columnOrder(rows)
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
		for _, r := range rows {
			if n := len(cell(r[c])); n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeRow(buf, cols, widths, func(i int) string { return strings.ToUpper(cols[i]) })
	for _, r := range rows {
		r := r
		writeRow(buf, cols, widths, func(i int) string { return cell(r[cols[i]]) })
	}
}

func writeRow(buf *bytes.Buffer, cols []string, widths []int, val func(int) string) {
	for i := range cols {
		s := val(i)
		buf.WriteString(s)
		if i != len(cols)-1 {
			buf.WriteString(strings.Repeat(" ", widths[i]-len(s)+2))
		}
	}
	buf.WriteByte('\n')
}

// writeRecord renders a single record as "key: value" lines.
func writeRecord(buf *bytes.Buffer, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sortCanonical(keys)

	width := 0
	for _, k := range keys {
		if len(k) > width {
			width = len(k)
		}
	}
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteString(strings.Repeat(" ", width-len(k)))
		buf.WriteString("  ")
		buf.WriteString(cell(m[k]))
		buf.WriteByte('\n')
	}
}

// columnOrder returns the union of keys across rows, id/name first and the
// rest alphabetical, so listings read the same regardless of map iteration.
func columnOrder(rows []map[string]any) []string {
	seen := map[string]bool{}
	var keys []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	sortCanonical(keys)
	return keys
}

// sortCanonical hoists well-known identity fields to the front of an
// already-sorted key list.
func sortCanonical(keys []string) {
	rank := func(k string) int {
		switch k {
		case "id":
			return 0
		case "name", "title":
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return rank(keys[i]) < rank(keys[j]) })
}

// cell renders a single value for table output. Nested structures are kept
// compact JSON so rows stay one line each.
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return t
	case float64:
		// JSON numbers become float64 in interface{}.
		// If it looks like an int, print as int.
		if float64(int64(t)) == t {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}
