package lineage

import (
	"strings"

	"github.com/gnames/gnlib"
)

// Sanitize applies general repairs to a raw lineage string before it is
// parsed. The repairs, in order:
//
//  1. broken UTF-8 sequences are fixed;
//  2. double quotes are removed;
//  3. a lineage that restarts with its own domain label is cut before the
//     repeated copy ("Bacteria;Firmicutes;Bacilli Bacteria;Firmicutes");
//  4. empty fields produced by doubled separators are removed;
//  5. whitespace around every field is trimmed;
//  6. a subspecies designation is removed from the last field.
func Sanitize(raw, sep string) string {
	if sep == "" {
		sep = Separator
	}
	res := gnlib.FixUtf8(raw)
	res = strings.ReplaceAll(res, `"`, "")
	res = strings.TrimSpace(res)
	if res == "" {
		return res
	}

	res = cutRepeated(res, sep)

	parts := strings.Split(res, sep)
	fields := make([]string, 0, len(parts))
	for _, v := range parts {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" {
			continue
		}
		fields = append(fields, v)
	}
	if len(fields) == 0 {
		return ""
	}

	last := len(fields) - 1
	fields[last] = StripSubspecies(fields[last])

	return strings.Join(fields, sep)
}

// StripSubspecies removes everything starting from " subsp. " in a
// species name.
func StripSubspecies(name string) string {
	if idx := strings.Index(name, " subsp. "); idx > 0 {
		return strings.TrimSpace(name[:idx])
	}
	return name
}

// cutRepeated removes a duplicated copy of the lineage that starts again
// with the domain label.
func cutRepeated(s, sep string) string {
	idx := strings.Index(s, sep)
	if idx <= 0 {
		return s
	}
	domain := strings.TrimSpace(s[:idx])
	if domain == "" {
		return s
	}
	rest := s[idx+len(sep):]
	for _, pat := range []string{" " + domain + sep, sep + domain + sep} {
		if cut := strings.Index(rest, pat); cut >= 0 {
			return s[:idx+len(sep)+cut]
		}
	}
	return s
}
