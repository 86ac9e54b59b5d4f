package sblint

import (
	"fmt"
	"net/url"
)

// FieldSpec is one entry of the fixed validator registry. Validate performs
// the shape check for the raw value: on success it returns the typed value,
// on failure it records one or more diagnostics and reports ok=false. The
// walk never inserts a field whose validator returned ok=false.
type FieldSpec struct {
	Name     string
	Required bool
	Validate func(v any, rep *Report, line int, required bool) (any, bool)
}

// fieldSpecs is the SBUILD schema: a fixed ordered table, queried by exact
// field name. Built once; never registered into at runtime.
var fieldSpecs = []FieldSpec{
	{Name: "pkg", Required: true, Validate: stringValue("pkg")},
	{Name: "pkg_id", Validate: stringValue("pkg_id")},
	{Name: "pkg_type", Validate: stringValue("pkg_type")},
	{Name: "app_id", Validate: stringValue("app_id")},
	{Name: "description", Required: true, Validate: stringValue("description")},
	{Name: "version", Validate: stringValue("version")},
	{Name: "license", Validate: stringList("license")},
	{Name: "maintainer", Validate: stringList("maintainer")},
	{Name: "note", Validate: stringList("note")},
	{Name: "homepage", Validate: stringList("homepage")},
	{Name: "src_url", Required: true, Validate: stringList("src_url")},
	{Name: "provides", Validate: stringList("provides")},
	{Name: "category", Validate: stringList("category")},
	{Name: "icon", Validate: stringValue("icon")},
	{Name: "desktop", Validate: stringValue("desktop")},
	{Name: "tag", Validate: stringList("tag")},
	{Name: "repology", Validate: stringList("repology")},
	{Name: "distro_pkg", Validate: mappingValue("distro_pkg")},
	{Name: "x_exec", Required: true, Validate: execValue("x_exec")},
}

func lookupField(name string) (FieldSpec, bool) {
	for _, fs := range fieldSpecs {
		if fs.Name == name {
			return fs, true
		}
	}
	return FieldSpec{}, false
}

// RequiredFields returns the names of required registry entries, in table order.
func RequiredFields() []string {
	var out []string
	for _, fs := range fieldSpecs {
		if fs.Required {
			out = append(out, fs.Name)
		}
	}
	return out
}

// shapeSeverity decides the severity of a shape failure: a broken required
// field blocks the document, a broken optional field is only reported and the
// field stays out of the Config.
func shapeSeverity(required bool) Severity {
	if required {
		return Error
	}
	return Warn
}

func stringValue(name string) func(any, *Report, int, bool) (any, bool) {
	return func(v any, rep *Report, line int, required bool) (any, bool) {
		s, ok := v.(string)
		if !ok || s == "" {
			rep.Record(name, fmt.Sprintf("'%s' must be a non-empty string", name), line, shapeSeverity(required))
			return nil, false
		}
		return s, true
	}
}

func stringList(name string) func(any, *Report, int, bool) (any, bool) {
	return func(v any, rep *Report, line int, required bool) (any, bool) {
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			rep.Record(name, fmt.Sprintf("'%s' must be a non-empty list of strings", name), line, shapeSeverity(required))
			return nil, false
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			s, ok := item.(string)
			if !ok {
				rep.Record(name, fmt.Sprintf("'%s' must contain only strings", name), line, shapeSeverity(required))
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
}

func mappingValue(name string) func(any, *Report, int, bool) (any, bool) {
	return func(v any, rep *Report, line int, required bool) (any, bool) {
		m, ok := v.(Mapping)
		if !ok || len(m) == 0 {
			rep.Record(name, fmt.Sprintf("'%s' must be a non-empty mapping", name), line, shapeSeverity(required))
			return nil, false
		}
		return m, true
	}
}

// execValue validates the x_exec block: a mapping that must carry a 'run'
// shell fragment and may carry 'shell' and 'pkgver'.
func execValue(name string) func(any, *Report, int, bool) (any, bool) {
	return func(v any, rep *Report, line int, required bool) (any, bool) {
		m, ok := v.(Mapping)
		if !ok {
			rep.Record(name, fmt.Sprintf("'%s' must be a mapping", name), line, shapeSeverity(required))
			return nil, false
		}
		run, ok := m.Get("run")
		if !ok {
			rep.Record(name, fmt.Sprintf("'%s' must contain a 'run' script", name), line, shapeSeverity(required))
			return nil, false
		}
		if s, ok := run.(string); !ok || s == "" {
			rep.Record(name, fmt.Sprintf("'%s.run' must be a non-empty string", name), line, shapeSeverity(required))
			return nil, false
		}
		for _, sub := range []string{"shell", "pkgver"} {
			if raw, ok := m.Get(sub); ok {
				if s, ok := raw.(string); !ok || s == "" {
					rep.Record(name, fmt.Sprintf("'%s.%s' must be a non-empty string", name, sub), line, Error)
					return nil, false
				}
			}
		}
		return m, true
	}
}

// validPkgTypes is the closed set of accepted pkg_type names.
var validPkgTypes = []string{
	"appbundle",
	"appimage",
	"archive",
	"dynamic",
	"flatimage",
	"gameimage",
	"nixappimage",
	"runimage",
	"static",
}

// validCategories is the closed category vocabulary for the category field.
var validCategories = map[string]struct{}{
	"accessibility": {},
	"audio":         {},
	"cli":           {},
	"development":   {},
	"education":     {},
	"game":          {},
	"graphics":      {},
	"gui":           {},
	"internet":      {},
	"multimedia":    {},
	"network":       {},
	"office":        {},
	"science":       {},
	"security":      {},
	"settings":      {},
	"system":        {},
	"terminal":      {},
	"utility":       {},
	"video":         {},
}

func isValidPkgType(s string) bool {
	for _, t := range validPkgTypes {
		if s == t {
			return true
		}
	}
	return false
}

func isValidCategory(s string) bool {
	_, ok := validCategories[s]
	return ok
}

// isValidAlpha reports whether s contains only the characters allowed in
// identifier-like fields: letters, digits, '+', '-', '_' and '.'.
func isValidAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// isValidURL accepts absolute http(s) URLs with a host.
func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
