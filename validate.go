package sblint

import (
	"fmt"
	"strings"
)

// walker carries the state of one Validate invocation: the accumulating
// report, the set of field names (and distro_pkg paths) already seen, and
// per-key sighting counts so line lookup points at the right occurrence.
type walker struct {
	rep       *Report
	visited   map[string]struct{}
	sightings map[string]int
}

// Validate runs the schema walk over doc in source key order and returns the
// typed Config on success. The Report is returned in all cases so callers can
// render every diagnostic; err is a *ValidationError when any Error-severity
// diagnostic was recorded, and the Config is withheld in that case.
func Validate(doc *Document) (*Config, *Report, error) {
	w := &walker{
		rep:       &Report{},
		visited:   make(map[string]struct{}),
		sightings: make(map[string]int),
	}
	cfg := &Config{}

	for _, ent := range doc.Entries {
		w.sightings[ent.Key]++
		line := doc.LineOf(ent.Key, w.sightings[ent.Key])

		if _, dup := w.visited[ent.Key]; dup {
			w.rep.Record(ent.Key, fmt.Sprintf("'%s' field is duplicated", ent.Key), line, Error)
			continue
		}

		spec, known := lookupField(ent.Key)
		if !known {
			w.rep.Record(ent.Key, fmt.Sprintf("'%s' is not a valid field", ent.Key), line, Warn)
			continue
		}

		if v, ok := spec.Validate(ent.Value, w.rep, line, spec.Required); ok {
			w.postCheck(ent.Key, v, line)
			cfg.set(ent.Key, v)
		}
		// Visited once the key has been seen, even when validation failed, so
		// a later repeat is reported as duplication rather than re-validated.
		w.visited[ent.Key] = struct{}{}
	}

	for _, spec := range fieldSpecs {
		if !spec.Required {
			continue
		}
		if _, seen := w.visited[spec.Name]; !seen {
			w.rep.Record(spec.Name, fmt.Sprintf("missing required field: %s", spec.Name), 0, Error)
		}
	}

	if w.rep.HasFatal() {
		return nil, w.rep, &ValidationError{Errors: w.rep.ErrorCount(), Warnings: w.rep.WarnCount()}
	}
	return cfg, w.rep, nil
}

// postCheck applies the field-specific semantic checks that only make sense
// once the shape validator accepted the value. Failures are recorded but the
// value still lands in the Config; the fatal decision happens at the end of
// the walk.
func (w *walker) postCheck(key string, v any, line int) {
	switch key {
	case "distro_pkg":
		if dp, ok := decodeDistroPkg(v); ok {
			w.checkDistroPkgDuplicates(dp, "", line)
		}
	case "pkg", "pkg_id", "app_id":
		if s, ok := v.(string); ok && !isValidAlpha(s) {
			w.rep.Record(key, fmt.Sprintf("Invalid '%s': '%s'. Value should only contain alphanumeric, +, -, _, .", key, s), line, Error)
		}
	case "category":
		if list, ok := v.([]string); ok {
			for _, c := range list {
				if !isValidCategory(c) {
					w.rep.Record(key, fmt.Sprintf("Invalid '%s': '%s' is not a valid category", key, c), line, Error)
				}
			}
		}
	case "pkg_type":
		if s, ok := v.(string); ok && !isValidPkgType(s) {
			w.rep.Record(key, fmt.Sprintf("Invalid '%s': '%s'. Valid values are: %s", key, s, strings.Join(validPkgTypes, ", ")), line, Error)
		}
	case "homepage", "src_url":
		if list, ok := v.([]string); ok {
			for _, u := range list {
				if !isValidURL(u) {
					w.rep.Record(key, fmt.Sprintf("Invalid '%s': '%s' is not a valid URL", key, u), line, Error)
				}
			}
		}
	}
}

// checkDistroPkgDuplicates walks the override tree. Path identity is the
// dotted key path (bare key at the root), shared with the walk's visited set;
// a path seen anywhere else in the traversal is reported as a duplicated
// field and its subtree is not descended into.
func (w *walker) checkDistroPkgDuplicates(node DistroPkg, fieldPath string, line int) {
	if node.IsLeaf() {
		w.checkDuplicateValues(node.List, fieldPath, line)
		return
	}
	for _, ent := range node.Inner {
		path := ent.Key
		if fieldPath != "" {
			path = fieldPath + "." + ent.Key
		}
		if _, seen := w.visited[path]; seen {
			w.rep.Record(path, fmt.Sprintf("'%s' field is duplicated", path), line, Error)
			continue
		}
		w.visited[path] = struct{}{}
		if ent.Node.IsLeaf() {
			w.checkDuplicateValues(ent.Node.List, path, line)
		} else {
			w.checkDistroPkgDuplicates(ent.Node, path, line)
		}
	}
}

// checkDuplicateValues scans a flat list; every repeated occurrence past the
// first records an Error, and the seen set keeps growing across the whole
// list. The Report's per-field merge collapses repeats into one diagnostic.
func (w *walker) checkDuplicateValues(list []string, field string, line int) {
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		if _, dup := seen[item]; dup {
			w.rep.Record(field, fmt.Sprintf("Duplicate value '%s' found in %s", item, field), line, Error)
			continue
		}
		seen[item] = struct{}{}
	}
}
