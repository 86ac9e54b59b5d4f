package sblint

// Package sblint validates SBUILD package descriptor documents against the
// fixed SBUILD schema. It provides:
//
// - Field-by-field schema enforcement over an ordered YAML document
//   (Validate), producing a typed Config or an aggregate error
// - A stable diagnostic model via Report (field, message, line, severity)
//   with a single-message-per-field merge rule
// - Recursive duplicate detection inside the distro_pkg override tree
// - A bounded-concurrency Runner that lints many files at once and tallies
//   pass/fail outcomes
//
// Design policy:
// - Keep only public APIs in the root package; put external tool glue under internal/.
// - Place the log aggregator under logger/ and the CLI under cmd/sblint.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  doc, err := sblint.ParseDocument(data)
//  cfg, rep, err := sblint.Validate(doc)
//
//  lint := sblint.New(mgr.Logger())
//  sum := (&sblint.Runner{Parallel: 4}).Run(ctx, lint, files)
