// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package definition loads dependency definition files and answers the
// graph builder's retrieval queries.
//
// Definition files come in two syntaxes that decode into the same File
// structure: HCL (`.hcl`), where every project is a labelled `project` block,
// and YAML (`.yaml`, `.yml`), where projects are a list under `projects`.
// Locations may be local files, directories (walked recursively) or http(s)
// URLs.
//
// Every loaded declaration is appended to a Catalog in load order. The Catalog
// implements Source, the retrieval capability the graph builder consumes.
package definition
