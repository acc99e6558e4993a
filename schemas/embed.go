// Package schemas embeds the JSON Schemas of the files the CLI reads.
package schemas

import "embed"

// FS holds every *.schema.json in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// DraftSchema is the file name of the draft file schema.
const DraftSchema = "draft.schema.json"
