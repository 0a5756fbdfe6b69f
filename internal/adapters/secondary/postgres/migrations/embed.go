// Package migrations holds the embedded SQL schema for the portfolio database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
