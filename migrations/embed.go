// Package migrations holds the SQL schema migrations, embedded so the
// binaries and integration tests do not depend on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
