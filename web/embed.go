package web

import "embed"

// Templates embeds HTML page and mail templates.
//
//go:embed templates/**/*.html
var Templates embed.FS
