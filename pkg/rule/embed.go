package rule

import "embed"

//go:embed defaults/*.rules
var defaultsFS embed.FS
