// Package templates holds the HTML pages of the site and admin panel.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
