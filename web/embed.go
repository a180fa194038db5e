// Package web embeds the dashboard HTML served at / and /dashboard.
package web

import _ "embed"

//go:embed dashboard.html
var DashboardHTML string
