package web

import "embed"

// FS contains the embedded static assets served under /static.
//
//go:embed static/*
var FS embed.FS
