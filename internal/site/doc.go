// Package site runs a generation: it turns the topic catalog into post pages,
// the JSON post index and the sitemap under a resolved site directory.
//
// A run is a linear sequence of stages (prepare, load_template, catalog,
// pages, index, sitemap). Each stage is timed and reported to a
// metrics.Recorder. Progress lines go to the configured writer in a fixed
// format so the output of two runs on the same date compares byte for byte.
package site
