// Package watch keeps a site up to date: it reruns a build when watched files
// change and once a day so that the catalog dates roll forward.
package watch
