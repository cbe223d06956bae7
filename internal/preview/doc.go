// Package preview serves a generated docs site locally and rebuilds it when
// files under the docs directory change.
//
// A Server owns three pieces: a static file server over the committed output
// directory, a Watcher that turns bursts of filesystem events into single
// rebuild requests, and a Hub that pushes the latest build id to connected
// browsers over server-sent events so open pages reload themselves.
package preview
