// Package driving provides interfaces exposed to external actors
// (primary/inbound ports): the HTTP API and the CLI.
package driving
