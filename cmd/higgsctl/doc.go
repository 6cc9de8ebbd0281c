// Package main hosts the higgsctl CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// Higgsfield API calls: the lipsync pipeline, voice listing and cloning,
// job status checks, and credit balance queries, plus the Cookie Vault
// client and the local CORS file server. It centralizes configuration
// resolution, credential selection, and structured logging setup so
// subcommands can focus on user experience instead of wiring.
package main
