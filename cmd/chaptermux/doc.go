// Package main hosts the chaptermux CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into workflow runs
// (apply), standalone chapter conversions (chapters), environment checks
// (status), and configuration scaffolding (config). It centralizes
// configuration resolution and logger setup so subcommands only translate
// flags into requests and render results.
package main
