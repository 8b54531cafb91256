// Package config holds the runtime configuration for mdcrawl.
//
// Configuration comes from three layers, in increasing precedence:
//
//  1. Compiled defaults (NewConfig)
//  2. The .mdcrawl YAML file, which carries per-site settings such as
//     auth headers and cookies keyed by host
//  3. CLI flags parsed by the cmd package
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// Validate is called once after CLI parsing, before any crawling begins.
package config
