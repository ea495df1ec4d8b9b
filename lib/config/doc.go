// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for erlpack tools.
//
// Configuration is loaded from a single file named by either the
// ERLPACK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search. When neither is
// given, [Load] returns [Default], so the tools work with no file at
// all. Unknown keys are rejected so that a misspelled limit fails loudly
// instead of silently keeping its default.
//
// The file may contain profile sections (trusted, untrusted) that
// override base values when [Config].Profile matches. The untrusted
// profile has stricter built-in limits for input from peers that are
// not under the caller's control.
//
// Key exports:
//
//   - [Config] -- master struct with Decode and Encode sections
//   - [Default] -- returns a Config with the codec defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.DecOptions], [Config.EncOptions], [Config.HostOptions] --
//     the options the codec packages consume
package config
