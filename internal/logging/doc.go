// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

// Package logging provides centralized zerolog-based structured logging for Animerank.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from config.LoggingConfig
//   - JSON output for production, console output for development
//   - Request ID propagation through context.Context
//   - A slog adapter for the suture supervisor tree (via sutureslog)
//   - A watermill.LoggerAdapter for the catalog event bus
//   - Sanitizers for credentials and user free text in log fields
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("items", snapshot.Len()).Msg("Catalog loaded")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Preference extraction degraded")
//
// Components keep a tagged child logger:
//
//	logger := logging.WithComponent("recommend")
//	logger.Debug().Int("candidates", n).Msg("Scoring")
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(). Use structured fields
// instead of string formatting, and pass user text through SanitizeText.
package logging
