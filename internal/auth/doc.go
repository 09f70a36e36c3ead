// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package auth protects the admin endpoints with HS256 JSON Web Tokens.

Ranking, search and catalog endpoints are public. Only the admin routes
(catalog reload and cache invalidation) require a token, and they are not
mounted at all when security.admin_jwt_secret is empty.

Tokens are minted offline by an operator:

	animerank -admin-token ops@example.com

and sent as "Authorization: Bearer <token>". Validation pins the algorithm to
HS256, requires the animerank issuer, an expiry, and the admin role.
*/
package auth
