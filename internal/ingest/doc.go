// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package ingest loads an anime_data.json export into the catalog store.

The export is a JSON array of records with the columns of the catalog
table (id, title, all_titles, main_picture, tags, synopsis, rating,
is_nsfw, total_episodes, children_ids, last_updated, embedding). Records
may also carry raw genres and themes; they are folded into the tags when
the tags column is empty.

# Pipeline

For every batch of valid records the Importer:

 1. maps the record to a catalog.RawRow (lowercased tags, deduplicated
    titles, zero episodes when unknown, derived is_nsfw when absent)
 2. embeds the synopses of rows that have no embedding, "N/A" standing in
    for an empty synopsis
 3. upserts the rows through catalog.Store
 4. saves progress so an interrupted run can resume

After the last batch a catalog.updated event is published so running
servers reload their snapshot without waiting for the refresh interval.

# Usage

	records, err := ingest.ReadExportFile("anime_data.json")
	importer, err := ingest.NewImporter(ingest.Deps{
	    Store:     store,
	    Embedder:  llmClient,
	    Publisher: bus,
	}, ingest.DefaultOptions())
	stats, err := importer.Import(ctx, records)

# NSFW derivation

A record without an explicit is_nsfw flag is NSFW when its rating contains
"r+" or "rx", or when its genres or themes include hentai, ecchi, sexual
content or adult cast.
*/
package ingest
