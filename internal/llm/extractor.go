// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/recommend"
)

// ChatCompleter is the part of Client the extractor needs.
type ChatCompleter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Extractor implements recommend.PreferenceExtractor with a chat model.
type Extractor struct {
	chat ChatCompleter
}

var _ recommend.PreferenceExtractor = (*Extractor)(nil)

// NewExtractor creates an extractor backed by chat.
func NewExtractor(chat ChatCompleter) *Extractor {
	return &Extractor{chat: chat}
}

// Extract asks the model to split text into liked titles, disliked titles,
// known tags and mood phrases.
//
// Transport failures are returned. A reply that is not the expected JSON
// yields recommend.DegradedExtraction(text) and no error; a reply without
// mood phrases gets text as its only mood phrase.
func (e *Extractor) Extract(ctx context.Context, text string, nsfwOK bool, knownTags []string) (recommend.Extraction, error) {
	reply, err := e.chat.Chat(ctx, []Message{
		{Role: "system", Content: systemPrompt(knownTags)},
		{Role: "user", Content: text},
	})
	if err != nil {
		return recommend.Extraction{}, fmt.Errorf("preference extraction: %w", err)
	}

	ext, err := parseExtraction(reply)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Bool("nsfw_ok", nsfwOK).
			Str("reply", logging.SanitizeText(reply)).
			Msg("Unparseable preference extraction reply, degrading to query text")
		return recommend.DegradedExtraction(text), nil
	}

	if len(ext.SemanticMoods) == 0 {
		ext.SemanticMoods = []string{text}
	}
	return ext, nil
}

func systemPrompt(knownTags []string) string {
	return `You are an anime preference translator. You understand any language.
Map the user's description into:
- liked_titles: list of plain strings for each anime mentioned as liked
- disliked_titles: list of plain strings for each anime mentioned as disliked
- mapped_tags: closest known tags from this list: ` + strings.Join(knownTags, ", ") + `
- semantic_moods: original abstract moods for semantic matching (always include at least one, even if guessed from context)

Rules:
- Do NOT translate titles into other languages.
- Use exactly what the user wrote for titles (even if not in English).
- Only output valid JSON, no explanations or extra text.`
}

// parseExtraction decodes a model reply, tolerating a Markdown code fence
// around the JSON object. Missing lists come back empty, blank entries are
// dropped.
func parseExtraction(reply string) (recommend.Extraction, error) {
	var ext recommend.Extraction
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &ext); err != nil {
		return recommend.Extraction{}, fmt.Errorf("decode extraction: %w", err)
	}

	ext.LikedTitles = compact(ext.LikedTitles)
	ext.DislikedTitles = compact(ext.DislikedTitles)
	ext.MappedTags = compact(ext.MappedTags)
	ext.SemanticMoods = compact(ext.SemanticMoods)
	return ext, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the info string ("json").
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
