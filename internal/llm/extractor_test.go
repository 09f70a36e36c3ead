// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/animerank/internal/recommend"
)

type stubChat struct {
	reply    string
	err      error
	messages []Message
}

func (s *stubChat) Chat(_ context.Context, messages []Message) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

func TestExtractorParsesReply(t *testing.T) {
	chat := &stubChat{reply: `{
		"liked_titles":    ["Attack on Titan", " "],
		"disliked_titles": ["Clannad"],
		"mapped_tags":     ["Action", "Dark Fantasy"],
		"semantic_moods":  ["grim", "desperate struggle"]
	}`}

	ext, err := NewExtractor(chat).Extract(context.Background(), "like AoT, not Clannad", false, []string{"Action", "Dark Fantasy", "Romance"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Attack on Titan"}, ext.LikedTitles)
	assert.Equal(t, []string{"Clannad"}, ext.DislikedTitles)
	assert.Equal(t, []string{"Action", "Dark Fantasy"}, ext.MappedTags)
	assert.Equal(t, []string{"grim", "desperate struggle"}, ext.SemanticMoods)

	require.Len(t, chat.messages, 2)
	assert.Equal(t, "system", chat.messages[0].Role)
	assert.Contains(t, chat.messages[0].Content, "Action, Dark Fantasy, Romance")
	assert.Equal(t, "user", chat.messages[1].Role)
	assert.Equal(t, "like AoT, not Clannad", chat.messages[1].Content)
}

func TestExtractorStripsCodeFence(t *testing.T) {
	chat := &stubChat{reply: "```json\n{\"liked_titles\":[\"Naruto\"],\"semantic_moods\":[\"ninja\"]}\n```"}

	ext, err := NewExtractor(chat).Extract(context.Background(), "naruto", false, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Naruto"}, ext.LikedTitles)
	assert.Equal(t, []string{}, ext.DislikedTitles)
	assert.Equal(t, []string{"ninja"}, ext.SemanticMoods)
}

func TestExtractorFillsMissingMoods(t *testing.T) {
	chat := &stubChat{reply: `{"liked_titles":[],"semantic_moods":[]}`}

	ext, err := NewExtractor(chat).Extract(context.Background(), "something sad", false, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"something sad"}, ext.SemanticMoods)
}

func TestExtractorDegradesOnMalformedReply(t *testing.T) {
	for _, reply := range []string{
		"Sure! Here are some anime you might like.",
		`{"liked_titles": "Naruto"}`,
		"```json\n{not json}\n```",
	} {
		ext, err := NewExtractor(&stubChat{reply: reply}).Extract(context.Background(), "cozy", false, nil)
		require.NoError(t, err, "reply %q", reply)
		assert.Equal(t, recommend.DegradedExtraction("cozy"), ext, "reply %q", reply)
	}
}

func TestExtractorReturnsTransportErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewExtractor(&stubChat{err: boom}).Extract(context.Background(), "cozy", false, nil)
	assert.ErrorIs(t, err, boom)
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"{\"a\":1}":               `{"a":1}`,
		"  {\"a\":1}\n":           `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"```JSON\n{\"a\":1}```  ": `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, stripCodeFence(in), "input %q", in)
	}
}
