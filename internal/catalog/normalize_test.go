// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestNormalizeRow_Title(t *testing.T) {
	tests := []struct {
		name      string
		title     *string
		allTitles []string
		want      string
	}{
		{"primary title trimmed", strPtr("  Cowboy Bebop "), nil, "Cowboy Bebop"},
		{"missing title uses first alternate", nil, []string{" ", "カウボーイビバップ"}, "カウボーイビバップ"},
		{"blank title uses first alternate", strPtr("   "), []string{"Bebop"}, "Bebop"},
		{"no titles at all", nil, nil, "Untitled #42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NormalizeRow(RawRow{ID: 42, Title: tt.title, AllTitles: tt.allTitles}, 0)
			assert.Equal(t, tt.want, it.Title)
		})
	}
}

func TestNormalizeRow_AlternateTitlesDeduplicated(t *testing.T) {
	it := NormalizeRow(RawRow{ID: 1, AllTitles: []string{"A", "", " B ", "A", "B"}}, 0)
	assert.Equal(t, []string{"A", "B"}, it.AlternateTitles)
}

func TestNormalizeRow_Tags(t *testing.T) {
	it := NormalizeRow(RawRow{ID: 1, Tags: []string{"Action", " action", "Slice of Life", "", "DRAMA"}}, 0)

	assert.Equal(t, []string{"action", "slice of life", "drama"}, it.Tags)
	assert.Equal(t, []string{"Action", "Slice of Life", "DRAMA"}, it.DisplayTags)
	assert.True(t, it.HasTag("ACTION"))
	assert.True(t, it.HasTag(" drama "))
	assert.False(t, it.HasTag("romance"))
	assert.Len(t, it.TagSet(), 3)
}

func TestNormalizeRow_Embedding(t *testing.T) {
	tests := []struct {
		name string
		vec  []float64
		dim  int
		want []float64
	}{
		{"matching dimension kept", []float64{1, 2, 3}, 3, []float64{1, 2, 3}},
		{"any dimension when unset", []float64{1, 2}, 0, []float64{1, 2}},
		{"wrong dimension dropped", []float64{1, 2}, 3, nil},
		{"empty becomes nil", []float64{}, 3, nil},
		{"NaN dropped", []float64{1, math.NaN(), 3}, 3, nil},
		{"Inf dropped", []float64{math.Inf(1), 0, 0}, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NormalizeRow(RawRow{ID: 1, Embedding: tt.vec}, tt.dim)
			assert.Equal(t, tt.want, it.Embedding)
			assert.Equal(t, tt.want != nil, it.HasEmbedding())
		})
	}
}

func TestNormalizeRow_Scalars(t *testing.T) {
	it := NormalizeRow(RawRow{
		ID:            7,
		Title:         strPtr("Mushishi"),
		IsNSFW:        boolPtr(true),
		TotalEpisodes: intPtr(-3),
		MainPicture:   json.RawMessage(`{"medium":"m.jpg","large":"l.jpg"}`),
		Synopsis:      strPtr("Ginko wanders."),
	}, 0)

	assert.True(t, it.IsNSFW)
	assert.Equal(t, 0, it.TotalEpisodes)
	require.NotNil(t, it.MainPicture)
	assert.Equal(t, "m.jpg", it.MainPicture.Medium)
	assert.Equal(t, "l.jpg", it.MainPicture.Large)
	assert.Equal(t, "Ginko wanders.", *it.Synopsis)
}

func TestNormalizeRow_MalformedPicture(t *testing.T) {
	for _, raw := range []string{`not json`, `null`, `{}`, ``} {
		it := NormalizeRow(RawRow{ID: 1, MainPicture: json.RawMessage(raw)}, 0)
		assert.Nil(t, it.MainPicture, "main_picture %q", raw)
	}
}

func TestItemSummaryOmitsEmbedding(t *testing.T) {
	it := NormalizeRow(RawRow{ID: 3, Title: strPtr("Haibane Renmei"), Embedding: []float64{0.5}}, 0)

	data, err := json.Marshal(it)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "embedding")

	s := it.Summary()
	assert.Equal(t, 3, s.ID)
	assert.Equal(t, "Haibane Renmei", s.Title)

	d := it.Detail()
	data, err = json.Marshal(d)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "embedding")
	assert.Contains(t, string(data), `"children_ids"`)
	assert.Contains(t, string(data), `"title":"Haibane Renmei"`)
}

func TestItemSummaryKeepsTagSpelling(t *testing.T) {
	it := NormalizeRow(RawRow{ID: 7, Title: strPtr("Aria"), Tags: []string{" Slice of Life", "iyashikei", "slice of life"}}, 0)

	assert.Equal(t, []string{"slice of life", "iyashikei"}, it.Tags)
	assert.Equal(t, []string{"Slice of Life", "iyashikei"}, it.Summary().Tags)
	assert.Equal(t, []string{"Slice of Life", "iyashikei"}, it.Detail().Tags)
	assert.True(t, it.HasTag("SLICE OF LIFE"))

	bare := &Item{ID: 8, Tags: []string{"mecha"}}
	assert.Equal(t, []string{"mecha"}, bare.Summary().Tags)
}
