// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// stubService runs until canceled, optionally failing its first few starts.
type stubService struct {
	name     string
	failures int32
	starts   atomic.Int32
}

func newStubService(name string, failures int32) *stubService {
	return &stubService{name: name, failures: failures}
}

func (s *stubService) Serve(ctx context.Context) error {
	if n := s.starts.Add(1); n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) Starts() int32 {
	return s.starts.Load()
}

func (s *stubService) String() string {
	return s.name
}
