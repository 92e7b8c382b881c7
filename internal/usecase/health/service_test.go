package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestCheck(t *testing.T) {
	down := &mockPinger{err: errors.New("down")}
	up := &mockPinger{}

	tests := []struct {
		name       string
		search     Pinger
		cache      Pinger
		wantStatus Status
		wantSearch CheckResult
		wantCache  CheckResult // "" means absent
	}{
		{"all healthy", up, up, Healthy, CheckOK, CheckOK},
		{"no cache", up, nil, Healthy, CheckOK, ""},
		{"cache down", up, down, Degraded, CheckOK, CheckError},
		{"search down", down, up, Unhealthy, CheckError, CheckOK},
		{"both down", down, down, Unhealthy, CheckError, CheckError},
		{"search down no cache", down, nil, Unhealthy, CheckError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.search, tt.cache).Check(context.Background())
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks[ComponentSearch] != tt.wantSearch {
				t.Errorf("search = %q, want %q", r.Checks[ComponentSearch], tt.wantSearch)
			}
			got, ok := r.Checks[ComponentCache]
			if tt.wantCache == "" {
				if ok {
					t.Error("cache check should be absent when cache is nil")
				}
			} else if got != tt.wantCache {
				t.Errorf("cache = %q, want %q", got, tt.wantCache)
			}
		})
	}
}
