package utils

import (
	"net/http/httptest"
	"testing"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/feed", 1, 20},
		{"explicit", "/feed?page=3&limit=10", 3, 10},
		{"clamped limit", "/feed?limit=500", 1, 50},
		{"zero page", "/feed?page=0", 1, 20},
		{"negative values", "/feed?page=-2&limit=-5", 1, 20},
		{"garbage", "/feed?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, limit := Pagination(r, 20, 50)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
