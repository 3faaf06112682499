package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubService struct {
	resp *Response
	err  error
}

func (s *stubService) FollowingFeed(ctx context.Context, viewerID int64, page, limit int) (*Response, error) {
	return s.resp, s.err
}

func (s *stubService) DiscoveryFeed(ctx context.Context, viewerID int64, page, limit int) (*Response, error) {
	return s.resp, s.err
}

func (s *stubService) ExploreFeed(ctx context.Context, viewerID int64, query string, page, limit int) (*Response, error) {
	return s.resp, s.err
}

func feedRequest(authed bool) *http.Request {
	r := httptest.NewRequest("GET", "/api/v1/feed/following", nil)
	if authed {
		r = r.WithContext(context.WithValue(r.Context(), "userID", int64(1)))
	}
	return r
}

func TestFeedHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		svc    *stubService
		authed bool
		want   int
	}{
		{"ok", &stubService{resp: &Response{Items: []*Item{}, Page: 1}}, true, http.StatusOK},
		{"unknown viewer", &stubService{err: ErrViewerNotFound}, true, http.StatusNotFound},
		{"store down", &stubService{err: errors.New("connection refused")}, true, http.StatusServiceUnavailable},
		{"no auth", &stubService{}, false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.svc, 10, 50)
			w := httptest.NewRecorder()
			h.Following(w, feedRequest(tt.authed))
			if w.Code != tt.want {
				t.Errorf("got status %d, want %d", w.Code, tt.want)
			}
		})
	}
}
