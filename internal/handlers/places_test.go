package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trailbook/trailbook-backend/internal/services"
)

func TestSearchLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", services.DefaultSearchResults},
		{"3", 3},
		{"0", services.DefaultSearchResults},
		{"-2", services.DefaultSearchResults},
		{"abc", services.DefaultSearchResults},
		{"20", maxSearchLimit},
		{"100000000", maxSearchLimit},
	}

	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/places/search?limit="+tc.raw, nil)
		assert.Equal(t, tc.want, searchLimit(r), "limit=%q", tc.raw)
	}
}
