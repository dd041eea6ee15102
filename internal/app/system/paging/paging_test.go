package paging

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/voters", 1, DefaultPerPage},
		{"explicit", "/voters?page=3&per_page=25", 3, 25},
		{"zero page", "/voters?page=0", 1, DefaultPerPage},
		{"negative page", "/voters?page=-2", 1, DefaultPerPage},
		{"garbage", "/voters?page=abc&per_page=xyz", 1, DefaultPerPage},
		{"per_page capped", "/voters?per_page=10000", 1, MaxPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := FromRequest(r)
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.PerPage != tt.wantPerPage {
				t.Errorf("PerPage = %d, want %d", p.PerPage, tt.wantPerPage)
			}
		})
	}
}

func TestSkipLimit(t *testing.T) {
	p := Page{Page: 3, PerPage: 25}
	if p.Skip() != 50 {
		t.Errorf("Skip = %d, want 50", p.Skip())
	}
	if p.Limit() != 25 {
		t.Errorf("Limit = %d, want 25", p.Limit())
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 50, 0},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{100, 25, 4},
	}
	for _, tt := range tests {
		p := Page{Page: 1, PerPage: tt.perPage}
		if got := p.TotalPages(tt.total); got != tt.want {
			t.Errorf("TotalPages(%d) with per_page=%d = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}
