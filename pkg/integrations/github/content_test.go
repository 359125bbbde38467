package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/matzehuels/labindex/pkg/integrations"
)

func makeRepos(prefix string, n int) []Repo {
	repos := make([]Repo, n)
	for i := range repos {
		name := fmt.Sprintf("%s%03d", prefix, i)
		repos[i] = Repo{Name: name, FullName: "acme/" + name, HTMLURL: "https://github.com/acme/" + name, DefaultBranch: "main"}
	}
	return repos
}

func TestListOrgRepos_Pagination(t *testing.T) {
	var pages []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orgs/acme/repos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("per_page") != "100" || q.Get("type") != "public" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		page, _ := strconv.Atoi(q.Get("page"))
		pages = append(pages, page)

		switch page {
		case 1:
			json.NewEncoder(w).Encode(makeRepos("a", PerPage))
		case 2:
			json.NewEncoder(w).Encode(makeRepos("b", 3))
		default:
			t.Errorf("unexpected page %d", page)
			json.NewEncoder(w).Encode([]Repo{})
		}
	}))
	defer server.Close()

	c := NewContentClient("token", Options{BaseURL: server.URL})
	repos, err := c.ListOrgRepos(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ListOrgRepos() error: %v", err)
	}

	if len(pages) != 2 || pages[0] != 1 || pages[1] != 2 {
		t.Errorf("requested pages %v, want [1 2]", pages)
	}
	if len(repos) != PerPage+3 {
		t.Fatalf("got %d repos, want %d", len(repos), PerPage+3)
	}
	if repos[0].Name != "a000" || repos[PerPage-1].Name != "a099" || repos[PerPage].Name != "b000" {
		t.Errorf("pages not concatenated in order: %s, %s, %s", repos[0].Name, repos[PerPage-1].Name, repos[PerPage].Name)
	}
}

func TestListOrgRepos_EmptyPageStops(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(makeRepos("a", PerPage))
			return
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	repos, err := NewContentClient("", Options{BaseURL: server.URL}).ListOrgRepos(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ListOrgRepos() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("got %d requests, want 2", calls)
	}
	if len(repos) != PerPage {
		t.Errorf("got %d repos, want %d", len(repos), PerPage)
	}
}

func TestListOrgRepos_MaxPages(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(makeRepos("a", PerPage))
	}))
	defer server.Close()

	c := NewContentClient("", Options{BaseURL: server.URL, MaxPages: 3})
	repos, err := c.ListOrgRepos(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ListOrgRepos() error: %v", err)
	}
	if calls != 3 || len(repos) != 3*PerPage {
		t.Errorf("got %d calls and %d repos, want 3 and %d", calls, len(repos), 3*PerPage)
	}
}

func TestListOrgRepos_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-GitHub-Api-Version"); got != APIVersion {
			t.Errorf("X-GitHub-Api-Version = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	if _, err := NewContentClient("secret", Options{BaseURL: server.URL}).ListOrgRepos(context.Background(), "acme"); err != nil {
		t.Fatalf("ListOrgRepos() error: %v", err)
	}
}

func TestListOrgRepos_FailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(makeRepos("a", PerPage))
			return
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}))
	defer server.Close()

	repos, err := NewContentClient("", Options{BaseURL: server.URL}).ListOrgRepos(context.Background(), "acme")
	if err == nil {
		t.Fatal("ListOrgRepos() should fail when a page fails")
	}
	if repos != nil {
		t.Errorf("got %d repos, want none on failure", len(repos))
	}

	var httpErr *integrations.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %T, want *integrations.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", httpErr.StatusCode)
	}
	if string(httpErr.Body) != `{"message":"API rate limit exceeded"}` {
		t.Errorf("Body = %q", httpErr.Body)
	}
}

func TestFileExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/lab1/contents/catalog.yml":
			if r.URL.Query().Get("ref") != "main" {
				t.Errorf("ref = %q, want main", r.URL.Query().Get("ref"))
			}
			w.Write([]byte(`{"name":"catalog.yml","type":"file"}`))
		case "/repos/acme/broken/contents/catalog.yml":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := NewContentClient("", Options{BaseURL: server.URL})
	ctx := context.Background()

	tests := []struct {
		repo    string
		want    bool
		wantErr bool
	}{
		{"lab1", true, false},
		{"lab2", false, false},
		{"broken", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.repo, func(t *testing.T) {
			got, err := c.FileExists(ctx, "acme", tt.repo, "catalog.yml", "main")
			if (err != nil) != tt.wantErr {
				t.Fatalf("FileExists() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FileExists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	got := Names([]Repo{{Name: "lab1"}, {Name: "lab2"}})
	if len(got) != 2 || got[0] != "lab1" || got[1] != "lab2" {
		t.Errorf("Names() = %v", got)
	}
}
