// Package airtabletest provides an in-memory Airtable REST server for tests.
// It implements the subset of the API used by package airtable: paginated
// list with single-field sort, get, single and batch create, patch and delete.
package airtabletest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/go-recipe-backend/internal/airtable"
)

// BaseID is the base every Server serves.
const BaseID = "appTest"

// Server is a fake Airtable base. It is safe for concurrent use.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	tables   map[string]map[string]map[string]any
	order    map[string][]string
	seq      int
	failures map[string]int
	requests []string

	// PageSize caps list pages, default 100.
	PageSize int
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		tables:   map[string]map[string]map[string]any{},
		order:    map[string][]string{},
		failures: map[string]int{},
		PageSize: 100,
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// Client returns an airtable client pointed at the server, without pacing.
func (s *Server) Client() *airtable.Client {
	return airtable.New(s.srv.URL+"/v0", BaseID, "test-key", 5*time.Second,
		airtable.WithHTTPClient(s.srv.Client()), airtable.WithRateLimit(0))
}

// URL is the API root, suitable for AIRTABLE_BASE_URL.
func (s *Server) URL() string { return s.srv.URL + "/v0" }

// Seed inserts a record with a fixed id.
func (s *Server) Seed(table, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(table, id, roundTrip(fields))
}

// Fail makes the next n requests matching "METHOD table" answer 500.
func (s *Server) Fail(method, table string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+table] += n
}

// Records returns a copy of the fields of every record in table, keyed by id.
func (s *Server) Records(table string) map[string]map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]any, len(s.tables[table]))
	for id, f := range s.tables[table] {
		out[id] = roundTrip(f)
	}
	return out
}

// Requests returns "METHOD table" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count returns how many requests matched "METHOD table".
func (s *Server) Count(method, table string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == method+" "+table {
			n++
		}
	}
	return n
}

func (s *Server) put(table, id string, fields map[string]any) {
	if s.tables[table] == nil {
		s.tables[table] = map[string]map[string]any{}
	}
	if _, ok := s.tables[table][id]; !ok {
		s.order[table] = append(s.order[table], id)
	}
	s.tables[table][id] = fields
}

func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("rec%06d", s.seq)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/v0/"), "/")
	if len(parts) < 2 || parts[0] != BaseID {
		writeErr(w, http.StatusNotFound, "NOT_FOUND")
		return
	}
	if r.Header.Get("Authorization") != "Bearer test-key" {
		writeErr(w, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED")
		return
	}
	table := parts[1]
	id := ""
	if len(parts) > 2 {
		id = parts[2]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.Method + " " + table
	s.requests = append(s.requests, key)
	if s.failures[key] > 0 {
		s.failures[key]--
		writeErr(w, http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	switch {
	case r.Method == http.MethodGet && id == "":
		s.list(w, r, table)
	case r.Method == http.MethodGet:
		f, ok := s.tables[table][id]
		if !ok {
			writeErr(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		writeJSON(w, record(id, f))
	case r.Method == http.MethodPost && id == "":
		s.create(w, r, table)
	case r.Method == http.MethodPatch && id != "":
		f, ok := s.tables[table][id]
		if !ok {
			writeErr(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, http.StatusUnprocessableEntity, "INVALID_REQUEST_BODY")
			return
		}
		for k, v := range body.Fields {
			f[k] = v
		}
		writeJSON(w, record(id, f))
	case r.Method == http.MethodDelete && id != "":
		if _, ok := s.tables[table][id]; !ok {
			writeErr(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		delete(s.tables[table], id)
		ids := s.order[table][:0]
		for _, v := range s.order[table] {
			if v != id {
				ids = append(ids, v)
			}
		}
		s.order[table] = ids
		writeJSON(w, map[string]any{"deleted": true, "id": id})
	default:
		writeErr(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, table string) {
	q := r.URL.Query()
	ids := append([]string(nil), s.order[table]...)
	if field := q.Get("sort[0][field]"); field != "" {
		desc := q.Get("sort[0][direction]") == "desc"
		sort.SliceStable(ids, func(i, j int) bool {
			a := fmt.Sprint(s.tables[table][ids[i]][field])
			b := fmt.Sprint(s.tables[table][ids[j]][field])
			if desc {
				return a > b
			}
			return a < b
		})
	}
	start, _ := strconv.Atoi(q.Get("offset"))
	start = min(max(start, 0), len(ids))
	end := min(start+s.PageSize, len(ids))
	page := struct {
		Records []map[string]any `json:"records"`
		Offset  string           `json:"offset,omitempty"`
	}{Records: []map[string]any{}}
	for _, id := range ids[start:end] {
		page.Records = append(page.Records, record(id, s.tables[table][id]))
	}
	if end < len(ids) {
		page.Offset = strconv.Itoa(end)
	}
	writeJSON(w, page)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, table string) {
	var body struct {
		Fields  map[string]any `json:"fields"`
		Records []struct {
			Fields map[string]any `json:"fields"`
		} `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, "INVALID_REQUEST_BODY")
		return
	}
	if body.Records == nil {
		id := s.nextID()
		s.put(table, id, body.Fields)
		writeJSON(w, record(id, body.Fields))
		return
	}
	if len(body.Records) > 10 {
		writeErr(w, http.StatusUnprocessableEntity, "INVALID_RECORDS")
		return
	}
	out := struct {
		Records []map[string]any `json:"records"`
	}{}
	for _, rec := range body.Records {
		id := s.nextID()
		s.put(table, id, rec.Fields)
		out.Records = append(out.Records, record(id, rec.Fields))
	}
	writeJSON(w, out)
}

func record(id string, fields map[string]any) map[string]any {
	return map[string]any{"id": id, "createdTime": "2024-05-01T10:00:00.000Z", "fields": fields}
}

// roundTrip normalizes Go values to their JSON-decoded form.
func roundTrip(in map[string]any) map[string]any {
	b, _ := json.Marshal(in)
	out := map[string]any{}
	_ = json.Unmarshal(b, &out)
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
