package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockHTTPServer replays canned responses in order.
// Response may be a string, a []string, or any value that is JSON encoded.
// Once a []string is exhausted, the last entry is repeated.
type MockHTTPServer struct {
	*httptest.Server
	Response    interface{}
	StatusCodes []int
	Counter     int
	// Requests records "METHOD path" for every request served
	Requests []string
	// Bodies records the body of every request served
	Bodies [][]byte

	t      *testing.T
	status int
	lock   sync.Mutex
}

func (s *MockHTTPServer) nextResponse() ([]byte, int) {
	status := s.status
	if len(s.StatusCodes) > 0 {
		if s.Counter < len(s.StatusCodes) {
			status = s.StatusCodes[s.Counter]
		} else {
			status = s.StatusCodes[len(s.StatusCodes)-1]
		}
	}
	switch resp := s.Response.(type) {
	case string:
		return []byte(resp), status
	case []string:
		if len(resp) == 0 {
			return []byte{}, status
		}
		if s.Counter < len(resp) {
			return []byte(resp[s.Counter]), status
		}
		return []byte(resp[len(resp)-1]), status
	default:
		bz, err := json.Marshal(resp)
		if err != nil {
			s.t.Errorf("could not encode mock response: %v", err)
		}
		return bz, status
	}
}

func (s *MockHTTPServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	body, _ := io.ReadAll(req.Body)
	s.Requests = append(s.Requests, req.Method+" "+req.URL.Path)
	s.Bodies = append(s.Bodies, body)

	resp, status := s.nextResponse()
	s.Counter++

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(resp)
}

// MockHTTP starts a server answering every request with response and status.
func MockHTTP(t *testing.T, response interface{}, status int) (*MockHTTPServer, func()) {
	mock := &MockHTTPServer{
		Response: response,
		t:        t,
		status:   status,
	}
	mock.Server = httptest.NewServer(mock)
	return mock, mock.Close
}
