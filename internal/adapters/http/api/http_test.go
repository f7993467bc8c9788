package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/venkman/internal/adapters/http/api"
	"github.com/okian/venkman/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockStore struct {
	names    []string
	err      error
	versions []string
}

func (m *mockStore) ConfigurationNames(_ context.Context, version string) ([]string, error) {
	m.versions = append(m.versions, version)
	return m.names, m.err
}

type mockSessions struct {
	sessions []types.SessionInfo
}

func (m *mockSessions) Sessions() []types.SessionInfo { return m.sessions }

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func serve(mux *http.ServeMux, method, target, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		store := &mockStore{names: []string{"test/configuration-a"}}
		sessions := &mockSessions{sessions: []types.SessionInfo{{ID: "sid-0", Remote: "127.0.0.1:5000", Frames: 3}}}
		stats := &mockStatsProvider{stats: map[string]interface{}{"sessions_active": 1}}
		monitor := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

		server := api.NewServer(store, sessions, stats, monitor)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("Health answers JSON by default", func() {
			w := serve(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Health answers the exposition to scrapers", func() {
			w := serve(mux, "GET", "/healthz", "text/plain")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "venkman_rules_")
		})

		Convey("Metrics are exposed", func() {
			w := serve(mux, "GET", "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "venkman_rules_")
		})

		Convey("Stats are served as JSON", func() {
			w := serve(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var got map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got["sessions_active"], ShouldEqual, 1.0)

			So(serve(mux, "POST", "/stats", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Sessions are listed", func() {
			w := serve(mux, "GET", "/sessions", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var got []types.SessionInfo
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].ID, ShouldEqual, "sid-0")
		})

		Convey("Configurations default to protocol version 1", func() {
			w := serve(mux, "GET", "/configurations", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"configurations":["test/configuration-a"]`)
			So(store.versions, ShouldResemble, []string{"1"})

			serve(mux, "GET", "/configurations?version=2", "")
			So(store.versions[1], ShouldEqual, "2")
		})

		Convey("Versions that cannot appear on the wire are rejected", func() {
			w := serve(mux, "GET", "/configurations?version=1,2", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Store failures are server errors", func() {
			store.err = errors.New("disk gone")
			w := serve(mux, "GET", "/configurations", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "disk gone")
		})

		Convey("The monitor handler is mounted", func() {
			So(serve(mux, "GET", "/monitor", "").Code, ShouldEqual, http.StatusTeapot)
		})

		Convey("Unknown paths are not found", func() {
			So(serve(mux, "GET", "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Without a monitor the route is absent", t, func() {
		server := api.NewServer(&mockStore{}, &mockSessions{}, &mockStatsProvider{}, nil)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)
		So(serve(mux, "GET", "/monitor", "").Code, ShouldEqual, http.StatusNotFound)

		w := serve(mux, "GET", "/configurations", "")
		So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"version":"1","configurations":[]}`)
	})
}
