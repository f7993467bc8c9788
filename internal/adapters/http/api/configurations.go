package api

import (
	"net/http"
	"strings"
)

// defaultVersion is the protocol version assumed when none is requested.
const defaultVersion = "1"

// ConfigurationsHandler lists the configuration store.
type ConfigurationsHandler struct {
	store ConfigurationLister
}

// NewConfigurationsHandler creates a new configurations handler.
func NewConfigurationsHandler(store ConfigurationLister) *ConfigurationsHandler {
	return &ConfigurationsHandler{store: store}
}

type configurationsResponse struct {
	Version        string   `json:"version"`
	Configurations []string `json:"configurations"`
}

// HandleConfigurations handles GET /configurations?version=<v>.
func (h *ConfigurationsHandler) HandleConfigurations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	version := strings.TrimSpace(r.URL.Query().Get("version"))
	if version == "" {
		version = defaultVersion
	}
	if strings.ContainsAny(version, ",<>") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	names, err := h.store.ConfigurationNames(r.Context(), version)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, configurationsResponse{Version: version, Configurations: names})
}
