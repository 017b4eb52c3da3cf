package privateapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"embedhub/pkg/credentials"
	"embedhub/pkg/empresas"
)

var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "embedhub",
	Name:      "login_attempts_total",
	Help:      "Private login attempts by outcome.",
}, []string{"outcome"})

type loginRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// login authenticates an empresa by client_id/client_secret and issues a
// bearer token. Unknown client and wrong secret produce the same 401 body so
// the endpoint cannot be used to enumerate client ids.
func (a *App) login(w http.ResponseWriter, r *http.Request) {
	if a.limiter != nil && !a.limiter.Allow(r.Context(), r) {
		loginAttempts.WithLabelValues("rate_limited").Inc()
		writeError(w, msgTooManyAttempts, http.StatusTooManyRequests)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, msgBodyNotJSON, http.StatusBadRequest)
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		writeError(w, msgMissingCredentials, http.StatusBadRequest)
		return
	}

	e, err := a.store.GetEmpresaByClientID(r.Context(), req.ClientID)
	if err != nil {
		if errors.Is(err, empresas.ErrNotFound) {
			loginAttempts.WithLabelValues("unknown_client").Inc()
			writeError(w, msgInvalidCredentials, http.StatusUnauthorized)
			return
		}
		a.log.Errorw("login: empresa lookup", "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	if !e.Active {
		loginAttempts.WithLabelValues("inactive").Inc()
		writeError(w, msgClientInactive, http.StatusForbidden)
		return
	}
	if !credentials.VerifySecret(req.ClientSecret, e.SecretHash) {
		loginAttempts.WithLabelValues("bad_secret").Inc()
		writeError(w, msgInvalidCredentials, http.StatusUnauthorized)
		return
	}

	issued, err := a.tokens.Issue(e.ID, e.ClientID)
	if err != nil {
		a.log.Errorw("login: token issue", "empresa", e.ID, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}

	loginAttempts.WithLabelValues("success").Inc()
	a.log.Infow("empresa authenticated", "nombre", e.Nombre, "id", e.ID)
	writeJSON(w, issued, http.StatusOK)
}

type reportSummary struct {
	ConfigID int64  `json:"config_id"`
	Name     string `json:"name"`
}

// listReports returns the private configs associated with the caller's
// empresa. Zero associations is a normal 200 with an empty list.
func (a *App) listReports(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	configs, err := a.store.ListPrivateConfigs(r.Context(), claims.Sub)
	if err != nil {
		a.log.Errorw("list reports", "empresa", claims.Sub, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	out := make([]reportSummary, 0, len(configs))
	for _, rc := range configs {
		out = append(out, reportSummary{ConfigID: rc.ID, Name: rc.Name})
	}
	writeJSON(w, map[string]any{"reports": out}, http.StatusOK)
}

type embedResponse struct {
	EmbedURL    string `json:"embedUrl"`
	ReportID    string `json:"reportId"`
	AccessToken string `json:"accessToken"`
	WorkspaceID string `json:"workspaceId"`
	DatasetID   string `json:"datasetId"`
}

// reportConfig authorizes the caller for one config and returns its embed
// coordinates. Check order is fixed: config existence, private flag, empresa
// validity, association. The empresa id comes from the verified token, never
// from the request.
func (a *App) reportConfig(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	configID, ok := a.configIDFrom(r, w)
	if !ok {
		return
	}

	cfg, err := a.store.GetReportConfig(r.Context(), configID)
	if err != nil {
		if errors.Is(err, empresas.ErrNotFound) {
			writeError(w, msgConfigNotFound, http.StatusNotFound)
			return
		}
		a.log.Errorw("report config lookup", "config", configID, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	if !cfg.Privado {
		writeError(w, msgConfigNotPrivate, http.StatusForbidden)
		return
	}

	e, err := a.store.GetEmpresa(r.Context(), claims.Sub)
	if err != nil {
		if errors.Is(err, empresas.ErrNotFound) {
			writeError(w, msgUnauthorized, http.StatusUnauthorized)
			return
		}
		a.log.Errorw("report config: empresa lookup", "empresa", claims.Sub, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	if !e.Active {
		writeError(w, msgUnauthorized, http.StatusUnauthorized)
		return
	}

	associated, err := a.store.IsAssociated(r.Context(), e.ID, cfg.ID)
	if err != nil {
		a.log.Errorw("association check", "empresa", e.ID, "config", cfg.ID, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	if !associated {
		writeError(w, msgConfigNotAssociated, http.StatusForbidden)
		return
	}

	embed, err := a.resolver.ResolveEmbed(r.Context(), cfg)
	if err != nil {
		// Full detail stays server-side; the caller gets a generic 500.
		a.log.Errorw("embed resolution failed", "config", cfg.ID, "empresa", e.ID, "err", err)
		writeError(w, msgEmbedFailed, http.StatusInternalServerError)
		return
	}

	a.log.Infow("report config served", "empresa", e.ID, "config", cfg.ID, "name", cfg.Name)
	writeJSON(w, embedResponse{
		EmbedURL:    embed.URL,
		ReportID:    embed.ReportID,
		AccessToken: embed.Token,
		WorkspaceID: cfg.WorkspaceID,
		// The original wire format reports the workspace id here; dataset ids
		// are not tracked separately.
		DatasetID: cfg.WorkspaceID,
	}, http.StatusOK)
}

// configIDFrom reads config_id from the query string (canonical) or, on POST,
// from a JSON body. The body transport is deprecated; callers still using it
// get a warning in the logs. Writes the error response itself when ok=false.
func (a *App) configIDFrom(r *http.Request, w http.ResponseWriter) (int64, bool) {
	if raw := r.URL.Query().Get("config_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, msgConfigIDNotInteger, http.StatusBadRequest)
			return 0, false
		}
		return id, true
	}
	if r.Method == http.MethodPost {
		var body struct {
			ConfigID int64 `json:"config_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.ConfigID != 0 {
			a.log.Warnw("config_id in request body is deprecated, use the query parameter", "path", r.URL.Path)
			return body.ConfigID, true
		}
	}
	writeError(w, msgMissingConfigID, http.StatusBadRequest)
	return 0, false
}
