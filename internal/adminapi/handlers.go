package adminapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"embedhub/pkg/credentials"
	"embedhub/pkg/empresas"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"error": msg}, status)
}

func (a *App) empresaID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (a *App) listEmpresas(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.ListEmpresas(r.Context())
	if err != nil {
		a.log.Errorw("list empresas", "err", err)
		writeError(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"empresas": out}, http.StatusOK)
}

type empresaRequest struct {
	Nombre string `json:"nombre"`
	CUIT   string `json:"cuit"`
}

// createEmpresa provisions a new empresa and generates its credentials. The
// response is the only place the plaintext secret ever appears; after this,
// only the hash exists.
func (a *App) createEmpresa(w http.ResponseWriter, r *http.Request) {
	var req empresaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		writeError(w, "nombre is required", http.StatusBadRequest)
		return
	}

	clientID, err := credentials.GenerateClientID()
	if err != nil {
		a.log.Errorw("generate client id", "err", err)
		writeError(w, "credential generation failed", http.StatusInternalServerError)
		return
	}
	secret, err := credentials.GenerateClientSecret()
	if err != nil {
		a.log.Errorw("generate client secret", "err", err)
		writeError(w, "credential generation failed", http.StatusInternalServerError)
		return
	}
	hash, err := credentials.HashSecret(secret)
	if err != nil {
		a.log.Errorw("hash client secret", "err", err)
		writeError(w, "credential generation failed", http.StatusInternalServerError)
		return
	}

	e := empresas.Empresa{Nombre: req.Nombre, CUIT: req.CUIT, ClientID: clientID, SecretHash: hash, Active: true}
	if err := a.store.CreateEmpresa(r.Context(), &e); err != nil {
		if errors.Is(err, empresas.ErrDuplicate) {
			writeError(w, "empresa already exists", http.StatusConflict)
			return
		}
		a.log.Errorw("create empresa", "err", err)
		writeError(w, "storage error", http.StatusInternalServerError)
		return
	}

	a.log.Infow("empresa created", "nombre", e.Nombre, "id", e.ID)
	writeJSON(w, map[string]any{
		"empresa":       e,
		"client_id":     clientID,
		"client_secret": secret, // shown exactly once
	}, http.StatusCreated)
}

func (a *App) updateEmpresa(w http.ResponseWriter, r *http.Request) {
	id, ok := a.empresaID(r)
	if !ok {
		writeError(w, "invalid empresa id", http.StatusBadRequest)
		return
	}
	var req empresaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		writeError(w, "nombre is required", http.StatusBadRequest)
		return
	}
	e, err := a.store.UpdateEmpresa(r.Context(), id, req.Nombre, req.CUIT)
	if err != nil {
		switch {
		case errors.Is(err, empresas.ErrNotFound):
			writeError(w, "empresa not found", http.StatusNotFound)
		case errors.Is(err, empresas.ErrDuplicate):
			writeError(w, "empresa already exists", http.StatusConflict)
		default:
			a.log.Errorw("update empresa", "id", id, "err", err)
			writeError(w, "storage error", http.StatusInternalServerError)
		}
		return
	}
	a.log.Infow("empresa updated", "nombre", e.Nombre, "id", e.ID)
	writeJSON(w, e, http.StatusOK)
}

// regenerateCredentials issues a fresh client_id/client_secret pair and
// discards the old hash. Existing bearer tokens keep their embedded client_id
// but stay verifiable until exp.
func (a *App) regenerateCredentials(w http.ResponseWriter, r *http.Request) {
	id, ok := a.empresaID(r)
	if !ok {
		writeError(w, "invalid empresa id", http.StatusBadRequest)
		return
	}

	clientID, err := credentials.GenerateClientID()
	if err != nil {
		a.log.Errorw("regenerate credentials: client id", "id", id, "err", err)
		writeError(w, "credential regeneration failed", http.StatusInternalServerError)
		return
	}
	secret, err := credentials.GenerateClientSecret()
	if err != nil {
		a.log.Errorw("regenerate credentials: secret", "id", id, "err", err)
		writeError(w, "credential regeneration failed", http.StatusInternalServerError)
		return
	}
	hash, err := credentials.HashSecret(secret)
	if err != nil {
		a.log.Errorw("regenerate credentials: hash", "id", id, "err", err)
		writeError(w, "credential regeneration failed", http.StatusInternalServerError)
		return
	}
	if err := a.store.SetEmpresaCredentials(r.Context(), id, clientID, hash); err != nil {
		if errors.Is(err, empresas.ErrNotFound) {
			writeError(w, "empresa not found", http.StatusNotFound)
			return
		}
		a.log.Errorw("regenerate credentials: store", "id", id, "err", err)
		writeError(w, "credential regeneration failed", http.StatusInternalServerError)
		return
	}
	a.log.Infow("empresa credentials regenerated", "id", id)
	writeJSON(w, map[string]string{
		"client_id":     clientID,
		"client_secret": secret, // shown exactly once
	}, http.StatusOK)
}

func (a *App) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := a.empresaID(r)
	if !ok {
		writeError(w, "invalid empresa id", http.StatusBadRequest)
		return
	}
	e, err := a.store.GetEmpresa(r.Context(), id)
	if err != nil {
		if errors.Is(err, empresas.ErrNotFound) {
			writeError(w, "empresa not found", http.StatusNotFound)
			return
		}
		a.log.Errorw("toggle status: lookup", "id", id, "err", err)
		writeError(w, "storage error", http.StatusInternalServerError)
		return
	}
	e, err = a.store.SetEmpresaActive(r.Context(), id, !e.Active)
	if err != nil {
		a.log.Errorw("toggle status", "id", id, "err", err)
		writeError(w, "storage error", http.StatusInternalServerError)
		return
	}
	a.log.Infow("empresa status toggled", "id", id, "active", e.Active)
	writeJSON(w, e, http.StatusOK)
}

func (a *App) deleteEmpresa(w http.ResponseWriter, r *http.Request) {
	id, ok := a.empresaID(r)
	if !ok {
		writeError(w, "invalid empresa id", http.StatusBadRequest)
		return
	}
	if err := a.store.DeleteEmpresa(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, empresas.ErrNotFound):
			writeError(w, "empresa not found", http.StatusNotFound)
		case errors.Is(err, empresas.ErrHasAssociations):
			writeError(w, "empresa has associated report configs", http.StatusConflict)
		default:
			a.log.Errorw("delete empresa", "id", id, "err", err)
			writeError(w, "storage error", http.StatusInternalServerError)
		}
		return
	}
	a.log.Infow("empresa deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) listEmpresaReports(w http.ResponseWriter, r *http.Request) {
	id, ok := a.empresaID(r)
	if !ok {
		writeError(w, "invalid empresa id", http.StatusBadRequest)
		return
	}
	if _, err := a.store.GetEmpresa(r.Context(), id); err != nil {
		if errors.Is(err, empresas.ErrNotFound) {
			writeError(w, "empresa not found", http.StatusNotFound)
			return
		}
		a.log.Errorw("list empresa reports: lookup", "id", id, "err", err)
		writeError(w, "storage error", http.StatusInternalServerError)
		return
	}
	ids, err := a.store.ListAssociations(r.Context(), id)
	if err != nil {
		a.log.Errorw("list empresa reports", "id", id, "err", err)
		writeError(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"report_config_ids": ids}, http.StatusOK)
}

// setEmpresaReports replaces the association set. Only private configs can be
// linked; the association table is the authorization source of truth for the
// private API.
func (a *App) setEmpresaReports(w http.ResponseWriter, r *http.Request) {
	id, ok := a.empresaID(r)
	if !ok {
		writeError(w, "invalid empresa id", http.StatusBadRequest)
		return
	}
	var req struct {
		ReportConfigIDs []int64 `json:"report_config_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "request body must be JSON", http.StatusBadRequest)
		return
	}
	if err := a.store.ReplaceAssociations(r.Context(), id, req.ReportConfigIDs); err != nil {
		switch {
		case errors.Is(err, empresas.ErrNotFound):
			writeError(w, "empresa or report config not found", http.StatusNotFound)
		case errors.Is(err, empresas.ErrNotPrivate):
			writeError(w, "only private report configs can be associated", http.StatusBadRequest)
		default:
			a.log.Errorw("set empresa reports", "id", id, "err", err)
			writeError(w, "storage error", http.StatusInternalServerError)
		}
		return
	}
	a.log.Infow("empresa associations replaced", "id", id, "configs", len(req.ReportConfigIDs))
	w.WriteHeader(http.StatusNoContent)
}
