package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setAdzunaKeyReq struct {
	AppKey string `json:"app_key"`
}

// SetAdzunaKey stores the Adzuna app key in the OS keychain. The key
// is picked up on the next driver construction, not the running cycle.
func (h SecretsHandler) SetAdzunaKey(w http.ResponseWriter, r *http.Request) {
	var req setAdzunaKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, codeInvalidJSON, "invalid json")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	account := cfg.Sources.Adzuna.KeyringAccount
	if account == "" {
		account = secrets.AdzunaKeyringAccount(cfg.Sources.Adzuna.AppID)
	}
	if err := secrets.SetAPIKey(account, req.AppKey); err != nil {
		WriteError(w, r, http.StatusBadRequest, codeKeyringFailed, "failed to store key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
