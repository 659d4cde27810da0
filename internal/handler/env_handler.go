package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"assassin/internal/configs"
	"assassin/internal/pkg/logx"
)

// HandleEnvJS serves an ES module exposing the allow-listed settings to the bundle.
func HandleEnvJS(cfg *configs.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := map[string]string{
			"ASSASSIN_BASE_URL": cfg.BaseURL,
			"ENVIRONMENT":       cfg.Environment,
		}

		encoded, err := json.Marshal(values)
		if err != nil {
			logx.Error(err, "Failed to encode env module")
			http.Error(w, "Failed to encode env module", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprintf(w, "export const env = %s;\n", encoded)
	}
}
