package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/admin"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Reload asks the scheduler to re-read products.json for the storefront.
// It answers 429 while a previous request is still queued.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual catalog reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeNotice(d, w, http.StatusAccepted, admin.Notice{
				Type:    admin.NoticeSuccess,
				Message: "Reload triggered",
			})
		default:
			d.Logger.Warn("catalog reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeNotice(d, w, http.StatusTooManyRequests, admin.Notice{
				Type:    admin.NoticeInfo,
				Message: "Reload already in progress, please wait",
			})
		}
	}
}
