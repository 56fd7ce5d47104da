package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tokoyanto/nota/internal/auth"
	"github.com/tokoyanto/nota/internal/config"
	"github.com/tokoyanto/nota/internal/handlers"
	"github.com/tokoyanto/nota/internal/httpx"
	"github.com/tokoyanto/nota/internal/middleware"
	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/render"
	"github.com/tokoyanto/nota/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Sessions stay valid only while the user row still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handlers.NewAuthHandler(db).Register(mux)

	gated := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	// List/Create share the collection path; everything else routes by ?id=.
	collection := func(list, create http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		}
	}

	ch := handlers.NewCustomerHandler(db)
	mux.Handle("/api/customers", gated(collection(ch.List, ch.Create)))
	mux.Handle("/api/customers/get", gated(ch.Get))
	mux.Handle("/api/customers/update", gated(ch.Update))
	mux.Handle("/api/customers/delete", gated(ch.Delete))

	ith := handlers.NewItemHandler(db)
	mux.Handle("/api/items", gated(collection(ith.List, ith.Create)))
	mux.Handle("/api/items/get", gated(ith.Get))
	mux.Handle("/api/items/update", gated(ith.Update))
	mux.Handle("/api/items/delete", gated(ith.Delete))

	uh := handlers.NewUnitHandler(db)
	mux.Handle("/api/units", gated(collection(uh.List, uh.Create)))
	mux.Handle("/api/units/get", gated(uh.Get))
	mux.Handle("/api/units/update", gated(uh.Update))
	mux.Handle("/api/units/delete", gated(uh.Delete))

	numbering := services.NewNumberingService(db)
	notaSvc := services.NewNotaService(db, numbering)
	nh := handlers.NewNotaHandler(db, notaSvc, numbering)
	mux.Handle("/api/notas", gated(collection(nh.List, nh.Create)))
	mux.Handle("/api/notas/get", gated(nh.Get))
	mux.Handle("/api/notas/update", gated(nh.Update))
	mux.Handle("/api/notas/delete", gated(nh.Delete))
	mux.Handle("/api/notas/publish", gated(nh.Publish))
	mux.Handle("/api/notas/last-number", gated(nh.LastNumber))

	eh := handlers.NewExportHandler(notaSvc,
		&render.PDFRenderer{FontPath: cfg.PDFFontPath},
		&render.ExcelRenderer{Logger: logger})
	mux.Handle("/notas/print", gated(eh.Print))
	mux.Handle("/notas/surat-jalan", gated(eh.SuratJalan))
	mux.Handle("/notas/pdf", gated(eh.PDFNota))
	mux.Handle("/notas/export", gated(eh.ExcelExport))

	return middleware.Prefs(withRecover(withLogging(logger, mux), logger))
}

func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func withRecover(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
