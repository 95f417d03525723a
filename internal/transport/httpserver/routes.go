package httpserver

import (
	"net/http"
	"time"

	"family-ledger-go/internal/config"
	"family-ledger-go/internal/transport/httpserver/handler"
	authmw "family-ledger-go/internal/transport/httpserver/middleware"
	"family-ledger-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users authmw.UserSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewJWTAuth(cfg.Auth, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/families", handlers.ListFamilies)
			r.Post("/families", handlers.CreateFamily)
			r.Post("/families/join", handlers.JoinFamily)
			r.Get("/families/{family_id}", handlers.GetFamily)
			r.Patch("/families/{family_id}", handlers.UpdateFamily)
			r.Delete("/families/{family_id}", handlers.DeleteFamily)
			r.Post("/families/{family_id}/switch", handlers.SwitchFamily)
			r.Post("/families/{family_id}/invite-code", handlers.RegenerateInviteCode)
			r.Post("/families/{family_id}/members", handlers.AddFamilyMember)
			r.Patch("/families/{family_id}/members/{user_id}", handlers.UpdateFamilyMemberRole)
			r.Delete("/families/{family_id}/members/{user_id}", handlers.RemoveFamilyMember)

			r.Get("/assets", handlers.ListAssets)
			r.Post("/assets", handlers.CreateAsset)
			r.Get("/assets/categories", handlers.ListAssetCategories)
			r.Post("/assets/categories", handlers.CreateAssetCategory)
			r.Get("/assets/{asset_id}", handlers.GetAsset)
			r.Patch("/assets/{asset_id}", handlers.UpdateAsset)
			r.Delete("/assets/{asset_id}", handlers.DeleteAsset)
			r.Get("/assets/{asset_id}/changes", handlers.ListAssetChanges)
			r.Post("/assets/{asset_id}/changes", handlers.RecordAssetChange)

			r.Get("/statistics", handlers.AssetStatistics)
			r.Get("/statistics/distribution", handlers.AssetDistribution)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Get("/transactions/totals", handlers.TransactionTotals)
			r.Get("/transactions/categories", handlers.ListTransactionCategories)
			r.Patch("/transactions/{transaction_id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction)

			r.Post("/bootstrap/me", handlers.MigrateMyData)
			r.Post("/admin/bootstrap/users", handlers.InitializeUsers)
			r.Post("/admin/bootstrap/orphans", handlers.MigrateOrphanData)
		})
	})

	return r
}
