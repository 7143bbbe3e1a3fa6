package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/collections"
	"tendergen/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Work CRUD ────────────────────────────────────────────
		se.Router.GET("/api/works", handlers.HandleWorkList(app))
		se.Router.POST("/api/works", handlers.HandleWorkSave(app))
		se.Router.POST("/api/works/upload", handlers.HandleWorkUpload(app))
		se.Router.GET("/api/works/{id}", handlers.HandleWorkView(app))
		se.Router.DELETE("/api/works/{id}", handlers.HandleWorkDelete(app))

		// ── Bid entry with re-ranking ────────────────────────────
		se.Router.POST("/api/works/{id}/bids", handlers.HandleBidAdd(app))
		se.Router.DELETE("/api/works/{id}/bids/{bidId}", handlers.HandleBidDelete(app))

		// ── Document generation and downloads ────────────────────
		se.Router.POST("/api/works/{id}/documents", handlers.HandleDocumentPackage(app))
		se.Router.GET("/api/works/{id}/documents", handlers.HandleDocumentHistory(app))
		se.Router.GET("/api/works/{id}/documents/{docType}/{format}", handlers.HandleDocumentSingle(app))

		// ── Office settings ──────────────────────────────────────
		se.Router.GET("/api/settings", handlers.HandleSettingsView(app))
		se.Router.PUT("/api/settings", handlers.HandleSettingsSave(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
