package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/csrf"

	"coursereg/auth"
	"coursereg/config"
	"coursereg/db"
	"coursereg/handlers"
	"coursereg/i18n"
	"coursereg/store"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := i18n.LoadTranslations("i18n"); err != nil {
		log.Fatalf("Error loading translations: %v", err)
	}

	auth.InitStore()

	profile := config.Profile()
	db.InitDB(config.AppConfig.DBPath, profile)
	defer db.DB.Close()

	creds := store.NewCredentialStore(db.DB, config.AppConfig.BootstrapSecretPath)
	showable, err := creds.Bootstrap()
	if err != nil {
		log.Fatalf("Error bootstrapping admin credentials: %v", err)
	}
	if showable {
		log.Printf("Default admin credentials are in %s; log in and rotate them", config.AppConfig.BootstrapSecretPath)
	}

	subs := store.NewSubmissionStore(db.DB, profile)

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Register application handlers
	handlers.RegisterHandlers(mux, creds, subs, profile)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.ListenIP, config.AppConfig.ListenPort)
	log.Printf("Server starting on %s (%s)", addr, config.AppConfig.AppName)

	// CSRF Protection
	// We need a 32-byte key. Using session key for now, assuming it's suitable.
	// In production, this should be a separate key.
	csrfMiddleware := csrf.Protect(
		[]byte(config.AppConfig.SessionKey),
		csrf.Secure(false), // Set to true in production with HTTPS
		csrf.Path("/"),
	)

	if err := http.ListenAndServe(addr, handlers.SecurityHeadersMiddleware(csrfMiddleware(mux))); err != nil {
		log.Fatal(err)
	}
}
