package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/dchest/captcha"
	"github.com/gorilla/csrf"

	"coursereg/auth"
	"coursereg/config"
	"coursereg/i18n"
	"coursereg/store"
	"coursereg/validate"
)

// TemplateDir locates the HTML templates. Package tests point it at
// the repository root.
var TemplateDir = "templates"

var (
	creds   *store.CredentialStore
	subs    *store.SubmissionStore
	profile validate.Profile
)

func RegisterHandlers(mux *http.ServeMux, cs *store.CredentialStore, ss *store.SubmissionStore, p validate.Profile) {
	creds, subs, profile = cs, ss, p

	mux.HandleFunc("/", FormHandler)
	mux.HandleFunc("/submit", SubmitHandler)
	mux.HandleFunc("/admin", AdminHandler)
	mux.HandleFunc("/admin/login", LoginHandler)
	mux.HandleFunc("/admin/credentials", CredentialsHandler)
	mux.HandleFunc("/admin/export.csv", ExportHandler)
	mux.HandleFunc("/admin/logout", LogoutHandler)

	if config.AppConfig.EnableCaptcha {
		mux.Handle("/captcha/", captcha.Server(captcha.StdWidth, captcha.StdHeight))
	}
}

// choiceField is the view model for one dropdown on the form.
type choiceField struct {
	Field    string
	Label    string
	Catalog  []string
	Selected string
}

func choiceFields(selected map[string]string) []choiceField {
	cols := profile.Columns()
	labels := profile.Labels()
	fields := make([]choiceField, 0, len(cols))
	idx := 0
	for _, g := range profile.Groups {
		for i := 0; i < g.Count; i++ {
			fields = append(fields, choiceField{
				Field:    cols[idx],
				Label:    labels[idx],
				Catalog:  g.Catalog,
				Selected: selected[cols[idx]],
			})
			idx++
		}
	}
	return fields
}

func FormHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderForm(w, r, map[string]any{})
}

func renderForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if _, ok := data["Fields"]; !ok {
		data["Fields"] = choiceFields(nil)
	}
	if config.AppConfig.EnableCaptcha {
		data["CaptchaID"] = captcha.New()
	}
	renderTemplate(w, r, "form.html", data)
}

func SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	lang := i18n.DetectLanguage(r)

	name := r.FormValue("name")
	email := r.FormValue("email")
	remarks := r.FormValue("remarks")

	cols := profile.Columns()
	choices := make([]string, len(cols))
	selected := make(map[string]string, len(cols))
	for i, col := range cols {
		choices[i] = r.FormValue(col)
		selected[col] = choices[i]
	}

	echo := map[string]any{
		"Name":    name,
		"Email":   email,
		"Remarks": remarks,
		"Fields":  choiceFields(selected),
	}

	if config.AppConfig.EnableCaptcha &&
		!captcha.VerifyString(r.FormValue("captcha_id"), r.FormValue("captcha_solution")) {
		echo["Error"] = i18n.T(lang, "CaptchaFailed")
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderForm(w, r, echo)
		return
	}

	validated, err := validate.Submission(profile, name, email, choices, remarks)
	if err != nil {
		echo["Error"] = i18n.T(lang, validationKey(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderForm(w, r, echo)
		return
	}

	if _, err := subs.Append(validated); err != nil {
		log.Printf("Error storing submission: %v", err)
		echo["Error"] = i18n.T(lang, "StorageError")
		w.WriteHeader(http.StatusInternalServerError)
		renderForm(w, r, echo)
		return
	}

	renderForm(w, r, map[string]any{"Success": i18n.T(lang, "SubmissionReceived")})
}

// validationKey maps a validation error to its translation key.
func validationKey(err error) string {
	switch {
	case errors.Is(err, validate.ErrMissingIdentity):
		return "MissingIdentity"
	case errors.Is(err, validate.ErrIncompleteChoices):
		return "IncompleteChoices"
	case errors.Is(err, validate.ErrDuplicateChoice):
		return "DuplicateChoice"
	case errors.Is(err, validate.ErrInvalidCatalogEntry):
		return "InvalidCatalogEntry"
	case errors.Is(err, validate.ErrMissingField):
		return "MissingField"
	case errors.Is(err, validate.ErrPasswordMismatch):
		return "PasswordMismatch"
	case errors.Is(err, validate.ErrPasswordTooShort):
		return "PasswordTooShort"
	}
	return "StorageError"
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		lang := i18n.DetectLanguage(r)

		ip := getClientIP(r)
		if !loginLimiter.Allow(ip) {
			w.WriteHeader(http.StatusTooManyRequests)
			renderTemplate(w, r, "login.html", map[string]any{"Error": i18n.T(lang, "TooManyAttempts")})
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")

		ok, isDefault, err := creds.Verify(username, password)
		if err != nil {
			log.Printf("Error verifying credentials: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if !ok {
			// One message for unknown username and wrong password alike
			loginLimiter.RecordFailure(ip)
			w.WriteHeader(http.StatusUnauthorized)
			renderTemplate(w, r, "login.html", map[string]any{"Error": i18n.T(lang, "InvalidCredentials")})
			return
		}

		loginLimiter.Reset(ip)
		auth.SetSession(w, r, username, isDefault)

		if isDefault && config.AppConfig.RequireRotation {
			http.Redirect(w, r, "/admin/credentials", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", nil)
}

// gateReview enforces the review/export gate: anonymous sessions go
// to login, and under the strict profile a default admin is sent to
// the rotation form before it can see any submission.
func gateReview(w http.ResponseWriter, r *http.Request) bool {
	switch auth.StateOf(r) {
	case auth.Anonymous:
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return false
	case auth.AuthenticatedDefault:
		if config.AppConfig.RequireRotation {
			http.Redirect(w, r, "/admin/credentials", http.StatusSeeOther)
			return false
		}
	}
	return true
}

func AdminHandler(w http.ResponseWriter, r *http.Request) {
	if !gateReview(w, r) {
		return
	}

	submissions, err := subs.ListAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	count, err := subs.Count()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	header := append([]string{"Name", "Email"}, profile.Labels()...)
	header = append(header, "Remarks", "Submission Date")

	renderTemplate(w, r, "admin.html", map[string]any{
		"Submissions": submissions,
		"Count":       count,
		"Header":      header,
		"Username":    auth.Username(r),
	})
}

func CredentialsHandler(w http.ResponseWriter, r *http.Request) {
	state := auth.StateOf(r)
	if state == auth.Anonymous {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	lang := i18n.DetectLanguage(r)

	if r.Method == http.MethodPost {
		username := r.FormValue("username")
		password := r.FormValue("password")
		confirm := r.FormValue("confirm")

		if err := validate.CredentialChange(username, password, confirm); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			renderCredentials(w, r, state, map[string]any{"Error": i18n.T(lang, validationKey(err))})
			return
		}

		if err := creds.Rotate(username, password); err != nil {
			log.Printf("Error rotating credentials: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// Old session is void; force a login with the new credentials.
		auth.ClearSession(w, r)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	renderCredentials(w, r, state, map[string]any{})
}

func renderCredentials(w http.ResponseWriter, r *http.Request, state auth.State, data map[string]any) {
	lang := i18n.DetectLanguage(r)
	if state == auth.AuthenticatedDefault && config.AppConfig.RequireRotation {
		data["Notice"] = i18n.T(lang, "RotationRequired")
	}
	renderTemplate(w, r, "credentials.html", data)
}

func ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !gateReview(w, r) {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"course_registrations.csv\"")

	if err := subs.WriteCSV(w); err != nil {
		// Headers are already out; the best we can do is log.
		log.Printf("Error exporting submissions: %v", err)
	}
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	lang := i18n.DetectLanguage(r)

	funcMap := template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).ParseFiles(TemplateDir+"/layout.html", TemplateDir+"/"+name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Prepare CSRF field
	csrfField := csrf.TemplateField(r)

	// If data is a map, ensure AppName and Lang are there
	if m, ok := data.(map[string]any); ok {
		if _, exists := m["AppName"]; !exists {
			m["AppName"] = config.AppConfig.AppName
		}
		m["Lang"] = lang
		m["csrfField"] = csrfField
	} else if data == nil {
		data = map[string]any{
			"AppName":   config.AppConfig.AppName,
			"Lang":      lang,
			"csrfField": csrfField,
		}
	}

	tmpl.ExecuteTemplate(w, "layout", data)
}
