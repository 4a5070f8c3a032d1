// Package web is the HTTP surface: login, batch upload, audit listing and
// spreadsheet download.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/dmitrijs2005/auditoria/internal/common"
	"github.com/dmitrijs2005/auditoria/internal/logging"
	"github.com/dmitrijs2005/auditoria/internal/server/auth"
	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/dmitrijs2005/auditoria/internal/server/services"
	"github.com/gorilla/mux"
)

const (
	uploadField       = "files"
	exportFilename    = "auditoria.xlsx"
	maxMultipartBytes = 32 << 20
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

type BatchHandler interface {
	HandleBatch(ctx context.Context, user string, files []services.UploadFile) ([]services.BatchResult, error)
}

type Reporter interface {
	ListAudit(ctx context.Context, limit int) ([]models.AuditRecord, error)
	ExportAudit(ctx context.Context) (string, error)
}

// Handler owns the routes and their collaborators.
type Handler struct {
	users     Verifier
	batch     BatchHandler
	reports   Reporter
	sessions  auth.SessionCodec
	staticDir string
	logger    logging.Logger
}

func NewHandler(users Verifier, batch BatchHandler, reports Reporter, sessions auth.SessionCodec, staticDir string, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		users:     users,
		batch:     batch,
		reports:   reports,
		sessions:  sessions,
		staticDir: staticDir,
		logger:    logger,
	}
}

// Router wires every route onto a gorilla/mux router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.accessLog)

	r.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)

	r.HandleFunc("/", h.RequireSession(h.Home)).Methods(http.MethodGet)
	r.HandleFunc("/upload-lote", h.RequireSession(h.UploadBatch)).Methods(http.MethodPost)
	r.HandleFunc("/admin", h.RequireSession(h.ListAudit)).Methods(http.MethodGet)
	r.HandleFunc("/baixar-excel", h.RequireSession(h.DownloadExcel)).Methods(http.MethodGet)

	if h.staticDir != "" {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))
	}
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return r
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, "login.html")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Erro: "formulário inválido"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	ok, err := h.users.Verify(r.Context(), username, password)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		h.logger.Info(r.Context(), "login rejected", "username", username)
		h.writeJSON(w, http.StatusOK, errorBody{Erro: common.LoginErrorMessage})
		return
	}

	value, err := h.sessions.Encode(username)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, "index.html")
}

func (h *Handler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Erro: "upload inválido: " + err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := readUploads(r.MultipartForm.File[uploadField])
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	results, err := h.batch.HandleBatch(r.Context(), UserFromContext(r.Context()), files)
	switch {
	case errors.Is(err, common.ErrorNoFiles):
		h.writeJSON(w, http.StatusBadRequest, errorBody{Erro: err.Error()})
		return
	case errors.Is(err, common.ErrorUnauthorized):
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	case err != nil:
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, results)
}

func readUploads(headers []*multipart.FileHeader) ([]services.UploadFile, error) {
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, services.UploadFile{Filename: fh.Filename, Data: data})
	}
	return files, nil
}

func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	records, err := h.reports.ListAudit(r.Context(), 0)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *Handler) DownloadExcel(w http.ResponseWriter, r *http.Request) {
	path, err := h.reports.ExportAudit(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	http.ServeContent(w, r, exportFilename, st.ModTime(), f)
}
