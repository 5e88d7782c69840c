package server

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/umputun/redhook/pkg/domain"
	"github.com/umputun/redhook/pkg/relay"
)

// multipartMemory is how much of a multipart body is kept in memory, the rest spills to temp files
const multipartMemory = 32 << 20

// form field carrying uploaded files, with and without the array suffix
var fileFields = []string{"files[]", "files"}

type uploadResponse struct {
	Message       string        `json:"message"`
	Status        domain.Status `json:"status"`
	UploadedCount int           `json:"uploaded_count"`
	TotalFiles    int           `json:"total_files"`
	FailedFiles   []string      `json:"failed_files"`
}

type relayResponse struct {
	Status  domain.Status `json:"status"`
	Message string        `json:"message"`
}

// indexHandler renders the page with upload and subreddit forms
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, map[string]string{"Version": s.cfg.Version}); err != nil {
		log.Printf("[ERROR] can't render index: %v", err)
		renderError(w, r, errors.New("can't render page"), http.StatusInternalServerError)
	}
}

// uploadHandler relays submitted files as webhook attachments
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Printf("[WARN] can't parse upload form: %v", err)
		renderError(w, r, errors.New("can't parse form"), http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	files, closeFiles, err := formUploads(r.MultipartForm)
	defer closeFiles()
	if err != nil {
		log.Printf("[WARN] can't open uploaded file: %v", err)
		renderError(w, r, errors.New("can't read uploaded files"), http.StatusBadRequest)
		return
	}

	out, err := s.relayer.RelayUploads(r.Context(), r.FormValue("webhook_url"), files)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			renderError(w, r, errors.New(verr.Message), http.StatusBadRequest)
			return
		}
		log.Printf("[ERROR] upload relay failed: %v", err)
		renderError(w, r, errors.New("can't relay uploads"), http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, uploadResponse{
		Message:       out.Message,
		Status:        out.Status,
		UploadedCount: out.Sent,
		TotalFiles:    out.Total,
		FailedFiles:   out.Failed,
	})
}

// formUploads collects uploaded files of the form. Parts submitted without a file name are parsed as plain
// values, they are kept as nameless uploads so they are reported as failed.
func formUploads(form *multipart.Form) (files []relay.Upload, closeAll func(), err error) {
	var closers []io.Closer
	closeAll = func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	if form == nil {
		return nil, closeAll, nil
	}

	for _, field := range fileFields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, closeAll, err
			}
			closers = append(closers, f)
			files = append(files, relay.Upload{Name: fh.Filename, Reader: f})
		}
		for _, v := range form.Value[field] {
			files = append(files, relay.Upload{Name: "", Reader: strings.NewReader(v)})
		}
	}
	return files, closeAll, nil
}

// fetchRedditHandler relays the next batch of subreddit posts
func (s *Server) fetchRedditHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderJSON(w, r, http.StatusBadRequest, relayResponse{Status: domain.StatusError, Message: "can't parse form"})
		return
	}

	count, err := strconv.Atoi(strings.TrimSpace(r.FormValue("num_items")))
	if err != nil {
		renderJSON(w, r, http.StatusBadRequest, relayResponse{Status: domain.StatusError, Message: "Number of posts must be a number"})
		return
	}

	out, err := s.relayer.RelayFeedPosts(r.Context(), r.FormValue("webhook_url"), strings.TrimSpace(r.FormValue("subreddit_name")), count)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		renderJSON(w, r, http.StatusBadRequest, relayResponse{Status: domain.StatusError, Message: out.Message})
	case err != nil:
		renderJSON(w, r, http.StatusInternalServerError, relayResponse{Status: domain.StatusError, Message: out.Message})
	default:
		renderJSON(w, r, http.StatusOK, relayResponse{Status: out.Status, Message: out.Message})
	}
}
