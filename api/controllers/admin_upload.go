package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/woodkari/woodkari-backend/api/responses"
	"github.com/woodkari/woodkari-backend/internal/media"
	"github.com/woodkari/woodkari-backend/pkg/enums"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
)

// AdminUpload accepts a multipart image and returns the hosted URL. The
// optional "folder" field selects the target namespace subfolder.
func AdminUpload(svc *media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		// One extra byte past the limit lets the service reject oversize
		// uploads with its own message instead of a truncated read.
		if err := r.ParseMultipartForm(media.MaxUploadBytes + 1); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no file provided"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file field"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, media.MaxUploadBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload"))
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		result, err := svc.Upload(r.Context(), media.UploadInput{
			Data:        data,
			ContentType: contentType,
			Folder:      enums.ParseMediaFolder(r.FormValue("folder")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
