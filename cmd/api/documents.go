package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/uploads"
	"github.com/bks/clubcoordinator/internal/validator"
	"github.com/go-chi/chi/v5"
)

// UploadDocument accepts a multipart form with a "file" part and a "kind"
// field and attaches the stored document to the player.
func (app *application) UploadDocument(w http.ResponseWriter, r *http.Request) {
	playerID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = r.ParseMultipartForm(app.config.Uploads.MaxFileSize)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	kind := data.DocumentKind(r.FormValue("kind"))
	if kind == "" {
		kind = data.DocumentKindOther
	}
	if data.ValidateDocumentKind(v, kind); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("a file must be provided in the \"file\" field"))
		return
	}
	file.Close()

	path, err := app.uploads.Save(header)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrFileTooLarge),
			errors.Is(err, uploads.ErrUnsupportedType):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	doc := &data.Document{
		Kind:     kind,
		Name:     header.Filename,
		FilePath: path,
	}

	err = app.models.Players.AddDocument(playerID, doc)
	if err != nil {
		if removeErr := app.uploads.Remove(path); removeErr != nil {
			app.logError(r, removeErr)
		}
		switch {
		case errors.Is(err, data.ErrPlayerNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"document": doc}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	playerID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	documentID, err := app.readIDParam(r, "documentID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	path, err := app.models.Players.DeleteDocument(playerID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.backgroundTask(func() {
		if err := app.uploads.Remove(path); err != nil {
			app.logger.Error().Err(err).Str("path", path).Msg("cannot remove stored document")
		}
	})

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "document successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ServeDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")

	f, err := app.uploads.Open(name)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, name, time.Time{}, f)
}
