package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/validator"
)

func (app *application) InsertPlayer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamID            int64      `json:"team_id"`
		FirstName         string     `json:"first_name"`
		LastName          string     `json:"last_name"`
		BirthDate         data.Date  `json:"birth_date"`
		MedicalValidUntil data.Date  `json:"medical_valid_until"`
		AmateurValidUntil *data.Date `json:"amateur_valid_until"`
		Email1            string     `json:"email1"`
		Email2            string     `json:"email2"`
		Phone1            string     `json:"phone1"`
		Phone2            string     `json:"phone2"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	player := &data.Player{
		TeamID:            input.TeamID,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		BirthDate:         input.BirthDate,
		MedicalValidUntil: input.MedicalValidUntil,
		AmateurValidUntil: input.AmateurValidUntil,
		Email1:            input.Email1,
		Email2:            input.Email2,
		Phone1:            input.Phone1,
		Phone2:            input.Phone2,
		Status:            data.PlayerStatusActive,
	}

	v := validator.New()
	if data.ValidatePlayer(v, player); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Players.Insert(player)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicatePlayer):
			v.AddError("last_name", "a player with this name and birth date already exists")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrTeamNotFound):
			v.AddError("team_id", "team could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/players/%d", player.ID))
	err = app.writeJSON(w, http.StatusCreated, envelope{"player": player}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	player, err := app.models.Players.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"player": player}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetAllPlayers(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string
		data.Filters
	}

	v := validator.New()
	qs := r.URL.Query()

	input.Name = app.readString(qs, "name", "")
	input.Filters.Page = app.readInt(qs, "page", 1, v)
	input.Filters.PageSize = app.readInt(qs, "page_size", 20, v)
	input.Filters.Sort = app.readString(qs, "sort", "last_name")
	input.Filters.SortSafeList = []string{"id", "last_name", "birth_date",
		"-id", "-last_name", "-birth_date"}

	if data.ValidateFilters(v, input.Filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	players, metadata, err := app.models.Players.GetAll(input.Name, input.Filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"metadata": metadata, "players": players}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetTeamPlayers(w http.ResponseWriter, r *http.Request) {
	teamID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	players, err := app.models.Players.GetAllByTeam(teamID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"players": players}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	player, err := app.models.Players.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input struct {
		TeamID            *int64             `json:"team_id"`
		FirstName         *string            `json:"first_name"`
		LastName          *string            `json:"last_name"`
		BirthDate         *data.Date         `json:"birth_date"`
		MedicalValidUntil *data.Date         `json:"medical_valid_until"`
		AmateurValidUntil *data.Date         `json:"amateur_valid_until"`
		Status            *data.PlayerStatus `json:"status"`
		StatusNote        *string            `json:"status_note"`
		Email1            *string            `json:"email1"`
		Email2            *string            `json:"email2"`
		Phone1            *string            `json:"phone1"`
		Phone2            *string            `json:"phone2"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.TeamID != nil {
		player.TeamID = *input.TeamID
	}
	if input.FirstName != nil {
		player.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		player.LastName = *input.LastName
	}
	if input.BirthDate != nil {
		player.BirthDate = *input.BirthDate
	}
	if input.MedicalValidUntil != nil {
		player.MedicalValidUntil = *input.MedicalValidUntil
	}
	if input.AmateurValidUntil != nil {
		player.AmateurValidUntil = input.AmateurValidUntil
	}
	if input.Status != nil {
		player.Status = *input.Status
	}
	if input.StatusNote != nil {
		player.StatusNote = *input.StatusNote
	}
	if input.Email1 != nil {
		player.Email1 = *input.Email1
	}
	if input.Email2 != nil {
		player.Email2 = *input.Email2
	}
	if input.Phone1 != nil {
		player.Phone1 = *input.Phone1
	}
	if input.Phone2 != nil {
		player.Phone2 = *input.Phone2
	}

	v := validator.New()
	if data.ValidatePlayer(v, player); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Players.Update(player)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicatePlayer):
			v.AddError("last_name", "a player with this name and birth date already exists")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrTeamNotFound):
			v.AddError("team_id", "team could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"player": player}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Players.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK,
		envelope{"message": "player successfully removed from roster"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
