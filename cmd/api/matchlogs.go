package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/validator"
)

// InsertMatchLog creates the log with one stat per active roster player and
// the matching match plan when one does not exist yet.
func (app *application) InsertMatchLog(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamID    data.Ref         `json:"team_id"`
		MatchDate data.Date        `json:"match_date"`
		Opponent  string           `json:"opponent"`
		Score     string           `json:"score"`
		Stats     []data.MatchStat `json:"stats"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	log := &data.MatchLog{
		Team:      input.TeamID,
		MatchDate: input.MatchDate,
		Opponent:  input.Opponent,
		Score:     input.Score,
		Stats:     input.Stats,
	}

	v := validator.New()
	if data.ValidateMatchLog(v, log); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.MatchLogs.Insert(log)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateMatchDate):
			v.AddError("match_date", "a match log already exists for this team and date")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrTeamNotFound):
			v.AddError("team_id", "team could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrPlayerNotFound):
			v.AddError("stats", "one or more players could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/matchlogs/%d", log.ID))
	err = app.writeJSON(w, http.StatusCreated, envelope{"match_log": log}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetMatchLog(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	log, err := app.models.MatchLogs.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"match_log": log}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetTeamMatchLogs(w http.ResponseWriter, r *http.Request) {
	teamID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	v := validator.New()
	dateRange := app.readDateRange(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	logs, err := app.models.MatchLogs.GetAllByTeam(teamID, dateRange)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"match_logs": logs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateMatchLog(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	log, err := app.models.MatchLogs.Get(id)
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
		Opponent *string          `json:"opponent"`
		Score    *string          `json:"score"`
		Stats    []data.MatchStat `json:"stats"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.Opponent != nil {
		log.Opponent = *input.Opponent
	}
	if input.Score != nil {
		log.Score = *input.Score
	}
	if input.Stats != nil {
		log.Stats = input.Stats
	}

	v := validator.New()
	if data.ValidateMatchLog(v, log); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.MatchLogs.Update(log)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPlayerNotFound):
			v.AddError("stats", "one or more players could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"match_log": log}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeleteMatchLog removes the log together with the match plan for the same
// team and date.
func (app *application) DeleteMatchLog(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.MatchLogs.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "match log successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
