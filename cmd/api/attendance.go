package main

import (
	"errors"
	"net/http"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/validator"
)

func (app *application) GetTeamAttendance(w http.ResponseWriter, r *http.Request) {
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

	records, err := app.models.Attendance.GetAllByTeam(teamID, dateRange)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"attendance": records}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetPlayerAttendance(w http.ResponseWriter, r *http.Request) {
	playerID, err := app.readIDParam(r, "id")
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

	records, err := app.models.Attendance.GetAllByPlayer(playerID, dateRange)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"attendance": records}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpsertAttendance writes one attendance record. Writing the same
// (player, date) pair again replaces the previous status.
func (app *application) UpsertAttendance(w http.ResponseWriter, r *http.Request) {
	teamID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		PlayerID  data.Ref              `json:"player_id"`
		EventDate data.Date             `json:"event_date"`
		Status    data.AttendanceStatus `json:"status"`
		Note      string                `json:"note"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	record := &data.AttendanceRecord{
		Player:    input.PlayerID,
		Team:      data.Ref{ID: teamID},
		EventDate: input.EventDate,
		Status:    input.Status,
		Note:      input.Note,
	}

	v := validator.New()
	if data.ValidateAttendanceRecord(v, record); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Attendance.Upsert(record)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPlayerNotFound):
			v.AddError("player_id", "player could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrTeamNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"record": record}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// BulkUpsertAttendance writes a whole-roster attendance sheet for one date
// in a single request.
func (app *application) BulkUpsertAttendance(w http.ResponseWriter, r *http.Request) {
	teamID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		EventDate data.Date `json:"event_date"`
		Records   []struct {
			PlayerID data.Ref              `json:"player_id"`
			Status   data.AttendanceStatus `json:"status"`
			Note     string                `json:"note"`
		} `json:"records"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(input.Records) > 0, "records", "must not be empty")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	records := make([]*data.AttendanceRecord, 0, len(input.Records))
	for _, in := range input.Records {
		record := &data.AttendanceRecord{
			Player:    in.PlayerID,
			Team:      data.Ref{ID: teamID},
			EventDate: input.EventDate,
			Status:    in.Status,
			Note:      in.Note,
		}
		data.ValidateAttendanceRecord(v, record)
		records = append(records, record)
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Attendance.BulkUpsert(records)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPlayerNotFound):
			v.AddError("records", "one or more players could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrTeamNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"attendance": records}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Attendance.Delete(id)
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
		envelope{"message": "attendance record successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
