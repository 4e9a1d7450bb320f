package main

import (
	"errors"
	"net/http"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/report"
	"github.com/bks/clubcoordinator/internal/validator"
)

// GetTeamReport aggregates trainings, match stats and attendance for the
// team over an inclusive month range.
func (app *application) GetTeamReport(w http.ResponseWriter, r *http.Request) {
	teamID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	v := validator.New()
	qs := r.URL.Query()

	startMonth := app.readMonth(qs, "start_month", v)
	endMonth := app.readMonth(qs, "end_month", v)
	if v.Valid() {
		v.Check(!endMonth.Before(startMonth.Time), "end_month",
			"must not be before start_month")
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// A report for a missing team is a 404, not an empty report.
	_, err = app.models.Teams.Get(teamID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	window := report.MonthWindow(startMonth.Time, endMonth.Time)

	teamReport, err := app.reports.TeamReport(r.Context(), teamID, window)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"report": teamReport}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
