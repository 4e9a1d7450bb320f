package data

import (
	"database/sql"
	"errors"
)

var ErrRecordNotFound = errors.New("record not found")
var ErrEditConflict = errors.New("edit conflict")

type Models struct {
	Teams      TeamModel
	Players    PlayerModel
	Attendance AttendanceModel
	Plans      TrainingPlanModel
	MatchLogs  MatchLogModel
	Settings   SettingsModel
}

func NewModels(initDb *sql.DB) Models {
	return Models{
		Teams:      TeamModel{db: initDb},
		Players:    PlayerModel{db: initDb},
		Attendance: AttendanceModel{db: initDb},
		Plans:      TrainingPlanModel{db: initDb},
		MatchLogs:  MatchLogModel{db: initDb},
		Settings:   SettingsModel{db: initDb},
	}
}
