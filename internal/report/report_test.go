package report

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/bks/clubcoordinator/internal/assert"
	"github.com/bks/clubcoordinator/internal/data"
)

func marchWindow() Window {
	return MonthWindow(
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	)
}

func player(id int64, first, last string) *data.Player {
	return &data.Player{ID: id, FirstName: first, LastName: last}
}

func trainingPlan(day int, phase string, techniques ...string) *data.TrainingPlan {
	return &data.TrainingPlan{
		EventDate:     data.NewDate(2026, time.March, day),
		EventKind:     data.EventKindTraining,
		GamePhase:     phase,
		TechniqueTags: techniques,
		WeekIndex:     1,
	}
}

func matchPlan(day int) *data.TrainingPlan {
	return &data.TrainingPlan{
		EventDate: data.NewDate(2026, time.March, day),
		EventKind: data.EventKindMatch,
	}
}

func matchLog(day int, stats ...data.MatchStat) *data.MatchLog {
	return &data.MatchLog{
		MatchDate: data.NewDate(2026, time.March, day),
		Opponent:  "Opponent",
		Stats:     stats,
	}
}

func attendance(playerID int64, day int, status data.AttendanceStatus) *data.AttendanceRecord {
	return &data.AttendanceRecord{
		Player:    data.Ref{ID: playerID},
		EventDate: data.NewDate(2026, time.March, day),
		Status:    status,
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantStart string
		wantEnd   string
	}{
		{
			name:      "single month",
			start:     time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC),
			end:       time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			wantStart: "2026-03-01",
			wantEnd:   "2026-03-31",
		},
		{
			name:      "multi month",
			start:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			end:       time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantStart: "2026-01-01",
			wantEnd:   "2026-02-28",
		},
		{
			name:      "december rollover",
			start:     time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			end:       time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantStart: "2025-12-01",
			wantEnd:   "2025-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := MonthWindow(tt.start, tt.end)
			assert.Equal(t, w.Start.String(), tt.wantStart)
			assert.Equal(t, w.End.String(), tt.wantEnd)
		})
	}
}

func TestSinglePlayerScenario(t *testing.T) {
	src := Sources{
		Players: []*data.Player{player(1, "Jan", "Kowalski")},
		Plans:   []*data.TrainingPlan{matchPlan(7)},
		MatchLogs: []*data.MatchLog{
			matchLog(7, data.MatchStat{
				Player: data.Ref{ID: 1}, Minutes: 90, Goals: 1, Assists: 0,
				Status: data.MatchStarted,
			}),
		},
		Attendance: []*data.AttendanceRecord{attendance(1, 10, data.AttendanceAbsent)},
	}

	report := Build(marchWindow(), src)

	assert.Equal(t, len(report.Players), 1)
	p := report.Players[0]
	assert.Equal(t, p.MatchesPlayed, 1)
	assert.Equal(t, p.TotalGoals, 1)
	assert.Equal(t, p.Points, 1)
	assert.Equal(t, p.AvgMinutes, 90)
	assert.Equal(t, p.TrainingAttendance.MaxCount, 1)
	assert.Equal(t, p.TrainingAttendance.PresentCount, 0)
	assert.Equal(t, p.TrainingAttendance.Pct, 0)
	assert.Equal(t, p.MatchAttendance.MaxCount, 1)
	assert.Equal(t, p.MatchAttendance.PresentCount, 1)
	assert.Equal(t, p.MatchAttendance.Pct, 100)
}

func TestNoMatchesPlayedNoDivisionByZero(t *testing.T) {
	src := Sources{
		Players: []*data.Player{player(1, "Jan", "Kowalski")},
		MatchLogs: []*data.MatchLog{
			matchLog(7, data.MatchStat{
				Player: data.Ref{ID: 1}, Minutes: 0, Status: data.MatchNotInvolved,
			}),
		},
	}

	report := Build(marchWindow(), src)

	p := report.Players[0]
	assert.Equal(t, p.MatchesPlayed, 0)
	assert.Equal(t, p.AvgMinutes, 0)
	assert.Equal(t, p.NotInvolvedCount, 1)
}

func TestZeroSourcesAllZero(t *testing.T) {
	src := Sources{Players: []*data.Player{player(1, "Jan", "Kowalski")}}

	report := Build(marchWindow(), src)

	assert.Equal(t, report.Trainings.Total, 0)
	assert.Equal(t, report.Trainings.Matches, 0)
	assert.Equal(t, len(report.Trainings.GamePhases), 0)

	p := report.Players[0]
	assert.Equal(t, p.Points, 0)
	assert.Equal(t, p.TrainingAttendance.Pct, 0)
	assert.Equal(t, p.MatchAttendance.Pct, 0)
}

func TestEmptyRoster(t *testing.T) {
	src := Sources{
		Plans:     []*data.TrainingPlan{trainingPlan(3, "Opening + High Press")},
		MatchLogs: []*data.MatchLog{matchLog(7)},
	}

	report := Build(marchWindow(), src)

	assert.Equal(t, len(report.Players), 0)
	assert.Equal(t, len(report.TopTrainingAttendance), 0)
	assert.Equal(t, len(report.TopMinutes), 0)
	assert.Equal(t, report.Trainings.Total, 1)
}

func TestTrainingSummaryTallies(t *testing.T) {
	src := Sources{
		Plans: []*data.TrainingPlan{
			trainingPlan(3, "Opening + High Press", "passing", "dribbling"),
			trainingPlan(5, "Opening + High Press", "passing", ""),
			trainingPlan(10, "", "shooting"),
			matchPlan(7),
			// Outside the window, must not be counted.
			{
				EventDate: data.NewDate(2026, time.April, 2),
				EventKind: data.EventKindTraining,
				GamePhase: "Opening + High Press",
			},
		},
	}

	report := Build(marchWindow(), src)

	assert.Equal(t, report.Trainings.Total, 3)
	assert.Equal(t, report.Trainings.Matches, 1)
	assert.Equal(t, report.Trainings.GamePhases["Opening + High Press"], 2)
	assert.Equal(t, report.Trainings.TechniqueTags["passing"], 2)
	assert.Equal(t, report.Trainings.TechniqueTags["dribbling"], 1)
	assert.Equal(t, report.Trainings.TechniqueTags["shooting"], 1)
	// Empty tags are skipped.
	assert.Equal(t, len(report.Trainings.TechniqueTags), 3)
}

func TestPointsIdentityAndRanking(t *testing.T) {
	src := Sources{
		Players: []*data.Player{
			player(1, "Adam", "Nowak"),
			player(2, "Bartek", "Wojcik"),
			player(3, "Celina", "Kowalska"),
		},
		MatchLogs: []*data.MatchLog{
			matchLog(7,
				data.MatchStat{Player: data.Ref{ID: 1}, Goals: 1, Assists: 1,
					Status: data.MatchStarted},
				data.MatchStat{Player: data.Ref{ID: 2}, Goals: 3, Assists: 0,
					Status: data.MatchStarted},
				data.MatchStat{Player: data.Ref{ID: 3}, Goals: 0, Assists: 2,
					Status: data.MatchReserve},
			),
		},
	}

	report := Build(marchWindow(), src)

	for _, p := range report.Players {
		assert.Equal(t, p.Points, p.TotalGoals+p.TotalAssists)
	}

	// 3 points beats 2; equal points order by ascending id.
	assert.Equal(t, report.Players[0].ID, int64(2))
	assert.Equal(t, report.Players[1].ID, int64(1))
	assert.Equal(t, report.Players[2].ID, int64(3))
}

func TestRankingTieBreakIsDeterministic(t *testing.T) {
	// Same points for everyone, roster supplied in reverse id order.
	src := Sources{
		Players: []*data.Player{
			player(3, "C", "C"),
			player(2, "B", "B"),
			player(1, "A", "A"),
		},
		MatchLogs: []*data.MatchLog{
			matchLog(7,
				data.MatchStat{Player: data.Ref{ID: 1}, Goals: 1, Status: data.MatchStarted},
				data.MatchStat{Player: data.Ref{ID: 2}, Goals: 1, Status: data.MatchStarted},
				data.MatchStat{Player: data.Ref{ID: 3}, Goals: 1, Status: data.MatchStarted},
			),
		},
	}

	report := Build(marchWindow(), src)

	assert.Equal(t, report.Players[0].ID, int64(1))
	assert.Equal(t, report.Players[1].ID, int64(2))
	assert.Equal(t, report.Players[2].ID, int64(3))
}

func TestTopListsLimitedToThree(t *testing.T) {
	players := make([]*data.Player, 0, 5)
	records := make([]*data.AttendanceRecord, 0)
	stats := make([]data.MatchStat, 0, 5)
	for id := int64(1); id <= 5; id++ {
		players = append(players, player(id, "P", "Layer"))
		stats = append(stats, data.MatchStat{
			Player: data.Ref{ID: id}, Minutes: int(id * 10), Status: data.MatchStarted,
		})
		// Player N attends N trainings.
		for day := 1; day <= int(id); day++ {
			records = append(records, attendance(id, day, data.AttendancePresent))
		}
	}

	src := Sources{
		Players:    players,
		MatchLogs:  []*data.MatchLog{matchLog(20, stats...)},
		Attendance: records,
	}

	report := Build(marchWindow(), src)

	assert.Equal(t, len(report.TopTrainingAttendance), 3)
	assert.Equal(t, report.TopTrainingAttendance[0].ID, int64(5))
	assert.Equal(t, report.TopTrainingAttendance[0].PresentCount, 5)
	assert.Equal(t, report.TopTrainingAttendance[2].PresentCount, 3)

	assert.Equal(t, len(report.TopMinutes), 3)
	assert.Equal(t, report.TopMinutes[0].Minutes, 50)
	assert.Equal(t, report.TopMinutes[1].Minutes, 40)
	assert.Equal(t, report.TopMinutes[2].Minutes, 30)
	assert.Equal(t, report.TopMinutes[0].StartedCount, 1)
}

func TestUnknownPlayerRefIgnored(t *testing.T) {
	src := Sources{
		Players: []*data.Player{player(1, "Jan", "Kowalski")},
		MatchLogs: []*data.MatchLog{
			matchLog(7,
				data.MatchStat{Player: data.Ref{ID: 1}, Goals: 1, Status: data.MatchStarted},
				data.MatchStat{Player: data.Ref{ID: 99}, Goals: 5, Status: data.MatchStarted},
			),
		},
	}

	report := Build(marchWindow(), src)

	assert.Equal(t, len(report.Players), 1)
	assert.Equal(t, report.Players[0].TotalGoals, 1)
}

func TestMatchDayAttendanceRecordIgnored(t *testing.T) {
	// A raw attendance record on a match date counts toward neither training
	// nor match attendance; match presence comes from match stats only.
	src := Sources{
		Players: []*data.Player{player(1, "Jan", "Kowalski")},
		Plans:   []*data.TrainingPlan{matchPlan(7)},
		MatchLogs: []*data.MatchLog{
			matchLog(7, data.MatchStat{Player: data.Ref{ID: 1},
				Status: data.MatchNotInvolved}),
		},
		Attendance: []*data.AttendanceRecord{
			attendance(1, 7, data.AttendancePresent),
			attendance(1, 10, data.AttendancePresent),
		},
	}

	report := Build(marchWindow(), src)

	p := report.Players[0]
	assert.Equal(t, p.TrainingAttendance.MaxCount, 1)
	assert.Equal(t, p.TrainingAttendance.PresentCount, 1)
	assert.Equal(t, p.TrainingAttendance.Pct, 100)
	assert.Equal(t, p.MatchAttendance.MaxCount, 1)
	assert.Equal(t, p.MatchAttendance.PresentCount, 0)
	assert.Equal(t, p.MatchAttendance.Pct, 0)
}

func TestRefShapeTolerance(t *testing.T) {
	raw := []byte(`{
		"match_date": "2026-03-07",
		"opponent": "Wisła",
		"stats": [{"player_id": "1", "minutes": 45, "goals": 1, "status": "MP"}]
	}`)
	expanded := []byte(`{
		"match_date": "2026-03-07",
		"opponent": "Wisła",
		"stats": [{"player_id": {"id": 1}, "minutes": 45, "goals": 1, "status": "MP"}]
	}`)

	var rawLog, expandedLog data.MatchLog
	assert.NilError(t, json.Unmarshal(raw, &rawLog))
	assert.NilError(t, json.Unmarshal(expanded, &expandedLog))

	build := func(log *data.MatchLog) *TeamReport {
		return Build(marchWindow(), Sources{
			Players:   []*data.Player{player(1, "Jan", "Kowalski")},
			MatchLogs: []*data.MatchLog{log},
		})
	}

	first := build(&rawLog)
	second := build(&expandedLog)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("raw and expanded references aggregated differently:\n%+v\n%+v", first, second)
	}
	assert.Equal(t, first.Players[0].TotalGoals, 1)
	assert.Equal(t, first.Players[0].TotalMinutes, 45)
}

func TestBuildIsIdempotent(t *testing.T) {
	src := Sources{
		Players: []*data.Player{player(1, "Jan", "Kowalski"), player(2, "Adam", "Nowak")},
		Plans: []*data.TrainingPlan{
			trainingPlan(3, "Build-Up + Mid Block", "passing"),
			matchPlan(7),
		},
		MatchLogs: []*data.MatchLog{
			matchLog(7,
				data.MatchStat{Player: data.Ref{ID: 1}, Minutes: 60, Goals: 2,
					Status: data.MatchStarted},
				data.MatchStat{Player: data.Ref{ID: 2}, Minutes: 30,
					Status: data.MatchReserve},
			),
		},
		Attendance: []*data.AttendanceRecord{
			attendance(1, 3, data.AttendancePresent),
			attendance(2, 3, data.AttendanceLate),
		},
	}

	first := Build(marchWindow(), src)
	second := Build(marchWindow(), src)

	firstJSON, err := json.Marshal(first)
	assert.NilError(t, err)
	secondJSON, err := json.Marshal(second)
	assert.NilError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestAvgMinutesRounds(t *testing.T) {
	src := Sources{
		Players: []*data.Player{player(1, "Jan", "Kowalski")},
		MatchLogs: []*data.MatchLog{
			matchLog(7, data.MatchStat{Player: data.Ref{ID: 1}, Minutes: 45,
				Status: data.MatchStarted}),
			matchLog(14, data.MatchStat{Player: data.Ref{ID: 1}, Minutes: 90,
				Status: data.MatchStarted}),
			matchLog(21, data.MatchStat{Player: data.Ref{ID: 1}, Minutes: 90,
				Status: data.MatchStarted}),
		},
	}

	report := Build(marchWindow(), src)

	// 225 minutes over 3 matches = 75.
	assert.Equal(t, report.Players[0].AvgMinutes, 75)
	assert.Equal(t, report.Players[0].TotalMinutes, 225)
}
