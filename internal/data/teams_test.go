package data

import (
	"testing"
	"time"

	"github.com/bks/clubcoordinator/internal/assert"
	"github.com/bks/clubcoordinator/internal/validator"
)

func TestValidateTeam(t *testing.T) {
	tests := []struct {
		name    string
		team    Team
		wantKey string
	}{
		{
			name: "valid",
			team: Team{Name: "U-12", Season: "2015", Coach: "Jan Kowalski"},
		},
		{
			name:    "missing name",
			team:    Team{Season: "2015", Coach: "Jan Kowalski"},
			wantKey: "name",
		},
		{
			name:    "missing season",
			team:    Team{Name: "U-12", Coach: "Jan Kowalski"},
			wantKey: "season",
		},
		{
			name:    "missing coach",
			team:    Team{Name: "U-12", Season: "2015"},
			wantKey: "coach",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateTeam(v, &tt.team)
			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			assert.Equal(t, v.Valid(), false)
			if _, ok := v.Errors[tt.wantKey]; !ok {
				t.Errorf("expected validation error for %q, got %v", tt.wantKey, v.Errors)
			}
		})
	}
}

func TestValidatePlayer(t *testing.T) {
	base := func() Player {
		return Player{
			TeamID:            1,
			FirstName:         "Jan",
			LastName:          "Kowalski",
			BirthDate:         NewDate(2014, time.May, 10),
			MedicalValidUntil: NewDate(2027, time.May, 10),
			Status:            PlayerStatusActive,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Player)
		wantKey string
	}{
		{name: "valid", mutate: func(p *Player) {}},
		{name: "missing first name", mutate: func(p *Player) { p.FirstName = "" },
			wantKey: "first_name"},
		{name: "missing team", mutate: func(p *Player) { p.TeamID = 0 }, wantKey: "team_id"},
		{name: "missing birth date", mutate: func(p *Player) { p.BirthDate = Date{} },
			wantKey: "birth_date"},
		{name: "bad status", mutate: func(p *Player) { p.Status = "RETIRED" },
			wantKey: "status"},
		{
			name:    "inactive without note",
			mutate:  func(p *Player) { p.Status = PlayerStatusInactive },
			wantKey: "status_note",
		},
		{
			name: "inactive with note",
			mutate: func(p *Player) {
				p.Status = PlayerStatusInactive
				p.StatusNote = "long-term injury"
			},
		},
		{name: "bad email", mutate: func(p *Player) { p.Email1 = "not-an-email" },
			wantKey: "email1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			player := base()
			tt.mutate(&player)
			ValidatePlayer(v, &player)
			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			assert.Equal(t, v.Valid(), false)
			if _, ok := v.Errors[tt.wantKey]; !ok {
				t.Errorf("expected validation error for %q, got %v", tt.wantKey, v.Errors)
			}
		})
	}
}

func TestMedicalCleared(t *testing.T) {
	player := Player{MedicalValidUntil: NewDate(2026, time.September, 1)}
	assert.Equal(t, player.MedicalCleared(NewDate(2026, time.August, 30)), true)
	assert.Equal(t, player.MedicalCleared(NewDate(2026, time.September, 1)), false)
	assert.Equal(t, player.MedicalCleared(NewDate(2026, time.October, 1)), false)
}

func TestValidateTrainingPlan(t *testing.T) {
	base := func() TrainingPlan {
		return TrainingPlan{
			Team:      Ref{ID: 1},
			EventDate: NewDate(2026, time.March, 3),
			EventKind: EventKindTraining,
			WeekIndex: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*TrainingPlan)
		wantKey string
	}{
		{name: "valid training", mutate: func(p *TrainingPlan) {}},
		{
			name: "valid match",
			mutate: func(p *TrainingPlan) {
				p.EventKind = EventKindMatch
				p.WeekIndex = 0
			},
		},
		{name: "bad kind", mutate: func(p *TrainingPlan) { p.EventKind = "friendly" },
			wantKey: "event_kind"},
		{name: "bad phase", mutate: func(p *TrainingPlan) { p.GamePhase = "Total Football" },
			wantKey: "game_phase"},
		{
			name:    "known phase",
			mutate:  func(p *TrainingPlan) { p.GamePhase = GamePhases[0] },
		},
		{
			name: "too many exercises",
			mutate: func(p *TrainingPlan) {
				p.Exercises = []string{"a", "b", "c", "d", "e", "f"}
			},
			wantKey: "exercises",
		},
		{
			name:    "training week index out of range",
			mutate:  func(p *TrainingPlan) { p.WeekIndex = 5 },
			wantKey: "week_index",
		},
		{
			name: "match week index must be zero",
			mutate: func(p *TrainingPlan) {
				p.EventKind = EventKindMatch
				p.WeekIndex = 2
			},
			wantKey: "week_index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			plan := base()
			tt.mutate(&plan)
			ValidateTrainingPlan(v, &plan)
			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			assert.Equal(t, v.Valid(), false)
			if _, ok := v.Errors[tt.wantKey]; !ok {
				t.Errorf("expected validation error for %q, got %v", tt.wantKey, v.Errors)
			}
		})
	}
}

func TestValidateMatchLog(t *testing.T) {
	base := func() MatchLog {
		return MatchLog{
			Team:      Ref{ID: 1},
			MatchDate: NewDate(2026, time.March, 7),
			Opponent:  "Wisła",
			Stats: []MatchStat{
				{Player: Ref{ID: 1}, Minutes: 90, Status: MatchStarted},
				{Player: Ref{ID: 2}, Minutes: 0, Status: MatchNotInvolved},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*MatchLog)
		wantKey string
	}{
		{name: "valid", mutate: func(l *MatchLog) {}},
		{name: "missing opponent", mutate: func(l *MatchLog) { l.Opponent = "" },
			wantKey: "opponent"},
		{name: "minutes above cap", mutate: func(l *MatchLog) { l.Stats[0].Minutes = 121 },
			wantKey: "stats"},
		{name: "negative goals", mutate: func(l *MatchLog) { l.Stats[0].Goals = -1 },
			wantKey: "stats"},
		{name: "bad status", mutate: func(l *MatchLog) { l.Stats[0].Status = "DNP" },
			wantKey: "stats"},
		{
			name:    "duplicate player",
			mutate:  func(l *MatchLog) { l.Stats[1].Player = Ref{ID: 1} },
			wantKey: "stats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			log := base()
			tt.mutate(&log)
			ValidateMatchLog(v, &log)
			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			assert.Equal(t, v.Valid(), false)
			if _, ok := v.Errors[tt.wantKey]; !ok {
				t.Errorf("expected validation error for %q, got %v", tt.wantKey, v.Errors)
			}
		})
	}
}

func TestValidateAttendanceRecord(t *testing.T) {
	v := validator.New()
	record := AttendanceRecord{
		Player:    Ref{ID: 1},
		Team:      Ref{ID: 1},
		EventDate: NewDate(2026, time.March, 3),
		Status:    AttendancePresent,
	}
	ValidateAttendanceRecord(v, &record)
	assert.Equal(t, v.Valid(), true)

	v = validator.New()
	record.Status = "maybe"
	ValidateAttendanceRecord(v, &record)
	assert.Equal(t, v.Valid(), false)
}

func TestTrainingAssumptionsForIndex(t *testing.T) {
	a := TrainingAssumptions{
		Training1: "one", Training2: "two", Training3: "three", Training4: "four",
	}
	assert.Equal(t, a.ForIndex(1), "one")
	assert.Equal(t, a.ForIndex(4), "four")
	assert.Equal(t, a.ForIndex(0), "")
	assert.Equal(t, a.ForIndex(5), "")
}

func TestMatchStatPlayed(t *testing.T) {
	assert.Equal(t, MatchStat{Status: MatchStarted}.Played(), true)
	assert.Equal(t, MatchStat{Status: MatchReserve}.Played(), true)
	assert.Equal(t, MatchStat{Status: MatchNotInvolved}.Played(), false)
}
