package report

import (
	"math"
	"sort"
	"time"

	"github.com/bks/clubcoordinator/internal/data"
)

// Window is the inclusive date range a team report covers: the first day of
// the start month through the last day of the end month.
type Window struct {
	Start data.Date `json:"start"`
	End   data.Date `json:"end"`
}

// MonthWindow builds a Window from two months. Equal months produce a
// one-month window.
func MonthWindow(start, end time.Time) Window {
	first := data.NewDate(start.Year(), start.Month(), 1)
	last := data.NewDate(end.Year(), end.Month()+1, 1)
	last = data.DateOf(last.AddDate(0, 0, -1))
	return Window{Start: first, End: last}
}

func (w Window) contains(d data.Date) bool {
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}

// Sources holds the four collections a report is computed from. Build reads
// them and nothing else.
type Sources struct {
	Players    []*data.Player
	MatchLogs  []*data.MatchLog
	Plans      []*data.TrainingPlan
	Attendance []*data.AttendanceRecord
}

type TrainingSummary struct {
	Total         int            `json:"total"`
	Matches       int            `json:"matches"`
	GamePhases    map[string]int `json:"game_phases"`
	TechniqueTags map[string]int `json:"technique_tags"`
	MentalGoals   map[string]int `json:"mental_goals"`
	MotorGoals    map[string]int `json:"motor_goals"`
}

type AttendanceSummary struct {
	PresentCount int `json:"present_count"`
	MaxCount     int `json:"max_count"`
	Pct          int `json:"pct"`
}

type PlayerStats struct {
	ID                 int64             `json:"id"`
	FirstName          string            `json:"first_name"`
	LastName           string            `json:"last_name"`
	MatchesPlayed      int               `json:"matches_played"`
	TotalGoals         int               `json:"total_goals"`
	TotalAssists       int               `json:"total_assists"`
	TotalMinutes       int               `json:"total_minutes"`
	AvgMinutes         int               `json:"avg_minutes"`
	StartedCount       int               `json:"started_count"`
	ReserveCount       int               `json:"reserve_count"`
	NotInvolvedCount   int               `json:"not_involved_count"`
	TrainingAttendance AttendanceSummary `json:"training_attendance"`
	MatchAttendance    AttendanceSummary `json:"match_attendance"`
	Points             int               `json:"points"`
}

type TopTrainingEntry struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PresentCount int    `json:"present_count"`
}

type TopMinutesEntry struct {
	ID               int64  `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Minutes          int    `json:"minutes"`
	StartedCount     int    `json:"started_count"`
	ReserveCount     int    `json:"reserve_count"`
	NotInvolvedCount int    `json:"not_involved_count"`
}

type TeamReport struct {
	Window                Window             `json:"window"`
	Trainings             TrainingSummary    `json:"trainings"`
	Players               []PlayerStats      `json:"players"`
	TopTrainingAttendance []TopTrainingEntry `json:"top_training_attendance"`
	TopMinutes            []TopMinutesEntry  `json:"top_minutes"`
}

// Build computes the team report for one window. It is a pure function of
// its inputs: no store access, no clock, identical inputs produce identical
// output. Stats referencing players that are not on the roster are ignored,
// and every division guards a zero denominator.
func Build(w Window, src Sources) *TeamReport {
	report := &TeamReport{
		Window:                w,
		Players:               make([]PlayerStats, 0, len(src.Players)),
		TopTrainingAttendance: make([]TopTrainingEntry, 0, 3),
		TopMinutes:            make([]TopMinutesEntry, 0, 3),
	}

	trainings, matchPlans := splitPlans(w, src.Plans)
	report.Trainings = summarizeTrainings(trainings, matchPlans)

	matchDates := make(map[string]bool, len(matchPlans))
	for _, plan := range matchPlans {
		matchDates[plan.EventDate.String()] = true
	}

	for _, player := range src.Players {
		report.Players = append(report.Players, buildPlayerStats(player, src, matchDates))
	}

	// Points ranking; equal points fall back to ascending player id so the
	// order does not depend on how the roster happened to be fetched.
	sort.SliceStable(report.Players, func(i, j int) bool {
		a, b := report.Players[i], report.Players[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.ID < b.ID
	})

	report.TopTrainingAttendance = topTrainingAttendance(report.Players)
	report.TopMinutes = topMinutes(report.Players)

	return report
}

func splitPlans(w Window, plans []*data.TrainingPlan) (trainings, matches []*data.TrainingPlan) {
	for _, plan := range plans {
		if !w.contains(plan.EventDate) {
			continue
		}
		switch plan.EventKind {
		case data.EventKindTraining:
			trainings = append(trainings, plan)
		case data.EventKindMatch:
			matches = append(matches, plan)
		}
	}
	return trainings, matches
}

func summarizeTrainings(trainings, matches []*data.TrainingPlan) TrainingSummary {
	summary := TrainingSummary{
		Total:         len(trainings),
		Matches:       len(matches),
		GamePhases:    make(map[string]int),
		TechniqueTags: make(map[string]int),
		MentalGoals:   make(map[string]int),
		MotorGoals:    make(map[string]int),
	}

	for _, t := range trainings {
		if t.GamePhase != "" {
			summary.GamePhases[t.GamePhase]++
		}
		tally(summary.TechniqueTags, t.TechniqueTags)
		tally(summary.MentalGoals, t.MentalGoals)
		tally(summary.MotorGoals, t.MotorGoals)
	}

	return summary
}

func tally(freq map[string]int, tags []string) {
	for _, tag := range tags {
		if tag != "" {
			freq[tag]++
		}
	}
}

func buildPlayerStats(player *data.Player, src Sources, matchDates map[string]bool) PlayerStats {
	stats := PlayerStats{
		ID:        player.ID,
		FirstName: player.FirstName,
		LastName:  player.LastName,
	}

	// One pass over every stat the player appears in, across all logs.
	playedDates := make(map[string]bool)
	for _, log := range src.MatchLogs {
		for _, stat := range log.Stats {
			if stat.Player.ID != player.ID {
				continue
			}
			stats.TotalGoals += stat.Goals
			stats.TotalAssists += stat.Assists
			stats.TotalMinutes += stat.Minutes
			switch stat.Status {
			case data.MatchStarted:
				stats.StartedCount++
			case data.MatchReserve:
				stats.ReserveCount++
			case data.MatchNotInvolved:
				stats.NotInvolvedCount++
			}
			if stat.Played() {
				stats.MatchesPlayed++
				playedDates[log.MatchDate.String()] = true
			}
		}
	}

	if stats.MatchesPlayed > 0 {
		stats.AvgMinutes = int(math.Round(float64(stats.TotalMinutes) /
			float64(stats.MatchesPlayed)))
	}

	// Training attendance: the player's raw attendance records, minus match
	// days. Match days are judged from match stats alone, so an attendance
	// record on a match date never counts either way.
	for _, record := range src.Attendance {
		if record.Player.ID != player.ID {
			continue
		}
		if matchDates[record.EventDate.String()] {
			continue
		}
		stats.TrainingAttendance.MaxCount++
		if record.Status == data.AttendancePresent {
			stats.TrainingAttendance.PresentCount++
		}
	}
	stats.TrainingAttendance.Pct = pct(stats.TrainingAttendance.PresentCount,
		stats.TrainingAttendance.MaxCount)

	// Match attendance: one slot per match date in the window, present when
	// any started/reserve stat exists for that date.
	stats.MatchAttendance.MaxCount = len(matchDates)
	for date := range matchDates {
		if playedDates[date] {
			stats.MatchAttendance.PresentCount++
		}
	}
	stats.MatchAttendance.Pct = pct(stats.MatchAttendance.PresentCount,
		stats.MatchAttendance.MaxCount)

	stats.Points = stats.TotalGoals + stats.TotalAssists

	return stats
}

func pct(present, max int) int {
	if max == 0 {
		return 0
	}
	return int(math.Round(100 * float64(present) / float64(max)))
}

func topTrainingAttendance(players []PlayerStats) []TopTrainingEntry {
	ranked := make([]PlayerStats, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TrainingAttendance.PresentCount != b.TrainingAttendance.PresentCount {
			return a.TrainingAttendance.PresentCount > b.TrainingAttendance.PresentCount
		}
		return a.ID < b.ID
	})

	top := make([]TopTrainingEntry, 0, 3)
	for _, p := range ranked {
		if len(top) == 3 {
			break
		}
		top = append(top, TopTrainingEntry{
			ID:           p.ID,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			PresentCount: p.TrainingAttendance.PresentCount,
		})
	}
	return top
}

func topMinutes(players []PlayerStats) []TopMinutesEntry {
	ranked := make([]PlayerStats, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalMinutes != b.TotalMinutes {
			return a.TotalMinutes > b.TotalMinutes
		}
		return a.ID < b.ID
	})

	top := make([]TopMinutesEntry, 0, 3)
	for _, p := range ranked {
		if len(top) == 3 {
			break
		}
		top = append(top, TopMinutesEntry{
			ID:               p.ID,
			FirstName:        p.FirstName,
			LastName:         p.LastName,
			Minutes:          p.TotalMinutes,
			StartedCount:     p.StartedCount,
			ReserveCount:     p.ReserveCount,
			NotInvolvedCount: p.NotInvolvedCount,
		})
	}
	return top
}
