package migrations

import (
	"strings"
	"testing"
)

// Player identity must be unique per team and only among active players;
// a global or non-partial constraint would let one team's roster (or a
// removed player) block another team from adding the same identity.
func TestPlayerIdentityIndexIsPerTeamAndPartial(t *testing.T) {
	sql, err := FS.ReadFile("000002_create_players_table.up.sql")
	if err != nil {
		t.Fatal(err)
	}

	def := ""
	for _, stmt := range strings.Split(string(sql), ";") {
		if strings.Contains(stmt, "unq_player_identity") {
			def = stmt
			break
		}
	}
	if def == "" {
		t.Fatal("players migration does not define unq_player_identity")
	}

	if !strings.Contains(def, "UNIQUE INDEX") {
		t.Errorf("unq_player_identity must be a unique index, got:\n%s", def)
	}
	if !strings.Contains(def, "team_id") {
		t.Errorf("unq_player_identity must scope identity to the team, got:\n%s", def)
	}
	if !strings.Contains(def, "WHERE is_active") {
		t.Errorf("unq_player_identity must only cover active players, got:\n%s", def)
	}
}
