package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bks/clubcoordinator/internal/validator"
)

var (
	ErrDuplicatePlayer = errors.New("duplicate player")
	ErrPlayerNotFound  = errors.New("player not found")
)

type PlayerStatus string

const (
	PlayerStatusActive   PlayerStatus = "ACTIVE"
	PlayerStatusInactive PlayerStatus = "INACTIVE"
)

type DocumentKind string

const (
	DocumentKindMedical DocumentKind = "medical"
	DocumentKindAmateur DocumentKind = "amateur_declaration"
	DocumentKindOther   DocumentKind = "other"
)

type Document struct {
	ID         int64        `json:"id"`
	Kind       DocumentKind `json:"kind"`
	Name       string       `json:"name"`
	FilePath   string       `json:"file_path"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

type Player struct {
	ID                int64        `json:"id"`
	TeamID            int64        `json:"team_id"`
	FirstName         string       `json:"first_name"`
	LastName          string       `json:"last_name"`
	BirthDate         Date         `json:"birth_date"`
	MedicalValidUntil Date         `json:"medical_valid_until"`
	AmateurValidUntil *Date        `json:"amateur_valid_until,omitempty"`
	Status            PlayerStatus `json:"status"`
	StatusNote        string       `json:"status_note,omitempty"`
	Email1            string       `json:"email1,omitempty"`
	Email2            string       `json:"email2,omitempty"`
	Phone1            string       `json:"phone1,omitempty"`
	Phone2            string       `json:"phone2,omitempty"`
	Documents         []Document   `json:"documents,omitempty"`
	IsActive          bool         `json:"active"`
	CreatedAt         time.Time    `json:"-"`
	Version           int32        `json:"-"`
}

// MedicalCleared reports whether the player's medical clearance is still
// valid on the given date.
func (p *Player) MedicalCleared(on Date) bool {
	return p.MedicalValidUntil.After(on.Time)
}

// syncActive keeps the legacy boolean flag equal to status != INACTIVE.
func (p *Player) syncActive() {
	p.IsActive = p.Status != PlayerStatusInactive
}

type PlayerModel struct {
	db *sql.DB
}

// Insert creates the player and backfills a zeroed, not-involved match stat
// into every existing match log of the team, so reports over past matches
// keep one stat per player per log.
func (m *PlayerModel) Insert(player *Player) error {
	if player.Status == "" {
		player.Status = PlayerStatusActive
	}
	player.syncActive()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO players (team_id, first_name, last_name, birth_date, medical_valid_until,
			amateur_valid_until, status, status_note, email1, email2, phone1, phone2, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, version`

	args := []any{
		player.TeamID,
		player.FirstName,
		player.LastName,
		player.BirthDate,
		player.MedicalValidUntil,
		player.AmateurValidUntil,
		player.Status,
		player.StatusNote,
		player.Email1,
		player.Email2,
		player.Phone1,
		player.Phone2,
		player.IsActive,
	}

	err = tx.QueryRowContext(ctx, stmt, args...).Scan(&player.ID, &player.CreatedAt,
		&player.Version)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_player_identity"`:
			return ErrDuplicatePlayer
		case err.Error() == `pq: insert or update on table "players" violates foreign key `+
			`constraint "players_team_id_fkey"`:
			return ErrTeamNotFound
		default:
			return err
		}
	}

	err = backfillMatchStats(ctx, tx, player.TeamID, player.ID)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	return tx.Commit()
}

// backfillMatchStats inserts a zero MN stat for the player into every match
// log of the team that does not already carry one.
func backfillMatchStats(ctx context.Context, tx *sql.Tx, teamID, playerID int64) error {
	stmt := `
		INSERT INTO match_stats (match_log_id, player_id, minutes, goals, assists, status)
		SELECT ml.id, $2, 0, 0, 0, 'MN'
		FROM match_logs ml
		WHERE ml.team_id = $1
		ON CONFLICT (match_log_id, player_id) DO NOTHING`

	_, err := tx.ExecContext(ctx, stmt, teamID, playerID)
	return err
}

func (m *PlayerModel) Get(id int64) (*Player, error) {
	stmt := `
		SELECT id, team_id, first_name, last_name, birth_date, medical_valid_until,
			amateur_valid_until, status, status_note, email1, email2, phone1, phone2, is_active,
			created_at, version
		FROM players
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var player Player
	err := m.db.QueryRowContext(ctx, stmt, id).Scan(
		&player.ID,
		&player.TeamID,
		&player.FirstName,
		&player.LastName,
		&player.BirthDate,
		&player.MedicalValidUntil,
		&player.AmateurValidUntil,
		&player.Status,
		&player.StatusNote,
		&player.Email1,
		&player.Email2,
		&player.Phone1,
		&player.Phone2,
		&player.IsActive,
		&player.CreatedAt,
		&player.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	documents, err := m.getDocuments(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	player.Documents = documents

	return &player, nil
}

func (m *PlayerModel) GetAll(name string, filters Filters) ([]*Player, Metadata, error) {
	stmt := fmt.Sprintf(`
		SELECT count(*) OVER(), id, team_id, first_name, last_name, birth_date,
			medical_valid_until, amateur_valid_until, status, status_note, email1, email2,
			phone1, phone2, is_active, created_at, version
		FROM players
		WHERE (to_tsvector('simple', first_name || ' ' || last_name)
			@@ plainto_tsquery('simple', $1) OR $1 = '')
		AND is_active = true
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, filters.sortColumn(), filters.sortDirection())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, name, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	players := make([]*Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows, &totalRecords)
		if err != nil {
			return nil, Metadata{}, err
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)

	return players, metadata, nil
}

// GetAllByTeam returns the active roster of a team ordered by last name.
func (m *PlayerModel) GetAllByTeam(teamID int64) ([]*Player, error) {
	return m.getAllByTeam(context.Background(), teamID)
}

// GetAllByTeamCtx is GetAllByTeam with a caller-supplied context, used by the
// report fetcher to share one deadline across its fan-out.
func (m *PlayerModel) GetAllByTeamCtx(ctx context.Context, teamID int64) ([]*Player, error) {
	return m.getAllByTeam(ctx, teamID)
}

func (m *PlayerModel) getAllByTeam(parent context.Context, teamID int64) ([]*Player, error) {
	stmt := `
		SELECT id, team_id, first_name, last_name, birth_date, medical_valid_until,
			amateur_valid_until, status, status_note, email1, email2, phone1, phone2, is_active,
			created_at, version
		FROM players
		WHERE team_id = $1 AND is_active = true
		ORDER BY last_name ASC, first_name ASC, id ASC`

	ctx, cancel := context.WithTimeout(parent, 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows, nil)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(rows rowScanner, totalRecords *int) (*Player, error) {
	var player Player
	dest := make([]any, 0, 18)
	if totalRecords != nil {
		dest = append(dest, totalRecords)
	}
	dest = append(dest,
		&player.ID,
		&player.TeamID,
		&player.FirstName,
		&player.LastName,
		&player.BirthDate,
		&player.MedicalValidUntil,
		&player.AmateurValidUntil,
		&player.Status,
		&player.StatusNote,
		&player.Email1,
		&player.Email2,
		&player.Phone1,
		&player.Phone2,
		&player.IsActive,
		&player.CreatedAt,
		&player.Version,
	)

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	return &player, nil
}

func (m *PlayerModel) Update(player *Player) error {
	player.syncActive()

	stmt := `
		UPDATE players
		SET team_id = $1, first_name = $2, last_name = $3, birth_date = $4,
			medical_valid_until = $5, amateur_valid_until = $6, status = $7, status_note = $8,
			email1 = $9, email2 = $10, phone1 = $11, phone2 = $12, is_active = $13,
			version = version + 1
		WHERE id = $14 AND version = $15
		RETURNING version`

	args := []any{
		player.TeamID,
		player.FirstName,
		player.LastName,
		player.BirthDate,
		player.MedicalValidUntil,
		player.AmateurValidUntil,
		player.Status,
		player.StatusNote,
		player.Email1,
		player.Email2,
		player.Phone1,
		player.Phone2,
		player.IsActive,
		player.ID,
		player.Version,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&player.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_player_identity"`:
			return ErrDuplicatePlayer
		case err.Error() == `pq: insert or update on table "players" violates foreign key `+
			`constraint "players_team_id_fkey"`:
			return ErrTeamNotFound
		default:
			return err
		}
	}

	return nil
}

// Delete is a soft delete: the player is marked inactive and drops out of
// rosters and reports, but history referencing them stays intact.
func (m *PlayerModel) Delete(id int64) error {
	stmt := `
		UPDATE players
		SET is_active = false, status = 'INACTIVE',
			status_note = CASE WHEN status_note = '' THEN 'removed from roster' ELSE status_note END,
			version = version + 1
		WHERE id = $1 AND is_active = true
		RETURNING id`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, id).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *PlayerModel) getDocuments(ctx context.Context, playerID int64) ([]Document, error) {
	stmt := `
		SELECT id, kind, name, file_path, uploaded_at
		FROM player_documents
		WHERE player_id = $1
		ORDER BY uploaded_at DESC, id DESC`

	rows, err := m.db.QueryContext(ctx, stmt, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := make([]Document, 0)
	for rows.Next() {
		var doc Document
		err := rows.Scan(&doc.ID, &doc.Kind, &doc.Name, &doc.FilePath, &doc.UploadedAt)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return documents, rows.Err()
}

func (m *PlayerModel) AddDocument(playerID int64, doc *Document) error {
	stmt := `
		INSERT INTO player_documents (player_id, kind, name, file_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, playerID, doc.Kind, doc.Name, doc.FilePath).
		Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "player_documents" violates foreign `+
			`key constraint "player_documents_player_id_fkey"`:
			return ErrPlayerNotFound
		default:
			return err
		}
	}

	return nil
}

// DeleteDocument removes the record and returns the stored file path so the
// caller can remove the file itself.
func (m *PlayerModel) DeleteDocument(playerID, documentID int64) (string, error) {
	stmt := `
		DELETE FROM player_documents
		WHERE id = $1 AND player_id = $2
		RETURNING file_path`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var filePath string
	err := m.db.QueryRowContext(ctx, stmt, documentID, playerID).Scan(&filePath)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", ErrRecordNotFound
		default:
			return "", err
		}
	}

	return filePath, nil
}

// GetExpiringClearances returns active players whose medical clearance
// expires on or before the given date.
func (m *PlayerModel) GetExpiringClearances(by Date) ([]*Player, error) {
	stmt := `
		SELECT id, team_id, first_name, last_name, birth_date, medical_valid_until,
			amateur_valid_until, status, status_note, email1, email2, phone1, phone2, is_active,
			created_at, version
		FROM players
		WHERE is_active = true AND medical_valid_until <= $1
		ORDER BY medical_valid_until ASC, id ASC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, by)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows, nil)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

func ValidatePlayer(v *validator.Validator, player *Player) {
	v.Check(player.FirstName != "", "first_name", "must be provided")
	v.Check(len(player.FirstName) <= 50, "first_name", "must be 50 characters or less")

	v.Check(player.LastName != "", "last_name", "must be provided")
	v.Check(len(player.LastName) <= 50, "last_name", "must be 50 characters or less")

	v.Check(player.TeamID > 0, "team_id", "must be provided")
	v.Check(!player.BirthDate.IsZero(), "birth_date", "must be provided")
	v.Check(!player.MedicalValidUntil.IsZero(), "medical_valid_until", "must be provided")

	v.Check(validator.PermittedValue(player.Status, PlayerStatusActive, PlayerStatusInactive),
		"status", `must be either "ACTIVE" or "INACTIVE"`)
	if player.Status == PlayerStatusInactive {
		v.Check(player.StatusNote != "", "status_note",
			"must be provided when status is INACTIVE")
	}

	if player.Email1 != "" {
		v.Check(validator.Matches(player.Email1, validator.EmailRX), "email1",
			"must be a valid email address")
	}
	if player.Email2 != "" {
		v.Check(validator.Matches(player.Email2, validator.EmailRX), "email2",
			"must be a valid email address")
	}
}

func ValidateDocumentKind(v *validator.Validator, kind DocumentKind) {
	v.Check(validator.PermittedValue(kind, DocumentKindMedical, DocumentKindAmateur,
		DocumentKindOther), "kind",
		`must be one of "medical", "amateur_declaration" or "other"`)
}
