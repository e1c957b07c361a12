// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	"github.com/benbeisheim/relaychess-backend/internal/storage"
	"github.com/benbeisheim/relaychess-backend/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists users, session tokens and games in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Clear deletes every row from every table.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	for _, table := range []string{"games", "auth_tokens", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("username is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		user.Username, user.Password, user.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT username, password, email FROM users WHERE username = ?`, username,
	).Scan(&user.Username, &user.Password, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, storage.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Store) CreateAuth(ctx context.Context, auth model.Auth) error {
	if strings.TrimSpace(auth.Token) == "" {
		return fmt.Errorf("auth token is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, username, created_at) VALUES (?, ?, ?)`,
		auth.Token, auth.Username, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create auth: %w", err)
	}
	return nil
}

func (s *Store) GetAuth(ctx context.Context, token string) (model.Auth, error) {
	var auth model.Auth
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT token, username FROM auth_tokens WHERE token = ?`, token,
	).Scan(&auth.Token, &auth.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auth{}, storage.ErrNotFound
	}
	if err != nil {
		return model.Auth{}, fmt.Errorf("get auth: %w", err)
	}
	return auth, nil
}

func (s *Store) DeleteAuth(ctx context.Context, token string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete auth: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete auth: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateGame(ctx context.Context, game model.GameState) (int, error) {
	payload, err := encodeGame(game)
	if err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (name, white_username, black_username, game_json, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		game.Name, nullString(game.WhiteUsername), nullString(game.BlackUsername), payload,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("create game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create game: %w", err)
	}
	return int(id), nil
}

func (s *Store) GetGame(ctx context.Context, id int) (model.GameState, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, white_username, black_username, game_json FROM games WHERE id = ?`, id,
	)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.GameState{}, storage.ErrNotFound
	}
	if err != nil {
		return model.GameState{}, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

func (s *Store) ListGames(ctx context.Context) ([]model.GameState, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, white_username, black_username, game_json FROM games ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []model.GameState{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *Store) UpdateGame(ctx context.Context, game model.GameState) error {
	payload, err := encodeGame(game)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE games SET name = ?, white_username = ?, black_username = ?, game_json = ?, updated_at = ?
		 WHERE id = ?`,
		game.Name, nullString(game.WhiteUsername), nullString(game.BlackUsername), payload,
		time.Now().UTC().UnixMilli(), game.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (model.GameState, error) {
	var (
		game         model.GameState
		white, black sql.NullString
		payload      string
	)
	if err := row.Scan(&game.ID, &game.Name, &white, &black, &payload); err != nil {
		return model.GameState{}, err
	}
	game.WhiteUsername = white.String
	game.BlackUsername = black.String
	game.Game = &model.Game{}
	if err := json.Unmarshal([]byte(payload), game.Game); err != nil {
		return model.GameState{}, fmt.Errorf("decode game %d: %w", game.ID, err)
	}
	if game.Game.Board == nil {
		return model.GameState{}, fmt.Errorf("decode game %d: missing board", game.ID)
	}
	return game, nil
}

func encodeGame(game model.GameState) (string, error) {
	if game.Game == nil {
		return "", fmt.Errorf("game state is required")
	}
	payload, err := json.Marshal(game.Game)
	if err != nil {
		return "", fmt.Errorf("encode game: %w", err)
	}
	return string(payload), nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
