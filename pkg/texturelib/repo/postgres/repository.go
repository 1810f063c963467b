// Package postgres provides a PostgreSQL implementation of
// texturelib.Repository backed by pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

// DBTX is an interface that allows us to use either a database connection
// or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements texturelib.Repository using PostgreSQL
type Repository struct {
	db   DBTX
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository over an existing connection or
// transaction. InTx on such a repository joins the caller's scope.
func New(db DBTX) texturelib.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool.
// InTx opens a serializable transaction per call.
func NewWithPool(pool *pgxpool.Pool) texturelib.Repository {
	return &Repository{db: pool, pool: pool}
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return texturelib.ErrConflict
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s: %w", operation, err)
		case "40001": // serialization_failure
			return texturelib.ErrConflict
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Texture catalog operations

const textureColumns = `id, name, kind, hash, size_units, public, uploader_id, likes, uploaded_at, updated_at`

func scanTexture(row pgx.Row) (*texturelib.Texture, error) {
	var t texturelib.Texture
	err := row.Scan(&t.ID, &t.Name, &t.Kind, &t.Hash, &t.SizeUnits, &t.Public,
		&t.UploaderID, &t.Likes, &t.UploadedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) CreateTexture(ctx context.Context, texture *texturelib.Texture) error {
	query := `
		INSERT INTO textures (id, name, kind, hash, size_units, public, uploader_id, likes, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		texture.ID, texture.Name, texture.Kind, texture.Hash, texture.SizeUnits,
		texture.Public, texture.UploaderID, texture.Likes, texture.UploadedAt, texture.UpdatedAt)
	if err != nil {
		return handlePostgresError("create texture", err)
	}
	return nil
}

func (r *Repository) GetTexture(ctx context.Context, id uuid.UUID) (*texturelib.Texture, error) {
	query := `SELECT ` + textureColumns + ` FROM textures WHERE id = $1`
	texture, err := scanTexture(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, texturelib.ErrTextureNotFound
		}
		return nil, handlePostgresError("get texture", err)
	}
	return texture, nil
}

func (r *Repository) GetTextureForUpdate(ctx context.Context, id uuid.UUID) (*texturelib.Texture, error) {
	query := `SELECT ` + textureColumns + ` FROM textures WHERE id = $1 FOR UPDATE`
	texture, err := scanTexture(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, texturelib.ErrTextureNotFound
		}
		return nil, handlePostgresError("get texture for update", err)
	}
	return texture, nil
}

func (r *Repository) UpdateTexture(ctx context.Context, texture *texturelib.Texture) error {
	query := `
		UPDATE textures
		SET name = $2, kind = $3, public = $4, likes = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		texture.ID, texture.Name, texture.Kind, texture.Public, texture.Likes, texture.UpdatedAt)
	if err != nil {
		return handlePostgresError("update texture", err)
	}
	if tag.RowsAffected() == 0 {
		return texturelib.ErrTextureNotFound
	}
	return nil
}

func (r *Repository) DeleteTexture(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM textures WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete texture", err)
	}
	if tag.RowsAffected() == 0 {
		return texturelib.ErrTextureNotFound
	}
	return nil
}

func (r *Repository) FindPublicTextureByHash(ctx context.Context, hash string) (*texturelib.Texture, error) {
	query := `
		SELECT ` + textureColumns + `
		FROM textures
		WHERE hash = $1 AND public
		ORDER BY uploaded_at ASC
		LIMIT 1`

	texture, err := scanTexture(r.db.QueryRow(ctx, query, hash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, texturelib.ErrTextureNotFound
		}
		return nil, handlePostgresError("find public texture by hash", err)
	}
	return texture, nil
}

func (r *Repository) CountTexturesByHash(ctx context.Context, hash string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM textures WHERE hash = $1`, hash).Scan(&count)
	if err != nil {
		return 0, handlePostgresError("count textures by hash", err)
	}
	return count, nil
}

func (r *Repository) SearchTextures(ctx context.Context, q texturelib.SearchQuery) (*texturelib.TexturePage, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.Kinds) > 0 {
		kinds := make([]string, len(q.Kinds))
		for i, k := range q.Kinds {
			kinds[i] = string(k)
		}
		conditions = append(conditions, fmt.Sprintf("kind = ANY(%s)", arg(kinds)))
	}
	if q.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE %s", arg("%"+q.Keyword+"%")))
	}
	if q.Uploader != nil {
		conditions = append(conditions, fmt.Sprintf("uploader_id = %s", arg(*q.Uploader)))
	}
	switch q.Scope {
	case texturelib.ScopePublicOnly:
		conditions = append(conditions, "public")
	case texturelib.ScopeViewer:
		conditions = append(conditions, fmt.Sprintf("(public OR uploader_id = %s)", arg(q.ViewerID)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM textures"+where, args...).Scan(&total); err != nil {
		return nil, handlePostgresError("count search results", err)
	}

	orderBy := " ORDER BY uploaded_at DESC"
	if q.SortBy == texturelib.SortByLikes {
		orderBy = " ORDER BY likes DESC, uploaded_at DESC"
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = texturelib.SearchPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	query := "SELECT " + textureColumns + " FROM textures" + where + orderBy +
		fmt.Sprintf(" LIMIT %s OFFSET %s", arg(pageSize), arg((page-1)*pageSize))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("search textures", err)
	}
	defer rows.Close()

	items := []*texturelib.Texture{}
	for rows.Next() {
		texture, err := scanTexture(rows)
		if err != nil {
			return nil, handlePostgresError("scan search result", err)
		}
		items = append(items, texture)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("search textures", err)
	}

	return &texturelib.TexturePage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// User score operations

func (r *Repository) CreateUser(ctx context.Context, user *texturelib.User) error {
	query := `INSERT INTO users (id, nickname, score, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, user.ID, user.Nickname, user.Score, user.CreatedAt)
	if err != nil {
		return handlePostgresError("create user", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*texturelib.User, error) {
	var u texturelib.User
	err := r.db.QueryRow(ctx,
		`SELECT id, nickname, score, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Nickname, &u.Score, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, texturelib.ErrUserNotFound
		}
		return nil, handlePostgresError("get user", err)
	}
	return &u, nil
}

func (r *Repository) AdjustScore(ctx context.Context, userID uuid.UUID, delta int64) error {
	// The affordability check and the debit are a single conditional
	// update, so concurrent debits against the same user cannot interleave
	// between check and apply.
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET score = score + $2 WHERE id = $1 AND score + $2 >= 0`,
		userID, delta)
	if err != nil {
		return handlePostgresError("adjust score", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return handlePostgresError("adjust score", err)
		}
		if !exists {
			return texturelib.ErrUserNotFound
		}
		return texturelib.ErrInsufficientScore
	}
	return nil
}

// Closet operations

func (r *Repository) UpsertClosetEntry(ctx context.Context, entry *texturelib.ClosetEntry) error {
	query := `
		INSERT INTO closet_entries (user_id, texture_id, label, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, texture_id) DO UPDATE SET label = EXCLUDED.label`

	_, err := r.db.Exec(ctx, query, entry.UserID, entry.TextureID, entry.Label, entry.AddedAt)
	if err != nil {
		return handlePostgresError("upsert closet entry", err)
	}
	return nil
}

func (r *Repository) GetClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (*texturelib.ClosetEntry, error) {
	var e texturelib.ClosetEntry
	err := r.db.QueryRow(ctx,
		`SELECT user_id, texture_id, label, added_at FROM closet_entries WHERE user_id = $1 AND texture_id = $2`,
		userID, textureID).
		Scan(&e.UserID, &e.TextureID, &e.Label, &e.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, texturelib.ErrClosetEntryNotFound
		}
		return nil, handlePostgresError("get closet entry", err)
	}
	return &e, nil
}

func (r *Repository) DeleteClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM closet_entries WHERE user_id = $1 AND texture_id = $2`, userID, textureID)
	if err != nil {
		return false, handlePostgresError("delete closet entry", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListClosetEntries(ctx context.Context, userID uuid.UUID) ([]*texturelib.ClosetEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, texture_id, label, added_at FROM closet_entries WHERE user_id = $1 ORDER BY added_at DESC`,
		userID)
	if err != nil {
		return nil, handlePostgresError("list closet entries", err)
	}
	defer rows.Close()

	var result []*texturelib.ClosetEntry
	for rows.Next() {
		var e texturelib.ClosetEntry
		if err := rows.Scan(&e.UserID, &e.TextureID, &e.Label, &e.AddedAt); err != nil {
			return nil, handlePostgresError("scan closet entry", err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list closet entries", err)
	}
	return result, nil
}

func (r *Repository) CountClosetEntries(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM closet_entries WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, handlePostgresError("count closet entries", err)
	}
	return count, nil
}

func (r *Repository) ListCollectors(ctx context.Context, textureID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM closet_entries WHERE texture_id = $1 ORDER BY user_id`, textureID)
	if err != nil {
		return nil, handlePostgresError("list collectors", err)
	}
	defer rows.Close()

	var result []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, handlePostgresError("scan collector", err)
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list collectors", err)
	}
	return result, nil
}

// Player operations

func scanPlayer(row pgx.Row) (*texturelib.Player, error) {
	var (
		p          texturelib.Player
		skin, cape *uuid.UUID
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &skin, &cape, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if skin != nil {
		p.SkinTextureID = *skin
	}
	if cape != nil {
		p.CapeTextureID = *cape
	}
	return &p, nil
}

func nullableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func (r *Repository) CreatePlayer(ctx context.Context, player *texturelib.Player) error {
	query := `
		INSERT INTO players (id, owner_id, name, skin_texture_id, cape_texture_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		player.ID, player.OwnerID, player.Name,
		nullableID(player.SkinTextureID), nullableID(player.CapeTextureID), player.CreatedAt)
	if err != nil {
		return handlePostgresError("create player", err)
	}
	return nil
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*texturelib.Player, error) {
	query := `SELECT id, owner_id, name, skin_texture_id, cape_texture_id, created_at FROM players WHERE id = $1`
	player, err := scanPlayer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, texturelib.ErrPlayerNotFound
		}
		return nil, handlePostgresError("get player", err)
	}
	return player, nil
}

func (r *Repository) UpdatePlayer(ctx context.Context, player *texturelib.Player) error {
	query := `
		UPDATE players
		SET name = $2, skin_texture_id = $3, cape_texture_id = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		player.ID, player.Name, nullableID(player.SkinTextureID), nullableID(player.CapeTextureID))
	if err != nil {
		return handlePostgresError("update player", err)
	}
	if tag.RowsAffected() == 0 {
		return texturelib.ErrPlayerNotFound
	}
	return nil
}

func (r *Repository) ListPlayersByOwner(ctx context.Context, ownerID uuid.UUID) ([]*texturelib.Player, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name, skin_texture_id, cape_texture_id, created_at FROM players WHERE owner_id = $1 ORDER BY name`,
		ownerID)
	if err != nil {
		return nil, handlePostgresError("list players", err)
	}
	defer rows.Close()

	var result []*texturelib.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, handlePostgresError("scan player", err)
		}
		result = append(result, player)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list players", err)
	}
	return result, nil
}

func (r *Repository) ClearEquipRefs(ctx context.Context, textureID uuid.UUID, slot texturelib.EquipSlot, exceptOwner uuid.UUID) (int64, error) {
	column := "skin_texture_id"
	if slot == texturelib.SlotCape {
		column = "cape_texture_id"
	}

	query := fmt.Sprintf(`UPDATE players SET %s = NULL WHERE %s = $1`, column, column)
	args := []interface{}{textureID}
	if exceptOwner != uuid.Nil {
		query += ` AND owner_id <> $2`
		args = append(args, exceptOwner)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, handlePostgresError("clear equip refs", err)
	}
	return tag.RowsAffected(), nil
}

// Transactions

func (r *Repository) InTx(ctx context.Context, fn func(texturelib.Repository) error) error {
	if r.pool == nil {
		// Already scoped to a transaction or single connection; join it.
		return fn(r)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return handlePostgresError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return handlePostgresError("commit transaction", err)
	}
	return nil
}
