package infra_sql_history

import (
	"context"
	"time"

	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	"github.com/jmoiron/sqlx"
)

const defaultListLimit = 20

// Record is one finished match kept on this device.
type Record struct {
	ID           int64     `db:"id" json:"id"`
	SessionID    model.ID  `db:"session_id" json:"session_id"`
	GroupID      *int      `db:"group_id" json:"group_id"`
	MovieID      model.ID  `db:"movie_id" json:"movie_id"`
	Title        string    `db:"title" json:"title"`
	Poster       string    `db:"poster" json:"poster"`
	Score        int       `db:"score" json:"score"`
	Participants int       `db:"participants" json:"participants"`
	Results      string    `db:"results" json:"-"`
	CompletedAt  time.Time `db:"completed_at" json:"completed_at"`
}

// NewRecord builds a record from the results pushed at the end of a
// session. Results that do not decode are still kept verbatim.
func NewRecord(session model.Session, results model.Results, now time.Time) Record {
	r := Record{
		SessionID:   session.ID,
		GroupID:     session.GroupID,
		Results:     string(results),
		CompletedAt: now.UTC(),
	}

	decoded, err := results.Decode()
	if err != nil {
		return r
	}
	if m := decoded.WinningMovie; m != nil {
		r.MovieID = m.ID
		r.Title = m.Title
		r.Poster = m.Poster
	}
	r.Score = decoded.Score
	r.Participants = decoded.TotalParticipants
	return r
}

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) Migrate(ctx context.Context) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.db.DriverName() == "postgres" {
		id = "BIGSERIAL PRIMARY KEY"
	}

	query := `
		CREATE TABLE IF NOT EXISTS match_history (
			id ` + id + `,
			session_id TEXT NOT NULL,
			group_id INTEGER,
			movie_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			poster TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			participants INTEGER NOT NULL DEFAULT 0,
			results TEXT NOT NULL DEFAULT '',
			completed_at TIMESTAMP NOT NULL
		)
	`

	_, err := d.db.ExecContext(ctx, query)
	return err
}

func (d *Driver) Save(ctx context.Context, r Record) (int64, error) {
	query := d.db.Rebind(`
		INSERT INTO match_history
			(session_id, group_id, movie_id, title, poster, score, participants, results, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := d.db.GetContext(ctx, &id, query,
		r.SessionID,
		r.GroupID,
		r.MovieID,
		r.Title,
		r.Poster,
		r.Score,
		r.Participants,
		r.Results,
		r.CompletedAt,
	)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// List returns the most recent records first.
func (d *Driver) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := d.db.Rebind(`
		SELECT id, session_id, group_id, movie_id, title, poster, score, participants, results, completed_at
		FROM match_history
		ORDER BY completed_at DESC, id DESC
		LIMIT ?
	`)

	records := make([]Record, 0)
	if err := d.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, err
	}

	return records, nil
}
