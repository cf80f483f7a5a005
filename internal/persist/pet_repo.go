package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/ccvpets/server/internal/world"
)

// PgStore persists the pet collection in PostgreSQL. Save keeps the file
// store's whole-collection replace semantics by rewriting the table inside
// one transaction.
type PgStore struct {
	db *DB
}

func NewPgStore(db *DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Load(ctx context.Context) (map[string]*world.PetState, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT owner_id, name, owner, species, birth_date,
		        level, experience, coins, max_level,
		        skill_level, intelligence, stamina,
		        hunger, happiness, health, loyalty,
		        last_interaction_time, last_sign_in_date, interaction_window_start
		 FROM pets`,
	)
	if err != nil {
		return nil, fmt.Errorf("load pets: %w", err)
	}
	defer rows.Close()

	pets := make(map[string]*world.PetState)
	for rows.Next() {
		var (
			p          world.PetState
			birth      *time.Time
			lastInter  *time.Time
			lastSignIn *time.Time
			winStart   *time.Time
		)
		if err := rows.Scan(
			&p.OwnerID, &p.Name, &p.OwnerDisplayName, &p.Species, &birth,
			&p.Level, &p.Experience, &p.Coins, &p.MaxLevel,
			&p.SkillLevel, &p.Intelligence, &p.Stamina,
			&p.Stats.Hunger, &p.Stats.Happiness, &p.Stats.Health, &p.Stats.Loyalty,
			&lastInter, &lastSignIn, &winStart,
		); err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		if birth != nil {
			p.BirthDate = *birth
		}
		if lastInter != nil {
			p.LastInteractionTime = *lastInter
		}
		if lastSignIn != nil {
			p.LastSignInDate = *lastSignIn
		}
		if winStart != nil {
			p.InteractionWindowStart = *winStart
		}
		p.Stats.Apply(world.StatDelta{}) // clamp only
		pet := p
		pets[p.OwnerID] = &pet
	}
	return pets, rows.Err()
}

func (s *PgStore) Save(ctx context.Context, pets map[string]*world.PetState) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save pets begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM pets`); err != nil {
		return fmt.Errorf("save pets clear: %w", err)
	}
	for _, p := range pets {
		if _, err := tx.Exec(ctx,
			`INSERT INTO pets (
				owner_id, name, owner, species, birth_date,
				level, experience, coins, max_level,
				skill_level, intelligence, stamina,
				hunger, happiness, health, loyalty,
				last_interaction_time, last_sign_in_date, interaction_window_start
			) VALUES (
				$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
				$11,$12,$13,$14,$15,$16,$17,$18,$19
			)`,
			p.OwnerID, p.Name, p.OwnerDisplayName, p.Species, nullableTime(p.BirthDate),
			p.Level, p.Experience, p.Coins, p.MaxLevel,
			p.SkillLevel, p.Intelligence, p.Stamina,
			p.Stats.Hunger, p.Stats.Happiness, p.Stats.Health, p.Stats.Loyalty,
			nullableTime(p.LastInteractionTime), nullableTime(p.LastSignInDate), nullableTime(p.InteractionWindowStart),
		); err != nil {
			return fmt.Errorf("save pet %s: %w", p.OwnerID, err)
		}
	}
	return tx.Commit(ctx)
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
