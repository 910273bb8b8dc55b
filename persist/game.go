package persist

import (
	"context"
	"time"

	"junglequest/engine"
	"junglequest/engine/local"
)

// Exporter is a game that can dump its complete state.
type Exporter interface {
	Export() engine.State
}

// SaveGame writes the complete state of g under key.
func SaveGame(ctx context.Context, st Store, key string, g Exporter, now time.Time) (*SaveFile, error) {
	s := FromState(key, g.Export(), now)
	if err := st.PutSave(ctx, key, s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadGame reads the save under key and rebuilds the game from it.
// Nothing is returned unless the whole save is valid.
func LoadGame(ctx context.Context, st Store, key string, cfg engine.GameConfig) (*local.Engine, error) {
	s, err := st.GetSave(ctx, key)
	if err != nil {
		return nil, err
	}
	state, err := s.ToState()
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	g, err := local.NewFromState(cfg, state)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	return g, nil
}
