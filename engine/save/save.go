// Package save implements JSON serialization and deserialization of a
// session snapshot. The setting pack mutates during play (dynamic
// promotion), so a snapshot carries both the pack and the state.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/wordsoul/engine"
	"github.com/nathoo/wordsoul/types"
)

const Version = "1"

// SaveData is the JSON-serializable session snapshot.
type SaveData struct {
	Version   string             `json:"version"`
	SessionID string             `json:"session_id"`
	Pack      *types.SettingPack `json:"setting_pack"`
	State     *types.GameState   `json:"current_state"`
}

// Save serializes the engine's documents to JSON bytes. The session id
// is generated when the engine never persisted one before.
func Save(e *engine.Engine, sessionID string) ([]byte, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	data := SaveData{
		Version:   Version,
		SessionID: sessionID,
		Pack:      e.Pack,
		State:     e.State,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Pack == nil || sd.State == nil {
		return nil, fmt.Errorf("save is missing the setting pack or game state")
	}
	// Ensure containers are never nil after load.
	if sd.State.Attributes == nil {
		sd.State.Attributes = map[string]float64{}
	}
	if sd.State.Inventory == nil {
		sd.State.Inventory = []string{}
	}
	if sd.State.ActiveQuests == nil {
		sd.State.ActiveQuests = map[string]string{}
	}
	if sd.State.RecentHistory == nil {
		sd.State.RecentHistory = []types.HistoryEntry{}
	}
	return &sd, nil
}

// ApplySave swaps the loaded documents into the engine.
func ApplySave(e *engine.Engine, sd *SaveData) {
	e.Pack = sd.Pack
	e.State = sd.State
	e.PackDirty = false
}
