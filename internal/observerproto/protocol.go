package observerproto

// Version is the observer protocol version.
const Version = "0.1"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeTick      = "TICK"
	TypeLight     = "LIGHT"
)

// Client -> Server. First message on the observer WS connection, and can be re-sent to update settings.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// Optional: stream packed light for a window of one space.
	Space       string `json:"space,omitempty"`
	WindowLower [3]int `json:"window_lower,omitempty"`
	WindowSize  [3]int `json:"window_size,omitempty"`
}

// HTTP response for GET /admin/v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	WorldID         string      `json:"world_id"`
	Tick            uint64      `json:"tick"`
	WorldParams     WorldParams `json:"world_params"`
	BlockDefs       []string    `json:"block_defs"`
	Spaces          []SpaceInfo `json:"spaces"`
}

type WorldParams struct {
	TickRateHz     int `json:"tick_rate_hz"`
	LightBatchSize int `json:"light_batch_size"`
	LightUnit      int `json:"light_unit"`
}

type SpaceInfo struct {
	Name  string `json:"name"`
	Lower [3]int `json:"lower"`
	Size  [3]int `json:"size"`
}

// Server -> Client. Sent every tick.
type TickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Digest          string `json:"digest"`

	Spaces []SpaceState `json:"spaces"`
	Edits  []EditInfo   `json:"edits,omitempty"`
}

type SpaceState struct {
	Name              string `json:"name"`
	LightDigest       string `json:"light_digest"`
	LightUpdates      int    `json:"light_updates"`
	LightQueued       int    `json:"light_queued"`
	MaxLightDiff      int    `json:"max_light_diff"`
	BlocksReevaluated int    `json:"blocks_reevaluated,omitempty"`
	DistinctBlocks    int    `json:"distinct_blocks"`
}

type EditInfo struct {
	Type  string `json:"type"`
	Space string `json:"space,omitempty"`
	Def   string `json:"def,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server -> Client. Packed light of the subscribed window, sent when it changes.
type LightMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Space           string `json:"space"`
	Lower           [3]int `json:"lower"`
	Size            [3]int `json:"size"`
	// Data is base64 of R,G,B bytes per cube, x-major.
	Data string `json:"data"`
}
