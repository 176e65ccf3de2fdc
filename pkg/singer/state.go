package singer

// Bookmark tracks incremental-replication progress for a single stream.
type Bookmark struct {
	ReplicationKey      string `json:"replication_key,omitempty"`
	ReplicationKeyValue string `json:"replication_key_value,omitempty"`
}

// State is the tap's persistent state: one bookmark per tap_stream_id.
type State struct {
	Bookmarks map[string]Bookmark `json:"bookmarks"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Bookmarks: map[string]Bookmark{}}
}

// Bookmark returns the bookmark for a stream, if any.
func (s *State) Bookmark(tapStreamID string) (Bookmark, bool) {
	if s == nil || s.Bookmarks == nil {
		return Bookmark{}, false
	}
	b, ok := s.Bookmarks[tapStreamID]
	return b, ok
}

// SetBookmark records progress for a stream.
func (s *State) SetBookmark(tapStreamID string, b Bookmark) {
	if s.Bookmarks == nil {
		s.Bookmarks = map[string]Bookmark{}
	}
	s.Bookmarks[tapStreamID] = b
}
