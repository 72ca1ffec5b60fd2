package session

// Registry owns the live sessions and their room membership. It is only
// touched from the hub's event loop, so it carries no lock.
type Registry struct {
	nextID    int
	sessions  map[int]*Session
	roomCodes map[int]string
}

func NewRegistry() *Registry {
	return &Registry{
		nextID:    1,
		sessions:  make(map[int]*Session),
		roomCodes: make(map[int]string),
	}
}

// Register allocates the next id for conn and records the session. The
// caller attaches the initial game state.
func (r *Registry) Register(conn Conn) *Session {
	s := &Session{ID: r.nextID, Conn: conn}
	r.nextID++
	r.sessions[s.ID] = s
	return s
}

// Unregister drops the session and any room membership it still has.
func (r *Registry) Unregister(id int) {
	delete(r.sessions, id)
	delete(r.roomCodes, id)
}

func (r *Registry) Get(id int) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// SetRoom records the room the session participates in.
func (r *Registry) SetRoom(id int, code string) {
	r.roomCodes[id] = code
}

// RoomOf returns the code of the room the session participates in.
func (r *Registry) RoomOf(id int) (string, bool) {
	code, ok := r.roomCodes[id]
	return code, ok
}

// ClearRoom removes the session's room membership without dropping the
// session itself.
func (r *Registry) ClearRoom(id int) {
	delete(r.roomCodes, id)
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}
