// Package registry tracks which connections are present in which rooms.
//
// Rooms are created implicitly on first join and deleted as soon as
// their last member leaves; an entry in the room map always has at
// least one member. The registry stores connection IDs only — it never
// owns connection objects and never touches the network.
package registry

import "sync"

type room struct {
	// members is the presence set; order remembers join order so a
	// joining client can be told who arrived first.
	members map[string]struct{}
	order   []string
}

// Registry is the process-wide room membership map. All methods are
// safe for concurrent use; the lock is held only for map mutation,
// never across I/O.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// Join adds connID to roomID, creating the room if needed. It returns
// the IDs already present (in join order, excluding connID) and whether
// connID was already a member. Joining twice is idempotent: no
// duplicate entry is created. Empty roomID or connID is a no-op.
func (r *Registry) Join(roomID, connID string) (peers []string, already bool) {
	if roomID == "" || connID == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		rm = &room{members: make(map[string]struct{})}
		r.rooms[roomID] = rm
	}

	if _, already = rm.members[connID]; !already {
		rm.members[connID] = struct{}{}
		rm.order = append(rm.order, connID)
	}

	for _, id := range rm.order {
		if id != connID {
			peers = append(peers, id)
		}
	}
	return peers, already
}

// Leave removes connID from roomID and returns the members left behind
// plus whether connID was actually a member. A room emptied by the
// removal is deleted from the map.
func (r *Registry) Leave(roomID, connID string) (remaining []string, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(roomID, connID)
}

// LeaveAll removes connID from every room it belongs to, returning the
// remaining members per affected room. Used on disconnect.
func (r *Registry) LeaveAll(connID string) map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := make(map[string][]string)
	for roomID, rm := range r.rooms {
		if _, ok := rm.members[connID]; !ok {
			continue
		}
		remaining, _ := r.leaveLocked(roomID, connID)
		affected[roomID] = remaining
	}
	return affected
}

func (r *Registry) leaveLocked(roomID, connID string) (remaining []string, removed bool) {
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	if _, ok := rm.members[connID]; !ok {
		return rm.order, false
	}

	delete(rm.members, connID)
	for i, id := range rm.order {
		if id == connID {
			rm.order = append(rm.order[:i], rm.order[i+1:]...)
			break
		}
	}

	if len(rm.members) == 0 {
		delete(r.rooms, roomID)
		return nil, true
	}
	remaining = append(remaining, rm.order...)
	return remaining, true
}

// Members returns the current members of roomID in join order, or nil
// if the room does not exist.
func (r *Registry) Members(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]string, len(rm.order))
	copy(out, rm.order)
	return out
}

// Contains reports whether connID is currently a member of roomID.
func (r *Registry) Contains(roomID, connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	_, ok = rm.members[connID]
	return ok
}

// RoomCount returns the number of rooms with at least one member.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Shutdown drops all membership state. Clients must re-join after a
// restart; nothing is persisted.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = make(map[string]*room)
}
