package remote

import "sync"

// IdentityMap translates between local member ids and remote-assigned ids.
// The primary member has the fixed local sentinel id while the remote store
// assigns it a real id; all other members use their remote id verbatim.
//
// One instance is constructed by the application root and shared by the
// loader (which rebuilds it on hydration) and the sync queue (which reads it
// when pushing rows and extends it when a member is created).
type IdentityMap struct {
	mu       sync.RWMutex
	toRemote map[string]string
}

func NewIdentityMap() *IdentityMap {
	return &IdentityMap{toRemote: map[string]string{}}
}

// Set records a local -> remote pairing.
func (m *IdentityMap) Set(localID, remoteID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toRemote[localID] = remoteID
}

// Replace swaps in a freshly built mapping.
func (m *IdentityMap) Replace(mapping map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toRemote = make(map[string]string, len(mapping))
	for k, v := range mapping {
		m.toRemote[k] = v
	}
}

// Remote resolves a local id to its remote id. Unknown ids pass through
// verbatim: best effort, never fatal.
func (m *IdentityMap) Remote(localID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if remoteID, ok := m.toRemote[localID]; ok {
		return remoteID
	}
	return localID
}

// Local resolves a remote id back to its local id, falling back to the
// remote id itself.
func (m *IdentityMap) Local(remoteID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for localID, rid := range m.toRemote {
		if rid == remoteID {
			return localID
		}
	}
	return remoteID
}

// BuildIdentityMap derives the local -> remote mapping from the remotely
// stored members: the row marked primary claims the sentinel local id,
// everyone else maps to themselves.
func BuildIdentityMap(members []MemberRow, primaryLocalID string) map[string]string {
	mapping := map[string]string{}
	primaryRemote := ""
	for _, m := range members {
		if m.Role == remoteRolePrimary {
			primaryRemote = m.ID
			break
		}
	}
	if primaryRemote != "" {
		mapping[primaryLocalID] = primaryRemote
	}
	for _, m := range members {
		if m.ID != primaryRemote {
			mapping[m.ID] = m.ID
		}
	}
	return mapping
}
