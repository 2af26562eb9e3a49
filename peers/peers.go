// Package peers persists the set of peers a node gossips with across
// restarts, the way the teacher's peers.JSONPeers does for its hashgraph
// transport — adapted here to key on data.AccountKey and an address instead
// of a numeric ID and a raw public-key hex string.
package peers

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mosaicnetworks/cascade/data"
)

const jsonPeersFile = "peers.json"

// Entry is one roster record: a peer's identity and the address its Hub
// can be dialed at.
type Entry struct {
	AccountKey string `json:"account_key"`
	Address    string `json:"address"`
}

// Roster is the in-memory peer set, keyed by hex-encoded AccountKey.
type Roster struct {
	byKey map[string]Entry
}

// NewRoster returns an empty Roster.
func NewRoster() *Roster {
	return &Roster{byKey: make(map[string]Entry)}
}

// NewRosterFromSlice builds a Roster from a list of entries.
func NewRosterFromSlice(entries []Entry) *Roster {
	r := NewRoster()
	for _, e := range entries {
		r.Add(e)
	}
	return r
}

// Add inserts or overwrites the entry for its AccountKey.
func (r *Roster) Add(e Entry) {
	r.byKey[e.AccountKey] = e
}

// Remove deletes the entry for key, if present.
func (r *Roster) Remove(key data.AccountKey) {
	delete(r.byKey, key.ToHexString(32))
}

// Lookup returns the address registered for key, if any.
func (r *Roster) Lookup(key data.AccountKey) (string, bool) {
	e, ok := r.byKey[key.ToHexString(32)]
	return e.Address, ok
}

// Len returns the number of peers in the roster.
func (r *Roster) Len() int { return len(r.byKey) }

// Entries returns the roster's entries sorted by AccountKey, for
// deterministic iteration (logging, JSON output).
func (r *Roster) Entries() []Entry {
	res := make([]Entry, 0, len(r.byKey))
	for _, e := range r.byKey {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].AccountKey < res[j].AccountKey })
	return res
}

// AccountKeys returns every peer's AccountKey, decoded, for seeding a
// gossip.Selector. Entries with an unparseable key are skipped.
func (r *Roster) AccountKeys() []data.AccountKey {
	res := make([]data.AccountKey, 0, len(r.byKey))
	for hex := range r.byKey {
		key, ok := data.AccountKeyFromHex(hex)
		if !ok {
			continue
		}
		res = append(res, key)
	}
	return res
}

// JSONRoster persists a Roster to a JSON file on disk, in the manner of the
// teacher's JSONPeers: human-editable, read fully into memory, written back
// out wholesale.
type JSONRoster struct {
	mu   sync.Mutex
	path string
}

// NewJSONRoster returns a JSONRoster backed by peers.json under base.
func NewJSONRoster(base string) *JSONRoster {
	return &JSONRoster{path: filepath.Join(base, jsonPeersFile)}
}

// Load reads the roster file. A missing or empty file yields an empty
// Roster rather than an error, so a fresh datadir just starts alone.
func (j *JSONRoster) Load() (*Roster, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	buf, err := ioutil.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRoster(), nil
		}
		return nil, err
	}
	if len(buf) == 0 {
		return NewRoster(), nil
	}

	var entries []Entry
	dec := json.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}
	return NewRosterFromSlice(entries), nil
}

// Save writes r out to the roster file.
func (j *JSONRoster) Save(r *Roster) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Entries()); err != nil {
		return err
	}
	return ioutil.WriteFile(j.path, buf.Bytes(), 0644)
}
