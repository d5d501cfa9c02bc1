// Package store maintains the multi-account credential file.
//
// The file is a flat sequence of KEY="VALUE" lines. Each account occupies
// one positive index n across three key families: Trade_Name_<n>,
// GST_UserID_<n> and GST_PSSWD_<n>. Trade names are looked up through a
// normalized form (uppercased, all whitespace removed); the original casing
// is what gets stored and displayed. Keys outside the three families are
// preserved verbatim across rewrites.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"
)

// Key family prefixes in the credentials file.
const (
	TradeNamePrefix = "Trade_Name_"
	UserIDPrefix    = "GST_UserID_"
	PasswordPrefix  = "GST_PSSWD_"
)

// ErrNotFound is returned when a trade name or index is not in the store.
var ErrNotFound = errors.New("account not found")

// Field selects one of an account's stored values.
type Field string

const (
	FieldTradeName Field = TradeNamePrefix
	FieldUserID    Field = UserIDPrefix
	FieldPassword  Field = PasswordPrefix
)

// Record is one stored account.
type Record struct {
	Index     int
	TradeName string
	Username  string
	Password  string
}

// Complete reports whether the record can be used for a login attempt.
// A trade name alone does not constitute a usable account.
func (r Record) Complete() bool {
	return r.Username != "" && r.Password != ""
}

// Store reads and writes the credentials file. The file is re-read on every
// operation; nothing is cached across calls. Updates take a file lock and
// rewrite the whole file.
type Store struct {
	path     string
	lockPath string
}

// Open prepares a store at path, creating an empty file if none exists.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials file: %w", err)
	}
	f.Close()

	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Normalize derives the lookup key for a trade name: uppercase with all
// whitespace removed. Lookups are case- and whitespace-insensitive on
// purpose; operators should not have to remember exact spacing.
func Normalize(tradeName string) string {
	var b strings.Builder
	for _, r := range tradeName {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// TradeNameKey returns the file key holding an account's trade name.
func TradeNameKey(index int) string {
	return TradeNamePrefix + strconv.Itoa(index)
}

// UserIDKey returns the file key holding an account's username.
func UserIDKey(index int) string {
	return UserIDPrefix + strconv.Itoa(index)
}

// PasswordKey returns the file key holding an account's password.
func PasswordKey(index int) string {
	return PasswordPrefix + strconv.Itoa(index)
}

// Resolve looks up the index for a trade name, normalizing the input first.
func (s *Store) Resolve(tradeName string) (int, error) {
	doc, err := s.load()
	if err != nil {
		return 0, err
	}

	index, ok := scanTradeNames(doc)[Normalize(tradeName)]
	if !ok {
		return 0, ErrNotFound
	}
	return index, nil
}

// NextIndex returns the next free index: max of existing indices plus one,
// or 1 for an empty store.
func (s *Store) NextIndex() (int, error) {
	doc, err := s.load()
	if err != nil {
		return 0, err
	}
	return nextIndex(doc), nil
}

// List returns all accounts sorted by ascending index. Records missing a
// username or password are included; callers check Complete before use.
func (s *Store) List() ([]Record, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return records(doc), nil
}

// Get returns the account at index.
func (s *Store) Get(index int) (Record, error) {
	doc, err := s.load()
	if err != nil {
		return Record{}, err
	}

	name, ok := doc.Get(TradeNameKey(index))
	if !ok {
		return Record{}, ErrNotFound
	}

	rec := Record{Index: index, TradeName: name}
	rec.Username, _ = doc.Get(UserIDKey(index))
	rec.Password, _ = doc.Get(PasswordKey(index))
	return rec, nil
}

// Read returns the raw value of one field of an account.
func (s *Store) Read(index int, field Field) (string, bool, error) {
	doc, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := doc.Get(string(field) + strconv.Itoa(index))
	return value, ok, nil
}

// Upsert stores credentials for a trade name. An existing normalized name
// keeps its index; a new name is assigned the next free one. Empty username
// or password arguments leave the stored value untouched, so a partial
// update never clobbers the other field. The caller is responsible for
// confirming overwrites with the operator before calling.
func (s *Store) Upsert(tradeName, username, password string) (int, error) {
	if strings.TrimSpace(tradeName) == "" {
		return 0, errors.New("trade name cannot be empty")
	}

	unlock, err := s.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	doc, err := s.load()
	if err != nil {
		return 0, err
	}

	index, ok := scanTradeNames(doc)[Normalize(tradeName)]
	if !ok {
		index = nextIndex(doc)
	}

	doc.Set(TradeNameKey(index), strings.TrimSpace(tradeName))
	if username != "" {
		doc.Set(UserIDKey(index), username)
	}
	if password != "" {
		doc.Set(PasswordKey(index), password)
	}

	if err := s.write(doc); err != nil {
		return 0, err
	}
	return index, nil
}

// load reads and parses the whole backing file.
func (s *Store) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil), nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return Parse(data), nil
}

// write rewrites the whole backing file.
func (s *Store) write(doc *Document) error {
	if err := os.WriteFile(s.path, doc.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// lock guards the read-modify-write cycle against a second process.
func (s *Store) lock() (func(), error) {
	lock := flock.New(s.lockPath)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire store lock: %w", err)
	}
	if !locked {
		return nil, errors.New("failed to acquire store lock: timeout")
	}
	return func() { lock.Unlock() }, nil
}

// scanTradeNames maps normalized trade names to indices. Later lines win on
// duplicate normalized names, matching last-write semantics of the file.
func scanTradeNames(doc *Document) map[string]int {
	byName := make(map[string]int)
	for _, pair := range doc.Pairs() {
		if index, ok := parseIndexedKey(pair.Key, TradeNamePrefix); ok {
			byName[Normalize(pair.Value)] = index
		}
	}
	return byName
}

// nextIndex scans trade-name keys for the highest index. Malformed keys
// (missing or non-numeric index) are skipped and never count.
func nextIndex(doc *Document) int {
	highest := 0
	for _, pair := range doc.Pairs() {
		if index, ok := parseIndexedKey(pair.Key, TradeNamePrefix); ok && index > highest {
			highest = index
		}
	}
	return highest + 1
}

// records builds the ordered account list from a parsed document. Field
// lines may appear in any order; only a trade name establishes an account.
func records(doc *Document) []Record {
	names := make(map[int]string)
	users := make(map[int]string)
	passwords := make(map[int]string)

	for _, pair := range doc.Pairs() {
		if index, ok := parseIndexedKey(pair.Key, TradeNamePrefix); ok {
			names[index] = pair.Value
			continue
		}
		if index, ok := parseIndexedKey(pair.Key, UserIDPrefix); ok {
			users[index] = pair.Value
			continue
		}
		if index, ok := parseIndexedKey(pair.Key, PasswordPrefix); ok {
			passwords[index] = pair.Value
		}
	}

	indices := make([]int, 0, len(names))
	for index := range names {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	out := make([]Record, 0, len(indices))
	for _, index := range indices {
		out = append(out, Record{
			Index:     index,
			TradeName: names[index],
			Username:  users[index],
			Password:  passwords[index],
		})
	}
	return out
}

// parseIndexedKey extracts the positive index from prefix+digits keys.
func parseIndexedKey(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	suffix := key[len(prefix):]
	if suffix == "" {
		return 0, false
	}
	index, err := strconv.Atoi(suffix)
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}
