package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hrcadm/sleeptracker/internal"
)

// FileStore is a JSON-file-backed Store. Writes are debounced per file and
// flushed atomically by background workers. It also serves as the test
// backend.
type FileStore struct {
	users         map[string]*internal.User       // id -> User
	emailIndex    map[string]string               // normalized email -> id
	entries       map[string]*internal.SleepEntry // id -> SleepEntry
	userEntries   map[string][]*internal.SleepEntry
	logs          []*internal.RequestLog
	mu            sync.RWMutex
	usersFile     string
	sleepFile     string
	logsFile      string
	saveUsersChan chan struct{}
	saveSleepChan chan struct{}
	saveLogsChan  chan struct{}
	shutdownChan  chan struct{}
	workers       sync.WaitGroup
	closeOnce     sync.Once
	saveDelay     time.Duration
	logger        internal.Logger
}

func NewFileStore(usersFile, sleepFile, logsFile string, logger internal.Logger) (*FileStore, error) {
	s := &FileStore{
		users:         make(map[string]*internal.User),
		emailIndex:    make(map[string]string),
		entries:       make(map[string]*internal.SleepEntry),
		userEntries:   make(map[string][]*internal.SleepEntry),
		usersFile:     usersFile,
		sleepFile:     sleepFile,
		logsFile:      logsFile,
		saveUsersChan: make(chan struct{}, 1),
		saveSleepChan: make(chan struct{}, 1),
		saveLogsChan:  make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     500 * time.Millisecond,
		logger:        logger,
	}

	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadEntries(); err != nil {
		logger.Errorf("storage: failed to load sleep entries: %v", err)
		return nil, err
	}

	s.workers.Add(3)
	go s.saveWorker(s.saveUsersChan, s.flushUsers)
	go s.saveWorker(s.saveSleepChan, s.flushEntries)
	go s.saveWorker(s.saveLogsChan, s.flushLogs)

	return s, nil
}

func (s *FileStore) loadUsers() error {
	var users []*internal.User
	if err := readJSONFile(s.usersFile, &users); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		s.emailIndex[u.Email] = u.ID
	}
	return nil
}

func (s *FileStore) loadEntries() error {
	var entries []*internal.SleepEntry
	if err := readJSONFile(s.sleepFile, &entries); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.ID] = e
		s.userEntries[e.UserID] = append(s.userEntries[e.UserID], e)
	}
	for userID := range s.userEntries {
		sortEntriesDesc(s.userEntries[userID])
	}
	return nil
}

func readJSONFile(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	if err := json.NewDecoder(file).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}
	return os.Rename(tempFile, filePath)
}

func (s *FileStore) saveWorker(trigger chan struct{}, flush func() error) {
	defer s.workers.Done()
	for {
		select {
		case <-trigger:
			time.Sleep(s.saveDelay)
			// drain a pending trigger that arrived during the delay
			select {
			case <-trigger:
			default:
			}
			if err := flush(); err != nil {
				s.logger.Errorf("storage: flush failed: %v", err)
			}
		case <-s.shutdownChan:
			if err := flush(); err != nil {
				s.logger.Errorf("storage: final flush failed: %v", err)
			}
			return
		}
	}
}

func (s *FileStore) flushUsers() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.usersFile, users)
}

func (s *FileStore) flushEntries() error {
	s.mu.RLock()
	entries := make([]*internal.SleepEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.sleepFile, entries)
}

func (s *FileStore) flushLogs() error {
	s.mu.RLock()
	logs := make([]*internal.RequestLog, len(s.logs))
	copy(logs, s.logs)
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.logsFile, logs)
}

func requestSave(trigger chan struct{}) {
	select {
	case trigger <- struct{}{}:
	default:
	}
}

func sortEntriesDesc(entries []*internal.SleepEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// --- UserRepository ---

func (s *FileStore) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.emailIndex[user.Email]; exists {
		return ErrDuplicate
	}
	u := *user
	s.users[u.ID] = &u
	s.emailIndex[u.Email] = u.ID
	requestSave(s.saveUsersChan)
	return nil
}

func (s *FileStore) UserByEmail(ctx context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *FileStore) UserByID(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *FileStore) UpdateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if existing.Email != user.Email {
		if _, taken := s.emailIndex[user.Email]; taken {
			return ErrDuplicate
		}
		delete(s.emailIndex, existing.Email)
		s.emailIndex[user.Email] = user.ID
	}
	u := *user
	s.users[u.ID] = &u
	requestSave(s.saveUsersChan)
	return nil
}

// --- SleepRepository ---

func (s *FileStore) CreateEntry(ctx context.Context, entry *internal.SleepEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *entry
	s.entries[e.ID] = &e
	s.userEntries[e.UserID] = append(s.userEntries[e.UserID], &e)
	sortEntriesDesc(s.userEntries[e.UserID])
	requestSave(s.saveSleepChan)
	return nil
}

func (s *FileStore) ListEntries(ctx context.Context, userID string) ([]internal.SleepEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]internal.SleepEntry, 0, len(s.userEntries[userID]))
	for _, e := range s.userEntries[userID] {
		entries = append(entries, *e)
	}
	return entries, nil
}

func (s *FileStore) GetEntry(ctx context.Context, id, userID string) (*internal.SleepEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *FileStore) UpdateEntry(ctx context.Context, entry *internal.SleepEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return ErrNotFound
	}
	*existing = *entry
	requestSave(s.saveSleepChan)
	return nil
}

func (s *FileStore) DeleteEntry(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(s.entries, id)
	kept := s.userEntries[userID][:0]
	for _, candidate := range s.userEntries[userID] {
		if candidate.ID != id {
			kept = append(kept, candidate)
		}
	}
	s.userEntries[userID] = kept
	requestSave(s.saveSleepChan)
	return nil
}

// --- LogRepository ---

func (s *FileStore) SaveRequestLog(ctx context.Context, rec *internal.RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *rec
	s.logs = append(s.logs, &r)
	requestSave(s.saveLogsChan)
	return nil
}

// --- Status / lifecycle ---

func (s *FileStore) Status(ctx context.Context) internal.StorageStatus {
	return internal.StorageStatus{
		State:    "connected",
		Database: "file",
		Host:     strings.Join([]string{s.usersFile, s.sleepFile, s.logsFile}, ","),
	}
}

// Close flushes all pending writes to disk before returning.
func (s *FileStore) Close() {
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
	})
	s.workers.Wait()
}

var _ Store = (*FileStore)(nil)
