package repository

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/parisxmas/formbox/internal/models"
)

// MemoryStore implements every store interface in process. It is the
// injectable fixture/demo data source selected by configuration, and the
// backend the tests run against. Ids are ULIDs so insertion order and
// lexicographic order agree.
type MemoryStore struct {
	mu      sync.RWMutex
	forms   map[string]models.Form
	subs    map[string]models.Submission
	users   map[string]models.User
	files   map[string]models.FileDocument
	blobs   map[string][]byte
	entropy io.Reader
}

func NewMemoryStore() *MemoryStore {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &MemoryStore{
		forms:   make(map[string]models.Form),
		subs:    make(map[string]models.Submission),
		users:   make(map[string]models.User),
		files:   make(map[string]models.FileDocument),
		blobs:   make(map[string][]byte),
		entropy: ulid.Monotonic(src, 0),
	}
}

func (s *MemoryStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// ---- FormStore ----

func (s *MemoryStore) Insert(ctx context.Context, form *models.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[form.ID] = *form
	return nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	forms := make([]models.Form, 0, len(s.forms))
	for _, f := range s.forms {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool {
		if !forms[i].UpdatedAt.Equal(forms[j].UpdatedAt) {
			return forms[i].UpdatedAt.After(forms[j].UpdatedAt)
		}
		return forms[i].ID > forms[j].ID
	})
	return forms, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *MemoryStore) Update(ctx context.Context, form *models.Form) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[form.ID]; !ok {
		return false, nil
	}
	s.forms[form.ID] = *form
	return true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[id]; !ok {
		return false, nil
	}
	delete(s.forms, id)
	return true, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.forms)), nil
}

func (s *MemoryStore) EnsureIndexes(ctx context.Context) error { return nil }

// ---- SubmissionStore ----

// SubmissionMemoryStore narrows MemoryStore to the SubmissionStore interface
// so one MemoryStore can satisfy FormStore and SubmissionStore despite the
// overlapping method set.
type SubmissionMemoryStore struct {
	s *MemoryStore
}

func (s *MemoryStore) Submissions() *SubmissionMemoryStore {
	return &SubmissionMemoryStore{s: s}
}

func (m *SubmissionMemoryStore) Insert(ctx context.Context, sub *models.Submission) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = m.s.newID()
	}
	m.s.subs[sub.ID] = *sub
	return nil
}

func (m *SubmissionMemoryStore) FindByFormID(ctx context.Context, formID string) ([]models.Submission, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.submissionsForLocked(formID), nil
}

// submissionsForLocked returns the form's submissions newest first. Callers
// hold at least a read lock.
func (s *MemoryStore) submissionsForLocked(formID string) []models.Submission {
	subs := []models.Submission{}
	for _, sub := range s.subs {
		if sub.FormID == formID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].SubmittedAt.Equal(subs[j].SubmittedAt) {
			return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
		}
		return subs[i].ID > subs[j].ID
	})
	return subs
}

func (m *SubmissionMemoryStore) DeleteByFormID(ctx context.Context, formID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for id, sub := range m.s.subs {
		if sub.FormID == formID {
			delete(m.s.subs, id)
			n++
		}
	}
	return n, nil
}

func (m *SubmissionMemoryStore) CountByFormID(ctx context.Context, formID string) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var n int64
	for _, sub := range m.s.subs {
		if sub.FormID == formID {
			n++
		}
	}
	return n, nil
}

func (m *SubmissionMemoryStore) Count(ctx context.Context) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return int64(len(m.s.subs)), nil
}

func (m *SubmissionMemoryStore) Search(ctx context.Context, q SubmissionQuery) ([]models.Submission, int64, error) {
	m.s.mu.RLock()
	all := m.s.submissionsForLocked(q.FormID)
	m.s.mu.RUnlock()

	matched := []models.Submission{}
	for _, sub := range all {
		if !matchesQuery(sub, q) {
			continue
		}
		matched = append(matched, sub)
	}

	total := int64(len(matched))
	start := q.Skip
	if start > total {
		start = total
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *SubmissionMemoryStore) IndexNames(ctx context.Context) ([]string, error) {
	// The memory store has no real indexes; report the logical access paths.
	return []string{"id", "formId", "formId_submittedAt"}, nil
}

func (m *SubmissionMemoryStore) EnsureIndexes(ctx context.Context) error { return nil }

func matchesQuery(sub models.Submission, q SubmissionQuery) bool {
	for fieldID, fd := range q.Filters {
		if !matchesFilter(sub.Data[fieldID], fd) {
			return false
		}
	}
	if q.Text != "" {
		hay := sub.SearchText
		if hay == "" {
			for _, v := range sub.Data {
				hay += strings.ToLower(fmt.Sprint(v)) + " "
			}
		}
		if !strings.Contains(hay, strings.ToLower(q.Text)) {
			return false
		}
	}
	return true
}

func matchesFilter(value any, fd FilterDescriptor) bool {
	if fd.Min != nil || fd.Max != nil {
		if fd.Min != nil && compareValues(value, fd.Min) < 0 {
			return false
		}
		if fd.Max != nil && compareValues(value, fd.Max) > 0 {
			return false
		}
		return true
	}
	switch fd.Op {
	case "", "eq":
		return looseEqual(value, fd.Value)
	case "ne":
		return !looseEqual(value, fd.Value)
	case "gt":
		return compareValues(value, fd.Value) > 0
	case "gte":
		return compareValues(value, fd.Value) >= 0
	case "lt":
		return compareValues(value, fd.Value) < 0
	case "lte":
		return compareValues(value, fd.Value) <= 0
	case "in":
		vals, ok := fd.Value.([]any)
		if !ok {
			return false
		}
		for _, v := range vals {
			if looseEqual(value, v) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// looseEqual matches the way JSON numbers blur int/float: numerics compare
// numerically, everything else by string form.
func looseEqual(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compareValues(a, b any) int {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ---- UserStore ----

type UserMemoryStore struct {
	s *MemoryStore
}

func (s *MemoryStore) Users() *UserMemoryStore {
	return &UserMemoryStore{s: s}
}

func (m *UserMemoryStore) Insert(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	if user.ID == "" {
		user.ID = m.s.newID()
	}
	m.s.users[user.ID] = *user
	return nil
}

func (m *UserMemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, u := range m.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (m *UserMemoryStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *UserMemoryStore) EnsureIndexes(ctx context.Context) error { return nil }

// ---- FileStore ----

type FileMemoryStore struct {
	s *MemoryStore
}

func (s *MemoryStore) Files() *FileMemoryStore {
	return &FileMemoryStore{s: s}
}

func (m *FileMemoryStore) Save(ctx context.Context, doc *models.FileDocument, data []byte) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = m.s.newID()
	}
	doc.BlobKey = doc.ID
	m.s.files[doc.ID] = *doc
	m.s.blobs[doc.BlobKey] = append([]byte(nil), data...)
	return nil
}

func (m *FileMemoryStore) FindByID(ctx context.Context, id string) (*models.FileDocument, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	doc, ok := m.s.files[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (m *FileMemoryStore) FindBySubmission(ctx context.Context, submissionID string) ([]models.FileDocument, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	docs := []models.FileDocument{}
	for _, doc := range m.s.files {
		if doc.SubmissionID == submissionID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *FileMemoryStore) Open(ctx context.Context, blobKey string) ([]byte, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	data, ok := m.s.blobs[blobKey]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", blobKey)
	}
	return append([]byte(nil), data...), nil
}

func (m *FileMemoryStore) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	doc, ok := m.s.files[id]
	if !ok {
		return nil
	}
	delete(m.s.blobs, doc.BlobKey)
	delete(m.s.files, id)
	return nil
}

func (m *FileMemoryStore) Count(ctx context.Context) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return int64(len(m.s.files)), nil
}
