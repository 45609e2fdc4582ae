package handler

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/MohammedIbrahim8887/helix/internal/models"
	"github.com/MohammedIbrahim8887/helix/internal/repository"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

// --- CaptionStore mock ---

type mockCaptionStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.CaptionGeneration
	now     time.Time
}

func newMockCaptionStore() *mockCaptionStore {
	return &mockCaptionStore{
		records: make(map[uuid.UUID]*models.CaptionGeneration),
		now:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing clock so updated_at ordering is stable.
func (m *mockCaptionStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *mockCaptionStore) seed(accountID uuid.UUID, key, caption string) *models.CaptionGeneration {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tick()
	gen := &models.CaptionGeneration{
		ID:        uuid.New(),
		AccountID: accountID,
		Key:       key,
		Caption:   caption,
		CreatedAt: t,
		UpdatedAt: t,
	}
	m.records[gen.ID] = gen
	// Return a snapshot: Upsert/UpdateCaption mutate the stored record and
	// callers compare their seed against post-mutation reads.
	cp := *gen
	return &cp
}

func (m *mockCaptionStore) Upsert(_ context.Context, accountID uuid.UUID, key, caption string) (*models.CaptionGeneration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, gen := range m.records {
		if gen.AccountID == accountID && gen.Key == key {
			gen.Caption = caption
			gen.UpdatedAt = m.tick()
			cp := *gen
			return &cp, nil
		}
	}
	t := m.tick()
	gen := &models.CaptionGeneration{
		ID:        uuid.New(),
		AccountID: accountID,
		Key:       key,
		Caption:   caption,
		CreatedAt: t,
		UpdatedAt: t,
	}
	m.records[gen.ID] = gen
	cp := *gen
	return &cp, nil
}

func (m *mockCaptionStore) FindByAccountAndKey(_ context.Context, accountID uuid.UUID, key string) (*models.CaptionGeneration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, gen := range m.records {
		if gen.AccountID == accountID && gen.Key == key {
			cp := *gen
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCaptionStore) GetByID(_ context.Context, accountID, id uuid.UUID) (*models.CaptionGeneration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gen, ok := m.records[id]
	if !ok || gen.AccountID != accountID {
		return nil, repository.ErrNotFound
	}
	cp := *gen
	return &cp, nil
}

func (m *mockCaptionStore) UpdateCaption(_ context.Context, accountID, id uuid.UUID, caption string) (*models.CaptionGeneration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gen, ok := m.records[id]
	if !ok || gen.AccountID != accountID {
		return nil, repository.ErrNotFound
	}
	gen.Caption = caption
	gen.UpdatedAt = m.tick()
	cp := *gen
	return &cp, nil
}

func (m *mockCaptionStore) Delete(_ context.Context, accountID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	gen, ok := m.records[id]
	if !ok || gen.AccountID != accountID {
		return repository.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockCaptionStore) ListByAccount(_ context.Context, accountID uuid.UUID, page, limit int, search string) (*repository.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	page = repository.ClampPage(page)
	limit = repository.ClampLimit(limit)

	var matched []models.CaptionGeneration
	for _, gen := range m.records {
		if gen.AccountID != accountID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(gen.Caption), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, *gen)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &repository.Page{
		Records:    matched[start:end],
		Total:      total,
		TotalPages: repository.TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}, nil
}

// --- AccountStore mock ---

type mockAccountStore struct {
	accounts map[string]*models.Account
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]*models.Account)}
}

func (m *mockAccountStore) seed(userID string) *models.Account {
	acc := &models.Account{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	m.accounts[userID] = acc
	return acc
}

func (m *mockAccountStore) GetByUserID(_ context.Context, userID string) (*models.Account, error) {
	acc, ok := m.accounts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return acc, nil
}

func (m *mockAccountStore) Ensure(_ context.Context, userID string) (*models.Account, error) {
	if acc, ok := m.accounts[userID]; ok {
		return acc, nil
	}
	return m.seed(userID), nil
}

// --- Captioner mock ---

type mockCaptioner struct {
	chunks []string
	err    error

	lastImageURL string
	lastPrompt   string
}

func (m *mockCaptioner) Generate(_ context.Context, imageURL, prompt string) (string, error) {
	m.lastImageURL = imageURL
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return strings.Join(m.chunks, ""), nil
}

func (m *mockCaptioner) Stream(_ context.Context, imageURL, prompt string, onDelta func(string)) (string, error) {
	m.lastImageURL = imageURL
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	for _, chunk := range m.chunks {
		if onDelta != nil {
			onDelta(chunk)
		}
	}
	return strings.Join(m.chunks, ""), nil
}

// --- Cache mock ---

type mockCache struct {
	mu      sync.Mutex
	entries map[string]string
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]string)}
}

func (m *mockCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.entries[key]
	if !ok {
		return "", fmt.Errorf("key not found")
	}
	return val, nil
}

func (m *mockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = fmt.Sprint(value)
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- FileStore mock ---

type mockFileStore struct {
	uploads map[string][]byte
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{uploads: make(map[string][]byte)}
}

func (m *mockFileStore) UploadFile(_ context.Context, bucketName, objectName string, reader io.Reader, _ int64, _ string) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	m.uploads[bucketName+"/"+objectName] = data
	return minio.UploadInfo{Bucket: bucketName, Key: objectName}, nil
}

func (m *mockFileStore) GetFileLink(_ context.Context, bucketName, objectName string, _ time.Duration) (string, error) {
	return "https://minio.local/" + bucketName + "/" + objectName, nil
}

// --- Publisher mock ---

type mockPublisher struct {
	published [][]byte
	err       error
}

func (m *mockPublisher) Publish(body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, body)
	return nil
}
