package usecases

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/candor-hq/candor/internal/domain/issue"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/domain/shared/events"
	"github.com/candor-hq/candor/internal/infrastructure/email"
	"github.com/candor-hq/candor/internal/infrastructure/storage"
)

type mockIssueRepository struct {
	CreateFunc               func(ctx context.Context, i *issue.Issue, token *issue.AnonymousToken) error
	UpdateFunc               func(ctx context.Context, i *issue.Issue) error
	GetByIDFunc              func(ctx context.Context, id string) (*issue.Issue, error)
	GetByAnonymousTokenFunc  func(ctx context.Context, token string) (*issue.Issue, error)
	ListFunc                 func(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error)
	ListResolvedBeforeFunc   func(ctx context.Context, cutoff time.Time, limit int) ([]*issue.Issue, error)
	getByIDCalls             int
	getByAnonymousTokenCalls int
}

func (m *mockIssueRepository) Create(ctx context.Context, i *issue.Issue, token *issue.AnonymousToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, i, token)
	}
	return nil
}

func (m *mockIssueRepository) Update(ctx context.Context, i *issue.Issue) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, i)
	}
	return nil
}

func (m *mockIssueRepository) GetByID(ctx context.Context, id string) (*issue.Issue, error) {
	m.getByIDCalls++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockIssueRepository) GetByAnonymousToken(ctx context.Context, token string) (*issue.Issue, error) {
	m.getByAnonymousTokenCalls++
	if m.GetByAnonymousTokenFunc != nil {
		return m.GetByAnonymousTokenFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockIssueRepository) List(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockIssueRepository) ListResolvedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*issue.Issue, error) {
	if m.ListResolvedBeforeFunc != nil {
		return m.ListResolvedBeforeFunc(ctx, cutoff, limit)
	}
	return nil, nil
}

type mockUpdateRepository struct {
	CreateFunc      func(ctx context.Context, u *issue.IssueUpdate) error
	ListByIssueFunc func(ctx context.Context, issueID string, publicOnly bool) ([]*issue.IssueUpdate, error)
	created         []*issue.IssueUpdate
}

func (m *mockUpdateRepository) Create(ctx context.Context, u *issue.IssueUpdate) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	m.created = append(m.created, u)
	return nil
}

func (m *mockUpdateRepository) ListByIssue(ctx context.Context, issueID string, publicOnly bool) ([]*issue.IssueUpdate, error) {
	if m.ListByIssueFunc != nil {
		return m.ListByIssueFunc(ctx, issueID, publicOnly)
	}
	out := make([]*issue.IssueUpdate, 0, len(m.created))
	for _, u := range m.created {
		if u.IssueID() == issueID && (!publicOnly || u.IsPublic()) {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockTokenRepository struct {
	GetByTokenFunc func(ctx context.Context, token string) (*issue.AnonymousToken, error)
}

func (m *mockTokenRepository) GetByToken(ctx context.Context, token string) (*issue.AnonymousToken, error) {
	if m.GetByTokenFunc != nil {
		return m.GetByTokenFunc(ctx, token)
	}
	return nil, nil
}

// mockReferenceRepository serves fixed reference data.
type mockReferenceRepository struct {
	categories  []*reference.IssueCategory
	departments []*reference.Department
	err         error
}

func newMockReferenceRepository() *mockReferenceRepository {
	now := time.Now().UTC()
	return &mockReferenceRepository{
		categories: []*reference.IssueCategory{
			reference.ReconstructIssueCategory("cat-maint", "Maintenance", "", "#f59e0b", "wrench", now),
			reference.ReconstructIssueCategory("cat-safety", "Safety", "", "#ef4444", "shield", now),
		},
		departments: []*reference.Department{
			reference.ReconstructDepartment("dep-ops", "Operations", "", now),
		},
	}
}

func (m *mockReferenceRepository) ListDepartments(context.Context) ([]*reference.Department, error) {
	return m.departments, m.err
}

func (m *mockReferenceRepository) ListCategories(context.Context) ([]*reference.IssueCategory, error) {
	return m.categories, m.err
}

func (m *mockReferenceRepository) GetDepartment(_ context.Context, id string) (*reference.Department, error) {
	for _, d := range m.departments {
		if d.ID() == id {
			return d, m.err
		}
	}
	return nil, m.err
}

func (m *mockReferenceRepository) GetCategory(_ context.Context, id string) (*reference.IssueCategory, error) {
	for _, c := range m.categories {
		if c.ID() == id {
			return c, m.err
		}
	}
	return nil, m.err
}

func (m *mockReferenceRepository) GetCategoryByName(_ context.Context, name string) (*reference.IssueCategory, error) {
	for _, c := range m.categories {
		if c.Name() == name {
			return c, m.err
		}
	}
	return nil, m.err
}

func (m *mockReferenceRepository) GetDepartmentByName(_ context.Context, name string) (*reference.Department, error) {
	for _, d := range m.departments {
		if d.Name() == name {
			return d, m.err
		}
	}
	return nil, m.err
}

func (m *mockReferenceRepository) SaveDepartment(context.Context, *reference.Department) error {
	return nil
}

func (m *mockReferenceRepository) SaveCategory(context.Context, *reference.IssueCategory) error {
	return nil
}

type mockProfileRepository struct {
	profiles map[string]*profile.Profile
}

func newMockProfileRepository(profiles ...*profile.Profile) *mockProfileRepository {
	m := &mockProfileRepository{profiles: make(map[string]*profile.Profile)}
	for _, p := range profiles {
		m.profiles[p.ID()] = p
	}
	return m
}

func (m *mockProfileRepository) Create(_ context.Context, p *profile.Profile) error {
	m.profiles[p.ID()] = p
	return nil
}

func (m *mockProfileRepository) Update(_ context.Context, p *profile.Profile) error {
	m.profiles[p.ID()] = p
	return nil
}

func (m *mockProfileRepository) GetByID(_ context.Context, id string) (*profile.Profile, error) {
	return m.profiles[id], nil
}

func (m *mockProfileRepository) GetByIDs(_ context.Context, ids []string) ([]*profile.Profile, error) {
	out := make([]*profile.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTokenGenerator struct {
	tokens []string
	err    error
	next   int
}

func (g *fakeTokenGenerator) Generate() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if g.next >= len(g.tokens) {
		return "generated-token", nil
	}
	t := g.tokens[g.next]
	g.next++
	return t, nil
}

func (g *fakeTokenGenerator) Fingerprint(token string) string {
	return "fp-" + token
}

// memoryIssueCache round-trips through JSON like the Redis implementation.
type memoryIssueCache struct {
	mu       sync.Mutex
	docs     map[string][]byte
	byFP     map[string]string
	setErr   error
	sets     int
	invalids int
}

func newMemoryIssueCache() *memoryIssueCache {
	return &memoryIssueCache{
		docs: make(map[string][]byte),
		byFP: make(map[string]string),
	}
}

func (c *memoryIssueCache) GetByFingerprint(_ context.Context, fingerprint string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.byFP[fingerprint]
	if !ok {
		return false, nil
	}
	raw, ok := c.docs[id]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryIssueCache) Set(_ context.Context, issueID, fingerprint string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.docs[issueID] = raw
	c.byFP[fingerprint] = issueID
	return nil
}

func (c *memoryIssueCache) Invalidate(_ context.Context, issueID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalids++
	delete(c.docs, issueID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(event events.DomainEvent) error {
	return p.PublishAll([]events.DomainEvent{event})
}

func (p *recordingPublisher) PublishAll(evts []events.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	escalations []email.EscalationMessage
	statusTo    []string
	statusMsgs  []email.StatusChangedMessage
	err         error
}

func (n *recordingNotifier) SendEscalation(_ context.Context, msg email.EscalationMessage) error {
	n.escalations = append(n.escalations, msg)
	return n.err
}

func (n *recordingNotifier) SendStatusChanged(_ context.Context, to string, msg email.StatusChangedMessage) error {
	n.statusTo = append(n.statusTo, to)
	n.statusMsgs = append(n.statusMsgs, msg)
	return n.err
}

type mockAttachmentStore struct {
	PresignUploadFunc   func(ctx context.Context, contentType string) (*storage.PresignedURL, error)
	PresignDownloadFunc func(ctx context.Context, key string) (*storage.PresignedURL, error)
}

func (m *mockAttachmentStore) PresignUpload(ctx context.Context, contentType string) (*storage.PresignedURL, error) {
	if m.PresignUploadFunc != nil {
		return m.PresignUploadFunc(ctx, contentType)
	}
	return &storage.PresignedURL{}, nil
}

func (m *mockAttachmentStore) PresignDownload(ctx context.Context, key string) (*storage.PresignedURL, error) {
	if m.PresignDownloadFunc != nil {
		return m.PresignDownloadFunc(ctx, key)
	}
	return &storage.PresignedURL{}, nil
}
