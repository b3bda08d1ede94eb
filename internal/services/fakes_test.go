package services_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/replicate"
	"holoframe-backend/internal/supabase"
	"holoframe-backend/internal/vertex"
)

// memoryStore is an ObjectStore that refuses to overwrite, like the real
// bucket. When barrier is set, ListNames blocks until that many callers
// have listed.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	uploads int

	barrier   int
	listed    int
	listReady chan struct{}
}

func newMemoryStore(paths ...string) *memoryStore {
	s := &memoryStore{objects: map[string][]byte{}, types: map[string]string{}, listReady: make(chan struct{})}
	for _, p := range paths {
		s.objects[p] = []byte("existing")
	}
	return s
}

func (s *memoryStore) Bucket() string { return "holo" }

func (s *memoryStore) Upload(path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; ok {
		e := apierr.Storage("failed to upload "+path, nil)
		e.Detail = "The resource already exists"
		return e
	}
	s.objects[path] = data
	s.types[path] = contentType
	s.uploads++
	return nil
}

func (s *memoryStore) ListNames(folder string) ([]string, error) {
	s.mu.Lock()
	var names []string
	for p := range s.objects {
		if strings.HasPrefix(p, folder+"/") {
			names = append(names, strings.TrimPrefix(p, folder+"/"))
		}
	}
	sort.Strings(names)
	barrier := s.barrier
	if barrier > 0 {
		s.listed++
		if s.listed == barrier {
			close(s.listReady)
		}
	}
	s.mu.Unlock()

	if barrier > 0 {
		<-s.listReady
	}
	return names, nil
}

func (s *memoryStore) PublicURL(path string) string {
	return "https://xyz.supabase.co/storage/v1/object/public/holo/" + path
}

func (s *memoryStore) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok
}

func (s *memoryStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// roundTripFunc serves downloads without a network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(status int, contentType string, body []byte) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(bytes.NewReader(body))}
}

type route struct {
	status      int
	contentType string
	body        []byte
}

func okRoute(contentType, body string) route {
	return route{status: http.StatusOK, contentType: contentType, body: []byte(body)}
}

func downloadClient(routes map[string]route, seen func(*http.Request)) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if seen != nil {
			seen(r)
		}
		if rt, found := routes[r.URL.String()]; found {
			return respond(rt.status, rt.contentType, rt.body), nil
		}
		return respond(http.StatusNotFound, "", nil), nil
	})}
}

type staticTokens string

func (s staticTokens) AccessToken(ctx context.Context) (string, error) { return string(s), nil }

type fakeObjects map[string][]byte

func (f fakeObjects) ReadURI(ctx context.Context, uri string) ([]byte, error) {
	data, ok := f[uri]
	if !ok {
		return nil, apierr.Storage("no such object "+uri, nil)
	}
	return data, nil
}

// fakeDB implements the profile, hologram and job stores.
type fakeDB struct {
	mu         sync.Mutex
	profiles   map[uuid.UUID]*models.Profile
	deductErr  error
	ledger     []string
	holograms  []models.Hologram
	jobs       map[string]*models.GenerationJob
	succeeded  map[uuid.UUID]string
	failed     map[uuid.UUID]string
	deductions int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		profiles:  map[uuid.UUID]*models.Profile{},
		jobs:      map[string]*models.GenerationJob{},
		succeeded: map[uuid.UUID]string{},
		failed:    map[uuid.UUID]string{},
	}
}

func (f *fakeDB) addProfile(credit int) uuid.UUID {
	id := uuid.New()
	f.profiles[id] = &models.Profile{ID: id, Nickname: "neo", Credit: credit}
	return id
}

func (f *fakeDB) credit(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[id].Credit
}

func (f *fakeDB) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeDB) DeductCredit(ctx context.Context, userID uuid.UUID, amount int, reference string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deductions++
	if f.deductErr != nil {
		return 0, f.deductErr
	}
	p := f.profiles[userID]
	if reference != "" && slices.Contains(f.ledger, models.LedgerStatusCharged+":"+reference) {
		return p.Credit, nil
	}
	if p == nil || p.Credit < amount {
		return 0, supabase.ErrInsufficientCredit
	}
	p.Credit -= amount
	f.ledger = append(f.ledger, models.LedgerStatusCharged+":"+reference)
	return p.Credit, nil
}

func (f *fakeDB) RecordUnreconciledCharge(ctx context.Context, userID uuid.UUID, amount int, reference, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ledger = append(f.ledger, models.LedgerStatusUnreconciled+":"+reference)
	return nil
}

func (f *fakeDB) CreateHologram(ctx context.Context, h *models.Hologram) (*models.Hologram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holograms = append(f.holograms, *h)
	return h, nil
}

func (f *fakeDB) CreateJob(ctx context.Context, job *models.GenerationJob) (*models.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	cp := *job
	f.jobs[job.OperationName] = &cp
	return job, nil
}

func (f *fakeDB) GetJobByOperation(ctx context.Context, operationName string) (*models.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[operationName]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (f *fakeDB) ListPendingJobs(ctx context.Context, limit int) ([]models.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.GenerationJob
	for _, j := range f.jobs {
		if j.Pending() {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeDB) jobByID(id uuid.UUID) *models.GenerationJob {
	for _, j := range f.jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func (f *fakeDB) IncrementJobPolls(ctx context.Context, jobID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := f.jobByID(jobID)
	if !j.Pending() {
		return 0, supabase.ErrNotFound
	}
	j.Polls++
	j.Status = models.JobStatusProcessing
	return j.Polls, nil
}

func (f *fakeDB) ClaimJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := f.jobByID(jobID)
	if !j.Pending() {
		return false, nil
	}
	j.Status = models.JobStatusMaterializing
	return true, nil
}

func (f *fakeDB) MarkJobSucceeded(ctx context.Context, jobID uuid.UUID, videoURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := f.jobByID(jobID)
	j.Status = models.JobStatusSucceeded
	f.succeeded[jobID] = videoURL
	return nil
}

func (f *fakeDB) MarkJobFailed(ctx context.Context, jobID uuid.UUID, status, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := f.jobByID(jobID)
	j.Status = status
	f.failed[jobID] = status + ": " + message
	return nil
}

type fakeReplicate struct {
	mu     sync.Mutex
	calls  int
	inputs []replicate.VideoInput
	url    string
	err    error
}

func (f *fakeReplicate) GenerateVideo(ctx context.Context, in replicate.VideoInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.inputs = append(f.inputs, in)
	return f.url, f.err
}

type fakeVeo struct {
	mu        sync.Mutex
	submitted []vertex.GenerateRequest
	result    vertex.Result
	waitErr   error
	ops       map[string]*vertex.Operation
	fetchErr  error
	fetches   int
}

func (f *fakeVeo) Submit(ctx context.Context, req vertex.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	return "projects/p/locations/us-central1/publishers/google/models/veo/operations/op-1", nil
}

func (f *fakeVeo) Wait(ctx context.Context, operationName string) (vertex.Result, error) {
	return f.result, f.waitErr
}

func (f *fakeVeo) FetchOperation(ctx context.Context, operationName string) (*vertex.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	op, ok := f.ops[operationName]
	if !ok {
		return &vertex.Operation{Name: operationName}, nil
	}
	return op, nil
}

func (f *fakeVeo) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

type recordedEvent struct {
	UserID  uuid.UUID
	Event   string
	Payload map[string]interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) PublishJobEvent(ctx context.Context, userID uuid.UUID, event string, payload map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{userID, event, payload})
	return nil
}
