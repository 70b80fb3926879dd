package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dyluth/catalog/internal/clock"
	"github.com/dyluth/catalog/internal/notify"
	"github.com/dyluth/catalog/pkg/catalog"
	"github.com/stretchr/testify/require"
)

// testStart is the manual clock start; release dates on or after its day are valid.
var testStart = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

// fakeService records calls. When gate is set, create and update block until
// it is closed or the context is cancelled.
type fakeService struct {
	mu sync.Mutex

	createCalls int
	updateCalls int
	existsCalls int

	created []*catalog.Product
	updates map[string]*catalog.ProductPatch

	createErr error
	updateErr error
	existsErr error
	taken     map[string]bool

	gate       chan struct{}
	existsGate chan struct{}
}

func newFakeService() *fakeService {
	return &fakeService{
		updates: make(map[string]*catalog.ProductPatch),
		taken:   make(map[string]bool),
	}
}

func (f *fakeService) wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeService) CreateProduct(ctx context.Context, p *catalog.Product) error {
	f.mu.Lock()
	f.createCalls++
	gate := f.gate
	f.mu.Unlock()

	if err := f.wait(ctx, gate); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *p
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeService) UpdateProduct(ctx context.Context, id string, patch *catalog.ProductPatch) error {
	f.mu.Lock()
	f.updateCalls++
	gate := f.gate
	f.mu.Unlock()

	if err := f.wait(ctx, gate); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates[id] = patch
	return nil
}

func (f *fakeService) ProductExists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	f.existsCalls++
	gate := f.existsGate
	f.mu.Unlock()

	if err := f.wait(ctx, gate); err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.taken[id], nil
}

func (f *fakeService) calls() (create, update, exists int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.updateCalls, f.existsCalls
}

type fakeNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNavigator) GoTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type harness struct {
	clock   *clock.Manual
	service *fakeService
	queue   *notify.Queue
	nav     *fakeNavigator
	session *Session
}

func newHarness(t *testing.T, record *catalog.Product, mods ...func(*Deps)) *harness {
	t.Helper()

	h := &harness{
		clock:   clock.NewManual(testStart),
		service: newFakeService(),
		nav:     &fakeNavigator{},
	}
	h.queue = notify.NewQueue(notify.WithClock(h.clock))

	deps := Deps{
		Service:   h.service,
		Notifier:  h.queue,
		Navigator: h.nav,
		Clock:     h.clock,
		Location:  time.UTC,

		CheckDebounce: 300 * time.Millisecond,
	}
	for _, mod := range mods {
		mod(&deps)
	}

	session, err := NewSession(deps, record)
	require.NoError(t, err)
	h.session = session

	t.Cleanup(func() {
		session.Close()
		h.queue.Close()
	})
	return h
}

// fill sets every field to a valid value.
func (h *harness) fill(t *testing.T) {
	t.Helper()
	values := validValues()
	for _, f := range Fields {
		if f == FieldID && h.session.Mode() == ModeEdit {
			continue
		}
		require.NoError(t, h.session.Change(f, values[f]))
	}
}

func (h *harness) messages(severity catalog.Severity) []string {
	var out []string
	for _, n := range h.queue.Live() {
		if n.Severity == severity {
			out = append(out, n.Message)
		}
	}
	return out
}

func validValues() Values {
	return Values{
		FieldID:           "abc123",
		FieldName:         "Credit Card",
		FieldDescription:  "A card for everyday purchases",
		FieldLogo:         "https://example.com/logo.png",
		FieldReleaseDate:  "2026-10-20",
		FieldRevisionDate: "2027-10-20",
	}
}

func existingProduct() *catalog.Product {
	return &catalog.Product{
		ID:           "trj-crd",
		Name:         "Credit Card",
		Description:  "A card for everyday purchases",
		Logo:         "https://example.com/logo.png",
		DateRelease:  "2026-11-01T00:00:00.000+00:00",
		DateRevision: "2027-11-01",
	}
}

var errTransport = errors.New("connection refused")

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async result")
	}
}
