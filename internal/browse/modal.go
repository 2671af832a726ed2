package browse

import (
	"context"
	"errors"
	"sync"

	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
)

const (
	FailedToLoad    = "Failed to load files"
	ErrorLoadingFmt = "Error loading files: "
)

// Source is what the modal needs from the portal client.
type Source interface {
	ListFiles(ctx context.Context) ([]models.DatasetRecord, error)
	DownloadURL(fileID string) string
}

// Target is where a click inside the overlay landed.
type Target int

const (
	TargetBackdrop Target = iota
	TargetPanel
	TargetClose
)

// Ticket identifies one open request.
type Ticket uint64

// Result is the outcome of a fetch, tagged with the ticket that started it.
type Result struct {
	Ticket Ticket
	Cards  []Card
	Err    error
}

// Modal is the browse overlay. It is safe for concurrent use.
type Modal struct {
	mu       sync.Mutex
	source   Source
	gen      Ticket
	loading  bool
	open     bool
	cards    []Card
	selected int
}

func NewModal(source Source) *Modal {
	return &Modal{source: source}
}

// Begin starts a new open request and invalidates any earlier one.
func (m *Modal) Begin() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.loading = true
	return m.gen
}

// Fetch lists the datasets for ticket t. It does not touch modal state and may run on any goroutine.
func (m *Modal) Fetch(ctx context.Context, t Ticket) Result {
	records, err := m.source.ListFiles(ctx)
	if err != nil {
		return Result{Ticket: t, Err: err}
	}
	return Result{Ticket: t, Cards: BuildCards(records, m.source.DownloadURL)}
}

// Apply shows a fetched listing. A stale result is ignored and reports applied as false.
func (m *Modal) Apply(r Result) (models.Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.Ticket != m.gen {
		return models.Status{}, false
	}
	m.loading = false

	if r.Err != nil {
		m.open = false
		m.cards = nil
		return LoadStatus(r.Err), true
	}

	m.open = true
	m.cards = r.Cards
	m.selected = 0
	return models.Status{}, true
}

// Open fetches and shows the listing in one call.
func (m *Modal) Open(ctx context.Context) (models.Status, error) {
	t := m.Begin()
	r := m.Fetch(ctx, t)
	st, _ := m.Apply(r)
	return st, r.Err
}

// Close discards the listing. Any request still in flight is invalidated.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.loading = false
	m.open = false
	m.cards = nil
	m.selected = 0
}

// Click closes the overlay unless the click landed in the content panel.
func (m *Modal) Click(target Target) bool {
	if target == TargetPanel {
		return false
	}
	if !m.IsOpen() {
		return false
	}
	m.Close()
	return true
}

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Modal) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Cards returns a copy of the shown cards.
func (m *Modal) Cards() []Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Card(nil), m.cards...)
}

// Empty reports an open modal with no records, which renders [NoDatasets].
func (m *Modal) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open && len(m.cards) == 0
}

// MoveSelection moves the cursor by delta, clamped to the card list.
func (m *Modal) MoveSelection(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.cards) == 0 {
		return
	}
	m.selected = min(max(m.selected+delta, 0), len(m.cards)-1)
}

func (m *Modal) SelectedIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Selected returns the card under the cursor.
func (m *Modal) Selected() (Card, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open || len(m.cards) == 0 {
		return Card{}, false
	}
	return m.cards[m.selected], true
}

// LoadStatus maps a listing failure to the message shown to the user.
//
// A non-OK response reads as a generic failure; anything else carries the error text.
func LoadStatus(err error) models.Status {
	if errors.Is(err, shared.ErrAPIRequest) {
		return models.ErrorStatus(FailedToLoad)
	}
	return models.ErrorStatus(ErrorLoadingFmt + err.Error())
}
