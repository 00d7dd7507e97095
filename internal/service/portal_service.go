package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/models"
)

type competitionLister interface {
	List(ctx context.Context, spec filter.Spec) ([]models.Competition, error)
	Create(ctx context.Context, form models.CompetitionFormData, createdBy string) (*SaveResult, error)
	Update(ctx context.Context, id string, form models.CompetitionFormData) (*SaveResult, error)
}

// PortalService coordinates the admin list/detail view: the loaded record
// set, the visible (filtered) subset, the current selection and the
// create-new mode. Filter changes recompute the visible set synchronously
// from records already in hand, then schedule a debounced remote refresh.
type PortalService struct {
	competitions competitionLister
	logger       *zap.Logger
	debounce     time.Duration

	mu          sync.Mutex
	records     []models.Competition
	visible     []models.Competition
	spec        filter.Spec
	selectedID  string
	creatingNew bool
	generation  uint64
	timer       *time.Timer
}

// NewPortalService constructs the coordinator.
func NewPortalService(competitions competitionLister, debounce time.Duration, logger *zap.Logger) *PortalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalService{competitions: competitions, debounce: debounce, logger: logger}
}

// Load fetches the full record set and selects the first record, or enters
// create-new mode when there are none.
func (p *PortalService) Load(ctx context.Context) error {
	records, err := p.competitions.List(ctx, filter.Spec{})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.records = records
	p.visible = p.spec.Apply(records)
	if len(p.records) == 0 {
		p.selectedID = ""
		p.creatingNew = true
	} else {
		p.creatingNew = false
		if !p.selectionVisibleLocked() {
			p.selectFirstVisibleLocked()
		}
	}
	return nil
}

// SetFilter applies a new filter. The visible set updates immediately from
// the records already loaded; a remote refresh against the new filter is
// debounced, and refreshes that return after a newer change are discarded.
func (p *PortalService) SetFilter(ctx context.Context, spec filter.Spec) {
	p.mu.Lock()
	p.spec = spec
	p.visible = spec.Apply(p.records)
	if !p.creatingNew && !p.selectionVisibleLocked() {
		p.selectFirstVisibleLocked()
	}
	p.generation++
	generation := p.generation
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	debounce := p.debounce
	p.mu.Unlock()

	if debounce <= 0 {
		p.refresh(ctx, spec, generation)
		return
	}

	p.mu.Lock()
	p.timer = time.AfterFunc(debounce, func() {
		p.refresh(ctx, spec, generation)
	})
	p.mu.Unlock()
}

// refresh re-queries the remote for the given filter and swaps in the result
// unless a newer filter change has superseded this one.
func (p *PortalService) refresh(ctx context.Context, spec filter.Spec, generation uint64) {
	records, err := p.competitions.List(ctx, spec)
	if err != nil {
		p.logger.Warn("debounced listing refresh failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != generation {
		return
	}
	// The remote already evaluated the filter; these rows are the visible set.
	p.visible = records
	if spec.IsZero() {
		p.records = records
	}
	if !p.creatingNew && !p.selectionVisibleLocked() {
		p.selectFirstVisibleLocked()
	}
}

// Select switches the detail pane to the given record, leaving create mode.
func (p *PortalService) Select(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, rec := range p.visible {
		if rec.ID == id {
			p.selectedID = id
			p.creatingNew = false
			return true
		}
	}
	return false
}

// StartCreate enters create-new mode, clearing the selection.
func (p *PortalService) StartCreate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creatingNew = true
	p.selectedID = ""
}

// Save persists the form: an update when a record is selected, a create in
// create-new mode. On success the record set is refetched and the saved
// record selected.
func (p *PortalService) Save(ctx context.Context, form models.CompetitionFormData, actor string) (*SaveResult, error) {
	p.mu.Lock()
	selectedID := p.selectedID
	creating := p.creatingNew
	p.mu.Unlock()

	var result *SaveResult
	var err error
	if creating || selectedID == "" {
		result, err = p.competitions.Create(ctx, form, actor)
	} else {
		result, err = p.competitions.Update(ctx, selectedID, form)
	}
	if err != nil {
		return nil, err
	}

	if loadErr := p.Load(ctx); loadErr != nil {
		p.logger.Warn("reload after save failed", zap.Error(loadErr))
	}

	p.mu.Lock()
	p.creatingNew = false
	p.selectedID = result.Competition.ID
	p.mu.Unlock()
	return result, nil
}

// Cancel leaves create-new mode or abandons edits, reverting the selection
// to the first visible record when one exists.
func (p *PortalService) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creatingNew = false
	if !p.selectionVisibleLocked() {
		p.selectFirstVisibleLocked()
	}
}

// Visible returns a copy of the currently visible records.
func (p *PortalService) Visible() []models.Competition {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Competition, len(p.visible))
	copy(out, p.visible)
	return out
}

// Selected returns the selected record, or nil in create-new mode or when
// nothing is selected.
func (p *PortalService) Selected() *models.Competition {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.creatingNew || p.selectedID == "" {
		return nil
	}
	for i := range p.visible {
		if p.visible[i].ID == p.selectedID {
			rec := p.visible[i]
			return &rec
		}
	}
	return nil
}

// CreatingNew reports whether the detail pane shows a blank form.
func (p *PortalService) CreatingNew() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creatingNew
}

// Filter returns the active filter.
func (p *PortalService) Filter() filter.Spec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spec
}

func (p *PortalService) selectionVisibleLocked() bool {
	if p.selectedID == "" {
		return false
	}
	for _, rec := range p.visible {
		if rec.ID == p.selectedID {
			return true
		}
	}
	return false
}

func (p *PortalService) selectFirstVisibleLocked() {
	if len(p.visible) > 0 {
		p.selectedID = p.visible[0].ID
	} else {
		p.selectedID = ""
	}
}
