// Package flow implements click-to-create: a map click opens a draft,
// the user fills it in, and submission either lands the new location in the
// catalog or returns to the draft with the reasons it was refused.
package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/placemark/internal/client/models"
	"github.com/dmitrijs2005/placemark/internal/client/token"
	"github.com/dmitrijs2005/placemark/internal/logging"
)

type State int

const (
	Idle State = iota
	Drafting
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drafting:
		return "drafting"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	ErrMustAuthenticate = errors.New("only signed-in users can add locations")
	ErrSubmitInProgress = errors.New("submission in progress")
	ErrNoDraft          = errors.New("no location draft; click the map first")
)

// Guard is the part of the session the flow depends on.
type Guard interface {
	Authenticated(ctx context.Context) bool
	EnsureFresh(ctx context.Context) (token.Credential, error)
}

// Creator posts new locations and owner details.
type Creator interface {
	CreateLocation(ctx context.Context, raw string, req models.CreateLocationRequest) (models.Location, error)
	SubmitOwnerInfo(ctx context.Context, raw string, info models.OwnerInfo) error
}

// Inserter receives locations created by the flow.
type Inserter interface {
	Insert(ctx context.Context, rec models.Location)
}

// Flow holds at most one draft. It is safe for concurrent use and never
// holds its lock across a network call.
type Flow struct {
	guard   Guard
	api     Creator
	catalog Inserter
	log     logging.Logger
	now     func() time.Time

	mu    sync.Mutex
	state State
	draft *models.Draft
	errs  []string
}

func New(guard Guard, api Creator, catalog Inserter, log logging.Logger) *Flow {
	return &Flow{
		guard:   guard,
		api:     api,
		catalog: catalog,
		log:     log.With("component", "flow"),
		now:     time.Now,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the current draft.
func (f *Flow) Draft() (models.Draft, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return models.Draft{}, false
	}
	return *f.draft, true
}

// Errors returns the messages of the last refused submission.
func (f *Flow) Errors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errs...)
}

// Click opens a draft at the given position, or moves the open draft there.
func (f *Flow) Click(ctx context.Context, lat, lng float64) error {
	if f.State() == Submitting {
		return ErrSubmitInProgress
	}
	if !f.guard.Authenticated(ctx) {
		f.log.Debug(ctx, "click ignored, not signed in")
		return ErrMustAuthenticate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case Submitting:
		return ErrSubmitInProgress
	case Drafting:
		f.draft.Latitude, f.draft.Longitude = lat, lng
	default:
		f.draft = models.NewDraft(lat, lng)
		f.state = Drafting
		f.errs = nil
	}
	f.log.Debug(ctx, "drafting", "draft", f.draft.ID, "lat", lat, "lng", lng)
	return nil
}

// Edit applies fn to the open draft.
func (f *Flow) Edit(fn func(d *models.Draft) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return err
	}
	return fn(f.draft)
}

func (f *Flow) SetField(name, value string) error {
	return f.Edit(func(d *models.Draft) error { return d.SetField(name, value) })
}

// ToggleOwnerDetails shows or hides the owner sub-form and returns the new
// visibility. Hidden owner fields are kept but not submitted.
func (f *Flow) ToggleOwnerDetails() (bool, error) {
	var visible bool
	err := f.Edit(func(d *models.Draft) error {
		d.OwnerVisible = !d.OwnerVisible
		visible = d.OwnerVisible
		return nil
	})
	return visible, err
}

func (f *Flow) editable() error {
	switch f.state {
	case Drafting:
		return nil
	case Submitting:
		return ErrSubmitInProgress
	default:
		return ErrNoDraft
	}
}

// Submit validates the draft locally, then creates it on the server with a
// fresh credential. On success the flow returns to Idle and the server's
// record is added to the catalog. On any failure the draft is kept as is
// and the flow returns to Drafting.
func (f *Flow) Submit(ctx context.Context) (models.Location, error) {
	f.mu.Lock()
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return models.Location{}, err
	}
	req, err := f.draft.Request(f.now())
	if err != nil {
		f.errs = messages(err)
		f.mu.Unlock()
		return models.Location{}, err
	}
	f.state = Submitting
	f.errs = nil
	id := f.draft.ID
	f.mu.Unlock()

	f.log.Debug(ctx, "submitting", "draft", id)

	cred, err := f.guard.EnsureFresh(ctx)
	if err != nil {
		return models.Location{}, f.backToDraft(ctx, err)
	}

	rec, err := f.api.CreateLocation(ctx, cred.Raw, req)
	if err != nil {
		return models.Location{}, f.backToDraft(ctx, err)
	}

	f.mu.Lock()
	f.state = Idle
	f.draft = nil
	f.mu.Unlock()

	f.catalog.Insert(ctx, rec)
	f.log.Info(ctx, "location created", "id", rec.ID, "name", rec.Name)
	return rec, nil
}

func (f *Flow) backToDraft(ctx context.Context, err error) error {
	f.mu.Lock()
	f.state = Drafting
	f.errs = messages(err)
	f.mu.Unlock()

	f.log.Info(ctx, "submission refused", "error", err)
	return err
}

// Cancel discards the draft. A running submission cannot be cancelled.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Submitting {
		return ErrSubmitInProgress
	}
	f.state = Idle
	f.draft = nil
	f.errs = nil
	return nil
}

// SubmitOwnerInfo sends the owner sub-form on its own. The draft is not
// changed whatever the outcome.
func (f *Flow) SubmitOwnerInfo(ctx context.Context) error {
	f.mu.Lock()
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return err
	}
	if err := f.draft.ValidateOwner(); err != nil {
		f.errs = messages(err)
		f.mu.Unlock()
		return err
	}
	info := f.draft.Owner()
	f.mu.Unlock()

	cred, err := f.guard.EnsureFresh(ctx)
	if err == nil {
		err = f.api.SubmitOwnerInfo(ctx, cred.Raw, info)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.errs = messages(err)
		return err
	}
	f.errs = nil
	return nil
}

func messages(err error) []string {
	if ve, ok := models.IsValidation(err); ok {
		return append([]string(nil), ve.Messages...)
	}
	return []string{err.Error()}
}
