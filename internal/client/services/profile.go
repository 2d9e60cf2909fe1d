package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/logging"
)

// EditorState is the lifecycle state of a ProfileEditor.
type EditorState int

const (
	StateLoading EditorState = iota
	StateEditing
	StateSubmitting
	StateSaved
	StateFailed
)

func (s EditorState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("EditorState(%d)", int(s))
	}
}

// ProfileEditor holds the signed-in user's profile while it is edited.
//
// Edits apply to the in-memory record at once. Submit sends a snapshot; the
// record is replaced by the server's copy only when the request succeeds,
// so a failed submission leaves every local edit in place. Saved and Failed
// fall back to Editing on the next edit or submission.
type ProfileEditor struct {
	client client.Client
	logger logging.Logger

	mu      sync.Mutex
	state   EditorState
	loaded  bool
	profile *models.Profile
	lastErr error
}

func NewProfileEditor(c client.Client, logger logging.Logger) *ProfileEditor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ProfileEditor{client: c, logger: logger, state: StateLoading, profile: emptyProfile()}
}

func emptyProfile() *models.Profile {
	p := &models.Profile{}
	p.Normalize()
	return p
}

// Load fetches the profile. With no profile on the server the editor starts
// from an empty record without id, so the first Submit creates it. A failed
// Load drops whatever record was held before.
func (e *ProfileEditor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateSubmitting {
		e.mu.Unlock()
		return ErrSubmitting
	}
	e.state = StateLoading
	e.mu.Unlock()

	profiles, err := e.client.FetchProfiles(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateFailed
		e.lastErr = err
		e.loaded = false
		e.profile = emptyProfile()
		e.logger.Warn(ctx, "profile load failed", "error", err)
		return err
	}

	p := emptyProfile()
	if len(profiles) > 0 {
		p = profiles[0].Clone()
		p.Normalize()
	}
	e.profile = p
	e.loaded = true
	e.lastErr = nil
	e.state = StateEditing
	return nil
}

func (e *ProfileEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Loaded reports whether a Load has succeeded.
func (e *ProfileEditor) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// LastError is the error of the last failed Load or Submit.
func (e *ProfileEditor) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Profile returns a copy of the record being edited.
func (e *ProfileEditor) Profile() models.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.profile.Clone()
}

// edit runs fn on the record once the editor accepts edits.
func (e *ProfileEditor) edit(fn func(p *models.Profile) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.state == StateSubmitting:
		return ErrSubmitting
	case !e.loaded:
		return ErrNotLoaded
	}
	if err := fn(e.profile); err != nil {
		return err
	}
	e.state = StateEditing
	return nil
}

// SetField sets one of the text fields (see models.ScalarFields).
func (e *ProfileEditor) SetField(name, value string) error {
	return e.edit(func(p *models.Profile) error {
		if !p.SetScalar(name, value) {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		return nil
	})
}

func (e *ProfileEditor) AddEducation(ed models.Education) error {
	return e.edit(func(p *models.Profile) error {
		p.Educations = append(p.Educations, ed)
		return nil
	})
}

func (e *ProfileEditor) AddExperience(ex models.Experience) error {
	return e.edit(func(p *models.Profile) error {
		p.Experiences = append(p.Experiences, ex)
		return nil
	})
}

// AttachFile selects a local file for profile_photo or resume. It replaces
// the stored URL only once the profile is saved.
func (e *ProfileEditor) AttachFile(field string, f *models.LocalFile) error {
	if f == nil {
		return ErrNoFile
	}
	return e.edit(func(p *models.Profile) error {
		switch field {
		case models.FieldProfilePhoto:
			p.ProfilePhoto = models.LocalAttachment(f)
		case models.FieldResume:
			p.Resume = models.LocalAttachment(f)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return nil
	})
}

// Submit saves the record: an update of its id if it has one, a create
// otherwise. The id assigned on create is kept so the next Submit updates.
func (e *ProfileEditor) Submit(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.state == StateSubmitting:
		e.mu.Unlock()
		return ErrSubmitting
	case !e.loaded:
		e.mu.Unlock()
		return ErrNotLoaded
	}
	snapshot := e.profile.Clone()
	e.state = StateSubmitting
	e.mu.Unlock()

	saved, err := e.send(ctx, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateFailed
		e.lastErr = err
		e.logger.Warn(ctx, "profile submit failed", "error", err)
		return err
	}

	if saved == nil || !saved.HasID() {
		// Nothing to reconcile with; keep the snapshot as the saved state.
		saved = snapshot
	}
	saved.Normalize()
	e.profile = saved
	e.lastErr = nil
	e.state = StateSaved
	return nil
}

func (e *ProfileEditor) send(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	body, err := BuildPayload(p)
	if err != nil {
		return nil, err
	}
	if p.HasID() {
		return e.client.UpdateProfile(ctx, p.ID, body)
	}
	return e.client.CreateProfile(ctx, body)
}

// BuildPayload serializes a profile for submission: text fields as separate
// parts in a fixed order, educations and experiences as JSON strings, and
// a file part only for attachments holding a newly selected local file.
// Attachments that still point to a stored URL are left out entirely.
func BuildPayload(p *models.Profile) (*client.Multipart, error) {
	body := client.NewMultipart()
	for _, name := range models.ScalarFields {
		v, _ := p.Scalar(name)
		body.AddField(name, v)
	}

	educations := p.Educations
	if educations == nil {
		educations = []models.Education{}
	}
	if err := body.AddJSON(models.FieldEducations, educations); err != nil {
		return nil, err
	}
	experiences := p.Experiences
	if experiences == nil {
		experiences = []models.Experience{}
	}
	if err := body.AddJSON(models.FieldExperiences, experiences); err != nil {
		return nil, err
	}

	if f, ok := p.ProfilePhoto.File(); ok {
		body.AddFile(models.FieldProfilePhoto, f)
	}
	if f, ok := p.Resume.File(); ok {
		body.AddFile(models.FieldResume, f)
	}
	return body, nil
}
