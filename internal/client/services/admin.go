package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/socrp/internal/client/client"
	"github.com/dmitrijs2005/socrp/internal/client/models"
	"github.com/dmitrijs2005/socrp/internal/client/session"
	"github.com/dmitrijs2005/socrp/internal/common"
	"github.com/dmitrijs2005/socrp/internal/logging"
	"golang.org/x/sync/errgroup"
)

// AdminView is the admin back-office: dashboard stats, the user table with
// search and status filter, user detail, block toggling and user edits.
//
// Every navigation starts a new epoch. A request started under an older
// epoch whose purpose was to render a screen is dropped with
// ErrStaleResponse when it completes. Cached data is replaced wholesale by
// fresh server data after mutations.
type AdminView struct {
	client client.Client
	store  session.Store
	logger logging.Logger

	mu      sync.Mutex
	view    View
	epoch   uint64
	loading bool
	stats   *models.DashboardStats
	users   []models.User
	query   string
	status  StatusFilter
}

func NewAdminView(c client.Client, store session.Store, logger logging.Logger) *AdminView {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AdminView{
		client: c,
		store:  store,
		logger: logger,
		view:   DashboardView(),
		status: StatusAll,
		users:  []models.User{},
	}
}

// navigateLocked switches the screen and invalidates requests in flight.
func (a *AdminView) navigateLocked(v View) uint64 {
	a.epoch++
	a.view = v
	a.loading = false
	return a.epoch
}

func (a *AdminView) Navigate(v View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.navigateLocked(v)
}

func (a *AdminView) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *AdminView) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Stats returns the last loaded dashboard stats.
func (a *AdminView) Stats() (models.DashboardStats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stats == nil {
		return models.DashboardStats{}, false
	}
	return *a.stats, true
}

// Users returns a copy of the cached user table in server order.
func (a *AdminView) Users() []models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.User{}, a.users...)
}

func (a *AdminView) SetQuery(q string) {
	a.mu.Lock()
	a.query = q
	a.mu.Unlock()
}

func (a *AdminView) SetStatus(s StatusFilter) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// Visible is the cached table after search and status filtering.
func (a *AdminView) Visible() []models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Filter(a.users, a.query, a.status)
}

func (a *AdminView) fetchAll(ctx context.Context) (*models.DashboardStats, []models.User, error) {
	var (
		stats *models.DashboardStats
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = a.client.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = a.client.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return stats, users, nil
}

// LoadAll fetches stats and the user table in parallel. Either failing fails
// the whole load and leaves the previous data untouched.
func (a *AdminView) LoadAll(ctx context.Context) error {
	a.mu.Lock()
	epoch := a.epoch
	a.loading = true
	a.mu.Unlock()

	stats, users, err := a.fetchAll(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.epoch != epoch {
		return ErrStaleResponse
	}
	a.loading = false
	if err != nil {
		a.logger.Warn(ctx, "dashboard load failed", "error", err)
		return err
	}
	a.stats = stats
	a.users = users
	return nil
}

// ViewUser opens the detail screen of user id.
func (a *AdminView) ViewUser(ctx context.Context, id int64) error {
	a.mu.Lock()
	epoch := a.epoch + 1
	a.epoch = epoch
	a.loading = true
	a.mu.Unlock()

	u, err := a.client.UserDetail(ctx, id)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.epoch != epoch {
		return ErrStaleResponse
	}
	a.loading = false
	if err != nil {
		return err
	}
	a.navigateLocked(UserProfileView(*u))
	return nil
}

// EditUserPage opens the edit form of user id. The record comes from the
// open detail screen when it shows that user, else from the cached table.
func (a *AdminView) EditUserPage(id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if u, ok := a.view.User(); ok && u.ID == id {
		a.navigateLocked(EditUserView(u))
		return nil
	}
	for _, u := range a.users {
		if u.ID == id {
			a.navigateLocked(EditUserView(u))
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUserNotFound, id)
}

// ToggleBlock unblocks the user if currentlyBlocked, blocks it otherwise,
// then marks the cached record (and the open detail screen) accordingly and
// refreshes the stats. A failed stats refresh is only logged.
func (a *AdminView) ToggleBlock(ctx context.Context, id int64, currentlyBlocked bool) (string, error) {
	var (
		msg string
		err error
	)
	if currentlyBlocked {
		msg, err = a.client.Unblock(ctx, id)
	} else {
		msg, err = a.client.Block(ctx, id)
	}
	if err != nil {
		return "", err
	}

	blocked := !currentlyBlocked
	a.mu.Lock()
	for i := range a.users {
		if a.users[i].ID == id {
			a.users[i].IsBlocked = blocked
		}
	}
	if a.view.shows(id) {
		u := *a.view.user
		u.IsBlocked = blocked
		a.view.user = &u
	}
	a.mu.Unlock()

	stats, err := a.client.Stats(ctx)
	if err != nil {
		a.logger.Warn(ctx, "stats refresh after moderation failed", "user_id", id, "error", err)
		return msg, nil
	}
	a.mu.Lock()
	a.stats = stats
	a.mu.Unlock()
	return msg, nil
}

// SubmitEdit saves an edit made on the edit screen of user id. On success
// the table and stats are reloaded and the dashboard is shown; on failure
// the edit screen stays open.
func (a *AdminView) SubmitEdit(ctx context.Context, id int64, patch models.UserPatch) error {
	a.mu.Lock()
	if a.view.Kind() != ViewEditUser || !a.view.shows(id) {
		a.mu.Unlock()
		return ErrWrongView
	}
	epoch := a.epoch
	a.mu.Unlock()

	if _, err := a.client.EditUser(ctx, id, patch); err != nil {
		return err
	}

	stats, users, err := a.fetchAll(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.logger.Warn(ctx, "reload after user edit failed", "user_id", id, "error", err)
	} else {
		a.stats = stats
		a.users = users
	}
	if a.epoch != epoch {
		return nil
	}
	a.navigateLocked(DashboardView())
	return nil
}

// Logout forgets the admin token and cached data.
func (a *AdminView) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx, session.RoleAdmin); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats = nil
	a.users = []models.User{}
	a.navigateLocked(signedOutView(common.AdminEntryPoint))
	return nil
}
