package culturelog

import (
	"context"

	"github.com/w-h-a/culturelog/blob"
	"github.com/w-h-a/culturelog/culture"
	"github.com/w-h-a/culturelog/identity"
	"github.com/w-h-a/culturelog/internal/service/form"
	"github.com/w-h-a/culturelog/internal/service/records"
	"github.com/w-h-a/culturelog/media"
	"github.com/w-h-a/culturelog/store"
)

// App is the explicitly constructed client context: every handle the system
// needs is wired here once, nothing is ambient.
type App struct {
	records  *records.Service
	identity identity.Identity
}

func (a *App) SignIn(ctx context.Context) (culture.User, error) {
	return a.identity.SignInInteractive(ctx)
}

func (a *App) SignOut(ctx context.Context) error {
	return a.identity.SignOut(ctx)
}

func (a *App) CurrentUser(ctx context.Context) (culture.User, bool) {
	return a.identity.CurrentUser(ctx)
}

func (a *App) OnAuthChange(fn func(user culture.User, signedIn bool)) {
	a.identity.OnAuthChange(fn)
}

func (a *App) VerifyToken(ctx context.Context, token string) (culture.User, error) {
	return a.identity.Verify(ctx, token)
}

func (a *App) Load(ctx context.Context, ownerId string) error {
	return a.records.Load(ctx, ownerId)
}

func (a *App) Logs(ownerId string) []culture.Record {
	return a.records.Snapshot(ownerId)
}

func (a *App) Filter(ownerId string, keyword string) []culture.Record {
	return a.records.Filter(ownerId, keyword)
}

func (a *App) Create(ctx context.Context, ownerId string, input records.Input, file *media.File) error {
	return a.records.Create(ctx, ownerId, input, file)
}

func (a *App) Update(ctx context.Context, id string, input records.Input, file *media.File) error {
	return a.records.Update(ctx, id, input, file)
}

func (a *App) Delete(ctx context.Context, id string) error {
	return a.records.Delete(ctx, id)
}

// NewForm returns a fresh form instance bound to the record service. Each
// form holds at most one draft at a time.
func (a *App) NewForm() *form.Form {
	return form.New(a.records)
}

func New(
	st store.Store,
	blobs blob.Blob,
	id identity.Identity,
	convert media.Converter,
	confirm records.Confirm,
) *App {
	if id == nil {
		panic("identity provider is required")
	}

	recs := records.New(
		st,
		blobs,
		convert,
		confirm,
	)

	app := &App{
		records:  recs,
		identity: id,
	}

	return app
}
