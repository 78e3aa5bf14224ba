package cli

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/client"
	"github.com/evcraddock/emprende-tacna/internal/geo"
	"github.com/evcraddock/emprende-tacna/internal/kv"
	"github.com/evcraddock/emprende-tacna/internal/maplayer"
	"github.com/evcraddock/emprende-tacna/internal/overlay"
	"github.com/evcraddock/emprende-tacna/internal/web"
)

// directory is what the commands act on: the local database or a server.
type directory interface {
	List(c business.Category) ([]*business.Business, error)
	Create(d business.Draft) (*business.Business, app.Notification, error)
	Details(id int64) (*app.Details, error)
	MarkVisited(id int64) (app.Notification, error)
	Featured(limit int) ([]*business.Business, error)
	Visited() ([]*business.Business, error)
	Stats() (business.Stats, error)
	Locate(ctx context.Context, req web.LocateRequest) (geo.Position, app.Notification, error)
	Close() error
}

// openDirectory returns a remote directory when a server URL is configured
// and the local database otherwise.
func openDirectory() (directory, error) {
	if url := getServerURL(); url != "" {
		return remoteDirectory{c: client.New(url, getAPIKey())}, nil
	}

	database, err := openDB()
	if err != nil {
		return nil, err
	}
	a := app.New(business.NewStore(kv.NewSQLite(database)), overlay.NewSync())
	a.Start(maplayer.New())
	return &localDirectory{app: a, db: database}, nil
}

type localDirectory struct {
	app *app.App
	db  *sql.DB
}

func (l *localDirectory) List(c business.Category) ([]*business.Business, error) {
	recs, _ := l.app.Filter(c)
	return recs, nil
}

func (l *localDirectory) Create(d business.Draft) (*business.Business, app.Notification, error) {
	return l.app.Submit(d)
}

func (l *localDirectory) Details(id int64) (*app.Details, error) {
	return l.app.Details(id)
}

func (l *localDirectory) MarkVisited(id int64) (app.Notification, error) {
	return l.app.MarkVisited(id)
}

func (l *localDirectory) Featured(limit int) ([]*business.Business, error) {
	recs, _ := l.app.Featured(limit)
	return recs, nil
}

func (l *localDirectory) Visited() ([]*business.Business, error) {
	recs, _ := l.app.VisitedPlaces()
	return recs, nil
}

func (l *localDirectory) Stats() (business.Stats, error) {
	return l.app.Stats(), nil
}

func (l *localDirectory) Locate(ctx context.Context, req web.LocateRequest) (geo.Position, app.Notification, error) {
	return l.app.Locate(ctx, req.Provider())
}

func (l *localDirectory) Close() error {
	return l.db.Close()
}

type remoteDirectory struct {
	c *client.Client
}

func (r remoteDirectory) List(c business.Category) ([]*business.Business, error) {
	return r.c.ListBusinesses(c)
}

func (r remoteDirectory) Create(d business.Draft) (*business.Business, app.Notification, error) {
	return r.c.CreateBusiness(d)
}

func (r remoteDirectory) Details(id int64) (*app.Details, error) {
	return r.c.GetBusiness(id)
}

// MarkVisited restores the warning notification the server sends as a 409.
func (r remoteDirectory) MarkVisited(id int64) (app.Notification, error) {
	n, err := r.c.MarkVisited(id)
	if errors.Is(err, business.ErrAlreadyVisited) {
		return app.Notification{Level: app.LevelWarning, Message: app.MsgAlreadyVisited}, err
	}
	return n, err
}

func (r remoteDirectory) Featured(limit int) ([]*business.Business, error) {
	return r.c.Featured(limit)
}

func (r remoteDirectory) Visited() ([]*business.Business, error) {
	return r.c.Visited()
}

func (r remoteDirectory) Stats() (business.Stats, error) {
	return r.c.Stats()
}

func (r remoteDirectory) Locate(_ context.Context, req web.LocateRequest) (geo.Position, app.Notification, error) {
	resp, err := r.c.Locate(req)
	if err != nil {
		var gerr *geo.Error
		if errors.As(err, &gerr) {
			return geo.Position{}, app.Notification{Level: app.LevelError, Message: gerr.Code.Message()}, err
		}
		return geo.Position{}, app.Notification{}, err
	}
	return resp.Position, resp.Notification, nil
}

func (r remoteDirectory) Close() error { return nil }
