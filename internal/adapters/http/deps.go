package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/litterbugs/internal/adapters/objectstore"
	"github.com/samirrijal/litterbugs/internal/adapters/postgres"
	"github.com/samirrijal/litterbugs/internal/adapters/valkey"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Profiles *usecases.ProfileService
	Sessions *usecases.SessionService
	Routes   *usecases.RouteService
	Meetups  *usecases.MeetupService
	Photos   *usecases.PhotoService // nil when object storage is not configured
	Accounts *usecases.AccountService
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
	Store    *objectstore.Store
}
