package client

import (
	"context"

	"github.com/dmitrijs2005/placemark/internal/client/models"
)

// Client is the REST API of the placemark server. raw is the bearer token;
// an empty raw sends the request anonymously where the endpoint allows it.
type Client interface {
	Refresh(ctx context.Context) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, form models.Registration) (string, error)
	DeleteAccount(ctx context.Context, raw string) error

	ListLocations(ctx context.Context, raw string) ([]models.Location, error)
	CreateLocation(ctx context.Context, raw string, req models.CreateLocationRequest) (models.Location, error)
	SubmitOwnerInfo(ctx context.Context, raw string, info models.OwnerInfo) error
}
