// Package account is the user-center controller: avatar upload, password
// change, account deletion, and the per-city exploration statuses.
package account

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/minpaixinyu/minpai/internal/api"
	"github.com/minpaixinyu/minpai/internal/city"
)

// MaxAvatarSize mirrors the server-side 2MB cap so oversized files fail
// before the upload starts.
const MaxAvatarSize = 2 << 20

// allowedAvatarExts are the image types the backend accepts.
var allowedAvatarExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	Old     string `validate:"required"`
	New     string `validate:"required,min=6,nefield=Old"`
	Confirm string `validate:"required,eqfield=New"`
}

// CityStatus is one row of the explored-cities list.
type CityStatus struct {
	Name     string
	Explored bool
}

// Controller runs the user-center actions against the backend.
type Controller struct {
	client   *api.Client
	validate *validator.Validate
}

// New creates the controller.
func New(client *api.Client) *Controller {
	return &Controller{client: client, validate: validator.New()}
}

// ExploredList resolves every interactive city to its explored status,
// accepting either display or stored-form names from the backend.
func (c *Controller) ExploredList(ctx context.Context) ([]CityStatus, error) {
	names, err := c.client.GetExplorations(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading explorations: %w", err)
	}

	explored := make(map[string]bool, len(names))
	for _, name := range names {
		explored[city.DisplayName(name)] = true
	}

	out := make([]CityStatus, 0, len(city.Cities))
	for _, info := range city.Cities {
		out = append(out, CityStatus{Name: info.Name, Explored: explored[info.Name]})
	}
	return out, nil
}

// UploadAvatar guards the file locally (type and size, as the server would)
// and uploads it.
func (c *Controller) UploadAvatar(ctx context.Context, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedAvatarExts[ext] {
		return fmt.Errorf("unsupported avatar type %q: use png, jpg, jpeg or gif", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening avatar file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("inspecting avatar file: %w", err)
	}
	if stat.Size() == 0 {
		return fmt.Errorf("avatar file is empty")
	}
	if stat.Size() > MaxAvatarSize {
		return fmt.Errorf("avatar file is %d bytes, limit is 2MB", stat.Size())
	}

	return c.client.UploadAvatar(ctx, filepath.Base(path), f)
}

// ChangePassword validates the form and submits it.
func (c *Controller) ChangePassword(ctx context.Context, form PasswordChange) error {
	if err := c.validate.Struct(form); err != nil {
		return fmt.Errorf("invalid password form: %w", err)
	}
	return c.client.ChangePassword(ctx, form.Old, form.New)
}

// DeleteAccount submits the deletion form. Callers confirm first; the
// session is gone on success.
func (c *Controller) DeleteAccount(ctx context.Context, password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return c.client.DeleteAccount(ctx, password)
}
