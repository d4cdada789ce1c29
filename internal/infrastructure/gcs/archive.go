package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/petaverse-auth/internal/application"
	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	"github.com/oksasatya/petaverse-auth/pkg/helpers"
)

// deletedUser is the archived shape; password digest and OTP are left out.
type deletedUser struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DateOfBirth string    `json:"date_of_birth"`
	Country     string    `json:"country"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	DeletedAt   time.Time `json:"deletedAt"`
}

// Archive writes one JSON object per deleted account to a bucket.
type Archive struct {
	Client *storage.Client
	Bucket string
	Prefix string
	Now    func() time.Time
}

func NewArchive(client *storage.Client, bucket string) *Archive {
	return &Archive{Client: client, Bucket: bucket, Prefix: "deleted-users", Now: time.Now}
}

// ObjectPath is where the archive of user id lands.
func (a *Archive) ObjectPath(id string, at time.Time) string {
	return path.Join(a.Prefix, at.UTC().Format("2006/01/02"), id+".json")
}

func (a *Archive) ArchiveDeleted(ctx context.Context, u *entity.User) error {
	now := a.Now().UTC()
	b, err := encodeDeleted(u, now)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return helpers.UploadObject(c, a.Client, a.Bucket, a.ObjectPath(u.ID, now), "application/json", bytes.NewReader(b))
}

func encodeDeleted(u *entity.User, at time.Time) ([]byte, error) {
	return json.Marshal(deletedUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth.Format("2006-01-02"),
		Country:     u.Country,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
		DeletedAt:   at,
	})
}

var _ application.Archiver = (*Archive)(nil)
