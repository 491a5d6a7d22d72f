package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
	"github.com/daygram-app/daygram-api/internal/utils"
	"github.com/daygram-app/daygram-api/internal/validation"
)

const dateLayout = "2006-01-02"

// Imported rows carry no photo; clients render their own placeholder for
// this sentinel.
const importedImageUrl = ""

// to mock service in tests
type PostService interface {
	Create(ctx context.Context, user domain.User, groupId domain.GroupId, caption string, photo *validation.PendingPhoto) (domain.Post, error)
	Feed(user domain.User, groupId domain.GroupId, date *time.Time) ([]domain.Post, error)
	Get(user domain.User, postId domain.PostId) (domain.Post, error)
	Update(user domain.User, postId domain.PostId, data domain.PostUpdateData) (domain.Post, error)
	Delete(ctx context.Context, user domain.User, postId domain.PostId) error
	ExportCSV(user domain.User, w io.Writer) error
	ImportCSV(user domain.User, r io.Reader) (int, error)
}

type Post struct {
	storage PostStorage
	access  AccessService
	photos  PhotoStore
	auditor Auditor
	now     func() time.Time
}

type PostStorage interface {
	CreatePost(data domain.PostCreationData) (domain.Post, error)
	GetPost(id domain.PostId) (domain.Post, error)
	GroupPosts(groupId domain.GroupId, date *time.Time) ([]domain.Post, error)
	UpdatePost(id domain.PostId, data domain.PostUpdateData) error
	DeletePost(id domain.PostId) error
	HasPostOn(authorId domain.UserId, groupId domain.GroupId, date time.Time) (bool, error)
	PostExportRows(authorId domain.UserId) ([]domain.PostExport, error)
	GetGroup(id domain.GroupId) (domain.Group, error)
	GroupByNameForUser(userId domain.UserId, name string) (domain.Group, error)
}

func NewPost(storage PostStorage, access AccessService, photos PhotoStore, auditor Auditor) *Post {
	return &Post{storage: storage, access: access, photos: photos, auditor: auditor, now: time.Now}
}

// today truncates the clock to the server's UTC calendar day, the
// granularity the posting rule works at.
func (p *Post) today() time.Time {
	t := p.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create uploads the photo and writes the post. One post per author per
// group per day; the check here is advisory, the store's unique index has
// the final word.
func (p *Post) Create(ctx context.Context, user domain.User, groupId domain.GroupId, caption string, photo *validation.PendingPhoto) (domain.Post, error) {
	group, err := p.storage.GetGroup(groupId)
	if err != nil {
		return domain.Post{}, err
	}
	if err := p.access.CanPost(user, group); err != nil {
		return domain.Post{}, err
	}

	date := p.today()
	alreadyPosted, err := p.storage.HasPostOn(user.Id, groupId, date)
	if err != nil {
		return domain.Post{}, err
	}
	if alreadyPosted {
		return domain.Post{}, internal_errors.Conflict("You already posted in this group today")
	}

	key := utils.NewStorageKey("posts", groupId)
	imageUrl, err := p.photos.Upload(ctx, key, photo.Data)
	if err != nil {
		return domain.Post{}, err
	}

	post, err := p.storage.CreatePost(domain.PostCreationData{
		GroupId:  groupId,
		AuthorId: user.Id,
		Caption:  caption,
		ImageUrl: imageUrl,
		ImageKey: key,
		Date:     date,
	})
	if err != nil {
		// don't leave the uploaded image orphaned
		if delErr := p.photos.Delete(ctx, key); delErr != nil {
			zap.S().Warnw("failed to delete orphaned upload", "key", key, "error", delErr)
		}
		return domain.Post{}, err
	}
	post.AuthorName = user.DisplayName()

	details := fmt.Sprintf("group %d", groupId)
	if photo.ImageWidth != nil && photo.ImageHeight != nil {
		details = fmt.Sprintf("group %d, %dx%d", groupId, *photo.ImageWidth, *photo.ImageHeight)
	}
	recordAudit(p.auditor, user.Id, domain.AuditCreate, "post", post.Id, details)
	return post, nil
}

// Feed lists a group's posts for members, newest first, optionally limited
// to one day.
func (p *Post) Feed(user domain.User, groupId domain.GroupId, date *time.Time) ([]domain.Post, error) {
	group, err := p.storage.GetGroup(groupId)
	if err != nil {
		return nil, err
	}
	if err := p.access.CanPost(user, group); err != nil {
		return nil, err
	}
	return p.storage.GroupPosts(groupId, date)
}

func (p *Post) Get(user domain.User, postId domain.PostId) (domain.Post, error) {
	post, err := p.storage.GetPost(postId)
	if err != nil {
		return domain.Post{}, err
	}
	group, err := p.storage.GetGroup(post.GroupId)
	if err != nil {
		return domain.Post{}, err
	}
	if err := p.access.CanPost(user, group); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (p *Post) Update(user domain.User, postId domain.PostId, data domain.PostUpdateData) (domain.Post, error) {
	post, err := p.storage.GetPost(postId)
	if err != nil {
		return domain.Post{}, err
	}
	if err := p.access.CanEditOrDeletePost(user, post); err != nil {
		return domain.Post{}, err
	}
	if err := p.storage.UpdatePost(postId, data); err != nil {
		return domain.Post{}, err
	}
	recordAudit(p.auditor, user.Id, domain.AuditUpdate, "post", postId, "")
	return p.storage.GetPost(postId)
}

func (p *Post) Delete(ctx context.Context, user domain.User, postId domain.PostId) error {
	post, err := p.storage.GetPost(postId)
	if err != nil {
		return err
	}
	if err := p.access.CanEditOrDeletePost(user, post); err != nil {
		return err
	}
	if err := p.storage.DeletePost(postId); err != nil {
		return err
	}
	if post.ImageKey != "" {
		if err := p.photos.Delete(ctx, post.ImageKey); err != nil {
			zap.S().Warnw("failed to delete post image", "key", post.ImageKey, "error", err)
		}
	}
	recordAudit(p.auditor, user.Id, domain.AuditDelete, "post", postId, "")
	return nil
}

// ExportCSV streams the caller's posting history as
// group_name,caption,date rows.
func (p *Post) ExportCSV(user domain.User, w io.Writer) error {
	rows, err := p.storage.PostExportRows(user.Id)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"group_name", "caption", "date"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.GroupName, row.Caption, row.Date.Format(dateLayout)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ImportCSV creates posts from exported rows. Rows pointing at groups the
// caller doesn't belong to, rows with bad dates and rows colliding with
// an existing post for that day are skipped, not fatal. Returns the number
// of posts created.
func (p *Post) ImportCSV(user domain.User, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	header, err := reader.Read()
	if err != nil {
		return 0, internal_errors.BadRequest("Empty or malformed CSV")
	}
	if header[0] != "group_name" || header[1] != "caption" || header[2] != "date" {
		return 0, internal_errors.BadRequest("CSV header must be group_name,caption,date")
	}

	created := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, internal_errors.BadRequest("Malformed CSV row")
		}

		date, err := time.Parse(dateLayout, record[2])
		if err != nil {
			zap.S().Debugw("skipping csv row with bad date", "date", record[2])
			continue
		}
		group, err := p.storage.GroupByNameForUser(user.Id, record[0])
		if err != nil {
			if internal_errors.IsNotFound(err) {
				zap.S().Debugw("skipping csv row with unknown group", "group", record[0])
				continue
			}
			return created, err
		}

		_, err = p.storage.CreatePost(domain.PostCreationData{
			GroupId:  group.Id,
			AuthorId: user.Id,
			Caption:  record[1],
			ImageUrl: importedImageUrl,
			Date:     date,
		})
		if err != nil {
			if internal_errors.IsStatus(err, http.StatusConflict) {
				zap.S().Debugw("skipping csv row colliding with existing post", "group", record[0], "date", record[2])
				continue
			}
			return created, err
		}
		created++
	}

	if created > 0 {
		recordAudit(p.auditor, user.Id, domain.AuditCreate, "post", 0, fmt.Sprintf("csv import, %d posts", created))
	}
	return created, nil
}
