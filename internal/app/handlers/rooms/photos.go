package rooms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/uow"
	domainroom "innkeeper/internal/domain/room"
	"innkeeper/internal/infra/storage/s3"
)

const uploadRoomPhotoKey = "admin.rooms.photos.upload"

type UploadRoomPhotoCommand struct {
	RoomID      string
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

func (c UploadRoomPhotoCommand) Key() string { return uploadRoomPhotoKey }

type UploadRoomPhotoResult struct {
	RoomID string   `json:"room_id"`
	Photos []string `json:"photos"`
}

type UploadRoomPhotoHandler struct {
	Logger   *slog.Logger
	Uploader s3.Uploader
	Now      func() time.Time
}

func (h *UploadRoomPhotoHandler) Handle(ctx context.Context, cmd UploadRoomPhotoCommand) (*UploadRoomPhotoResult, error) {
	if h.Uploader == nil {
		return nil, errors.New("photo uploader unavailable")
	}
	if strings.TrimSpace(cmd.RoomID) == "" {
		return nil, domainroom.ErrIDRequired
	}
	if cmd.Reader == nil {
		return nil, errors.New("photo reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, errors.New("object key is required")
	}

	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	rm, err := unit.Rooms().ByID(ctx, domainroom.ID(cmd.RoomID))
	if err != nil {
		return nil, err
	}

	publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	rm.AddPhoto(publicURL, now)
	if err := unit.Rooms().Save(ctx, rm); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("room photo added", "room_id", rm.ID, "object_key", cmd.ObjectKey)
	}

	return &UploadRoomPhotoResult{
		RoomID: string(rm.ID),
		Photos: append([]string(nil), rm.Photos...),
	}, nil
}

var _ commands.Handler[UploadRoomPhotoCommand, *UploadRoomPhotoResult] = (*UploadRoomPhotoHandler)(nil)
