package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/models"
	"gitlab.com/skao/slt_backend/utils"
)

const thumbnailEdge = 150

// MediaService stores uploaded files in object storage and attaches their
// references to comments. Only references are persisted in the database.
type MediaService struct {
	crud     ShiftCrud
	comments *CommentService
	log      *logrus.Logger
}

func NewMediaService(crud ShiftCrud, comments *CommentService, log *logrus.Logger) *MediaService {
	return &MediaService{crud: crud, comments: comments, log: log}
}

// UploadMedia stores the file under a fresh unique id and returns its
// reference. Images additionally get a downscaled thumbnail stored next to
// the original.
func (s *MediaService) UploadMedia(ctx context.Context, fileName, contentType string, data []byte) (models.Media, error) {
	uniqueId := uuid.NewString()
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	objectName := uniqueId
	if ext != "" {
		objectName = uniqueId + "." + ext
	}

	storedPath, err := utils.UploadObjectToGCS(ctx, objectName, contentType, data)
	if err != nil {
		return models.Media{}, err
	}

	if strings.HasPrefix(contentType, "image/") {
		if err := s.uploadThumbnail(ctx, uniqueId, data); err != nil {
			// The original upload stands; a missing thumbnail only degrades
			// list views.
			s.log.WithField("unique_id", uniqueId).WithError(err).Warn("thumbnail generation failed")
		}
	}

	now := utils.NowUTC()
	return models.Media{
		Path:          storedPath,
		UniqueId:      uniqueId,
		FileExtension: ext,
		ContentType:   contentType,
		Timestamp:     &now,
	}, nil
}

func (s *MediaService) uploadThumbnail(ctx context.Context, uniqueId string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	thumb := imaging.Thumbnail(img, thumbnailEdge, thumbnailEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return err
	}
	_, err = utils.UploadObjectToGCS(ctx, thumbnailObjectName(uniqueId), "image/png", buf.Bytes())
	return err
}

func thumbnailObjectName(uniqueId string) string {
	return fmt.Sprintf("%s_thumbnail.png", uniqueId)
}

// AttachMediaToShiftComment uploads the files and appends their references
// to the comment's image list.
func (s *MediaService) AttachMediaToShiftComment(ctx context.Context, commentId int, files []MediaUpload) (models.ShiftComment, error) {
	stored, err := s.comments.getShiftComment(ctx, commentId)
	if err != nil {
		return models.ShiftComment{}, err
	}

	for _, f := range files {
		media, err := s.UploadMedia(ctx, f.FileName, f.ContentType, f.Data)
		if err != nil {
			return models.ShiftComment{}, err
		}
		stored.Image = append(stored.Image, media)
	}

	operator, _ := utils.GetOperatorFromContext(ctx)
	stored.Metadata = models.UpdateMetadata(stored.Metadata, operator)
	if _, err := s.crud.UpdateEntity(ctx, commentId, stored); err != nil {
		return models.ShiftComment{}, err
	}
	return stored, nil
}

// MediaUpload is one caller-supplied file.
type MediaUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// GetMedia reads an uploaded object back by its stored reference.
func (s *MediaService) GetMedia(ctx context.Context, media models.Media) ([]byte, string, error) {
	objectName := media.UniqueId
	if media.FileExtension != "" {
		objectName = media.UniqueId + "." + media.FileExtension
	}
	return utils.GetObjectFromGCS(ctx, objectName)
}
