// Package cloudinary uploads session media (class recordings and note
// attachments) to Cloudinary.
package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

const (
	RecordingFolder  = "classhub/recordings"
	AttachmentFolder = "classhub/attachments"
)

// Recordings stream at reduced quality; attachments are resized for the notes view.
const (
	recordingEager  = "q_auto:low,f_auto,w_1280"
	attachmentEager = "q_auto,f_auto,w_800,c_limit"
)

type Upload struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	PublicID     string `json:"public_id"`
}

// Uploader is the subset of Cloudinary the services use.
type Uploader interface {
	UploadRecording(ctx context.Context, file io.Reader, publicID string) (*Upload, error)
	UploadAttachment(ctx context.Context, file io.Reader, publicID string) (*Upload, error)
}

type client struct {
	cloudName string
	api       *uploader.API
}

// NewClient builds an Uploader from credentials.
func NewClient(cloudName, apiKey, apiSecret string) (Uploader, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	api, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &client{cloudName: cloudName, api: api}, nil
}

var syncEager = false

func (c *client) UploadRecording(ctx context.Context, file io.Reader, publicID string) (*Upload, error) {
	res, err := c.api.Upload(ctx, file, uploader.UploadParams{
		Folder:       RecordingFolder,
		PublicID:     publicID,
		ResourceType: "video",
		Eager:        recordingEager,
		EagerAsync:   &syncEager,
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	out := &Upload{URL: res.SecureURL, PublicID: res.PublicID}
	if len(res.Eager) > 0 && res.Eager[0].SecureURL != "" {
		out.URL = res.Eager[0].SecureURL
	}
	out.ThumbnailURL = fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/so_0/%s.jpg", c.cloudName, res.PublicID)
	return out, nil
}

func (c *client) UploadAttachment(ctx context.Context, file io.Reader, publicID string) (*Upload, error) {
	res, err := c.api.Upload(ctx, file, uploader.UploadParams{
		Folder:     AttachmentFolder,
		PublicID:   publicID,
		Eager:      attachmentEager,
		EagerAsync: &syncEager,
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	out := &Upload{URL: res.SecureURL, PublicID: res.PublicID}
	if len(res.Eager) > 0 {
		out.ThumbnailURL = res.Eager[0].SecureURL
	}
	if out.ThumbnailURL == "" {
		out.ThumbnailURL = fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/w_200,c_fill/%s", c.cloudName, res.PublicID)
	}
	return out, nil
}
