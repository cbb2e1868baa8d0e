// Package backup exports a user's library as a JSON snapshot to S3-compatible
// object storage through a presigned PUT URL.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/netx"
	"github.com/dmitrijs2005/bibliotube/internal/store"
	"github.com/google/uuid"
)

// SnapshotVersion is bumped when the snapshot layout changes.
const SnapshotVersion = 1

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// ErrDisabled is returned by Export when no bucket is configured.
var ErrDisabled = errors.New("backup is not configured")

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// URLExpiry bounds the lifetime of the presigned URL.
	URLExpiry time.Duration
}

type Snapshot struct {
	Version    int              `json:"version"`
	UserID     string           `json:"userId"`
	ExportedAt time.Time        `json:"exportedAt"`
	Folders    []FolderSnapshot `json:"folders"`
}

type FolderSnapshot struct {
	models.Folder
	Videos []VideoSnapshot `json:"videos"`
}

type VideoSnapshot struct {
	models.Video
	Reminders []models.Reminder `json:"reminders"`
}

type Exporter struct {
	local  store.Store
	cfg    Config
	client *http.Client
	log    logging.Logger
	now    func() time.Time
}

func NewExporter(local store.Store, cfg Config, client *http.Client, log logging.Logger) *Exporter {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}
	return &Exporter{
		local:  local,
		cfg:    cfg,
		client: client,
		log:    log.With("module", "backup"),
		now:    time.Now,
	}
}

func (e *Exporter) Enabled() bool {
	return e.cfg.Bucket != ""
}

// ObjectKey returns users/<userID>/<yyyy>/<mm>/<dd>/<uuid>.json for t.
func ObjectKey(userID string, t time.Time) string {
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%s.json", userID, t.Year(), t.Month(), t.Day(), uuid.NewString())
}

// Snapshot collects the user's folders with their videos and reminders.
func (e *Exporter) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	if userID == "" {
		return Snapshot{}, common.ErrNoUser
	}
	folders, err := e.local.Folders.ListByUser(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list folders: %w", err)
	}

	snap := Snapshot{
		Version:    SnapshotVersion,
		UserID:     userID,
		ExportedAt: e.now().UTC(),
		Folders:    make([]FolderSnapshot, 0, len(folders)),
	}
	for _, f := range folders {
		vids, err := e.local.Videos.ListByFolder(ctx, f.ID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("list videos of %s: %w", f.ID, err)
		}
		fs := FolderSnapshot{Folder: f, Videos: make([]VideoSnapshot, 0, len(vids))}
		for _, v := range vids {
			rems, err := e.local.Reminders.ListByVideo(ctx, v.ID)
			if err != nil {
				return Snapshot{}, fmt.Errorf("list reminders of %s: %w", v.ID, err)
			}
			if rems == nil {
				rems = []models.Reminder{}
			}
			fs.Videos = append(fs.Videos, VideoSnapshot{Video: v, Reminders: rems})
		}
		snap.Folders = append(snap.Folders, fs)
	}
	return snap, nil
}

// Export uploads a snapshot and returns its object key.
func (e *Exporter) Export(ctx context.Context, userID string) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}
	snap, err := e.Snapshot(ctx, userID)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := ObjectKey(userID, snap.ExportedAt)
	url, err := e.presignPut(ctx, key)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	if err := netx.PutPresigned(ctx, e.client, url, "application/json", body); err != nil {
		return "", err
	}

	e.log.Info(ctx, "library exported", "key", key, "folders", len(snap.Folders), "bytes", len(body))
	return key, nil
}

func (e *Exporter) presignPut(ctx context.Context, key string) (string, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(e.cfg.AccessKey, e.cfg.SecretKey, "")),
	)
	if err != nil {
		return "", err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if e.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(e.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	req, err := presignPutObject(s3.NewPresignClient(client), ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String("application/json"),
	}, s3.WithPresignExpires(e.cfg.URLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
