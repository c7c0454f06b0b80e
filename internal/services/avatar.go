package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/clients/gcp"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

// AvatarService renders the fallback profile pictures: a colored disc with
// the student's initials, stored alongside uploaded avatars.
type AvatarService interface {
	GenerateInitialAvatar(ctx context.Context, userID uuid.UUID, displayName string) error
	SetAvatarFromImage(ctx context.Context, userID uuid.UUID, raw []byte) (string, error)
}

type avatarService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	bucket      gcp.BucketService

	bgColors []color.NRGBA
	fontFace font.Face
}

// Background palette for generated avatars. Picked per-user by name hash so
// the same student always gets the same color.
var avatarPalette = []color.NRGBA{
	{R: 0x0E, G: 0x7A, B: 0x5F, A: 0xFF},
	{R: 0xC2, G: 0x41, B: 0x0D, A: 0xFF},
	{R: 0x1D, G: 0x4E, B: 0x89, A: 0xFF},
	{R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF},
	{R: 0xB4, G: 0x23, B: 0x18, A: 0xFF},
	{R: 0x0F, G: 0x76, B: 0x6E, A: 0xFF},
	{R: 0x92, G: 0x40, B: 0x0E, A: 0xFF},
	{R: 0x4A, G: 0x22, B: 0x8B, A: 0xFF},
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo, bucket gcp.BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := os.Getenv("AVATAR_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:          db,
		log:         serviceLog,
		profileRepo: profileRepo,
		bucket:      bucket,
		bgColors:    avatarPalette,
		fontFace:    face,
	}, nil
}

func (as *avatarService) GenerateInitialAvatar(ctx context.Context, userID uuid.UUID, displayName string) error {
	buf, err := as.render(displayName)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("user_avatar/%s/%d.png", userID.String(), time.Now().UnixNano())
	if err := as.bucket.UploadFile(ctx, gcp.BucketCategoryAvatar, key, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload generated avatar: %w", err)
	}

	url := as.bucket.GetPublicURL(gcp.BucketCategoryAvatar, key)
	if err := as.profileRepo.UpdateAvatar(ctx, nil, userID, key, url); err != nil {
		return fmt.Errorf("failed to save avatar reference: %w", err)
	}
	return nil
}

func (as *avatarService) SetAvatarFromImage(ctx context.Context, userID uuid.UUID, raw []byte) (string, error) {
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return "", err
	}

	profile, err := as.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return "", fmt.Errorf("loading profile: %w", err)
	}
	oldKey := ""
	if profile != nil {
		oldKey = strings.TrimSpace(profile.AvatarBucketKey)
	}

	// Versioned key so CDN and browser caches never serve a stale avatar.
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", userID.String(), time.Now().UnixNano())
	if err := as.bucket.UploadFile(ctx, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(processed.Bytes())); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	url := as.bucket.GetPublicURL(gcp.BucketCategoryAvatar, newKey)
	if err := as.profileRepo.UpdateAvatar(ctx, nil, userID, newKey, url); err != nil {
		return "", fmt.Errorf("failed to save avatar reference: %w", err)
	}

	if oldKey != "" && oldKey != newKey {
		if err := as.bucket.DeleteFile(ctx, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "old_key", oldKey, "error", err)
		}
	}
	return url, nil
}

func (as *avatarService) render(displayName string) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.colorFor(displayName))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(displayName)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (as *avatarService) colorFor(displayName string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(displayName))))
	return as.bgColors[int(h.Sum32())%len(as.bgColors)]
}

func computeInitials(displayName string) string {
	parts := strings.Fields(displayName)
	switch {
	case len(parts) >= 2:
		return strings.ToUpper(parts[0][:1]) + strings.ToUpper(parts[1][:1])
	case len(parts) == 1:
		return strings.ToUpper(parts[0][:1])
	default:
		return "?"
	}
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square, then resize.
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
