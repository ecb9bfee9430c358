package splitter

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/calebwren/redline/internal/sections"
)

// subImager is satisfied by every stdlib raster type png.Decode returns.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CropRegion cuts a normalized region out of a page image and writes it
// as PNG. Regions are fractions of the page size so the same descriptors
// work across scan resolutions.
func CropRegion(srcPath, dstPath string, region sections.Region) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("%w: open page image: %w", ErrCropFailed, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decode page image: %w", ErrCropFailed, err)
	}

	rect, err := regionRect(img.Bounds(), region)
	if err != nil {
		return err
	}

	si, ok := img.(subImager)
	if !ok {
		return fmt.Errorf("%w: image type %T does not support cropping", ErrCropFailed, img)
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("%w: create crop: %w", ErrCropFailed, err)
	}
	defer out.Close()

	if err := png.Encode(out, si.SubImage(rect)); err != nil {
		return fmt.Errorf("%w: encode crop: %w", ErrCropFailed, err)
	}
	return nil
}

func regionRect(bounds image.Rectangle, region sections.Region) (image.Rectangle, error) {
	if region.Width <= 0 || region.Height <= 0 ||
		region.X < 0 || region.Y < 0 ||
		region.X+region.Width > 1 || region.Y+region.Height > 1 {
		return image.Rectangle{}, fmt.Errorf("%w: region out of bounds: %+v", ErrCropFailed, region)
	}

	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	rect := image.Rect(
		bounds.Min.X+int(region.X*w),
		bounds.Min.Y+int(region.Y*h),
		bounds.Min.X+int((region.X+region.Width)*w),
		bounds.Min.Y+int((region.Y+region.Height)*h),
	)
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: region collapses to empty rect: %+v", ErrCropFailed, region)
	}
	return rect, nil
}
